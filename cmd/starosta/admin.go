package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starostabot/starosta/internal/config"
	"github.com/starostabot/starosta/internal/logger"
	"github.com/starostabot/starosta/internal/roster"
)

// The admin flag is provisioned out-of-band: nothing in the chat command
// surface can grant it. Run these subcommands against the store file while
// the bot is stopped (the store assumes a single writer).
func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage roster admin flags",
	}
	cmd.AddCommand(newAdminSetCmd("grant", true))
	cmd.AddCommand(newAdminSetCmd("revoke", false))
	return cmd
}

func newAdminSetCmd(use string, isAdmin bool) *cobra.Command {
	var chatID, userID int64
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("%s the admin flag for a registered user", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level, cfg.Log.Format)
			svc, err := roster.NewService(logger.L, roster.NewStore(cfg.Store.Path))
			if err != nil {
				return err
			}
			if err := svc.SetAdmin(chatID, userID, isAdmin); err != nil {
				return fmt.Errorf("set admin flag: %w", err)
			}
			fmt.Printf("user %d in chat %d: admin=%v\n", userID, chatID, isAdmin)
			return nil
		},
	}
	cmd.Flags().Int64Var(&chatID, "chat", 0, "chat id")
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	_ = cmd.MarkFlagRequired("chat")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
