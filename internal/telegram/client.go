// Package telegram adapts the Telegram Bot API to the bot's transport
// surface: sending replies, member lookups, and attachment downloads.
package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/starostabot/starosta/internal/bot"
)

// Client wraps a single bot API session.
type Client struct {
	api        *tgbotapi.BotAPI
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient authenticates against the Bot API. An invalid or missing token
// surfaces here, before any update loop starts.
func NewClient(log *slog.Logger, token string, downloadTimeout time.Duration) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	logger := log.With(slog.String("adapter", "telegram"))
	logger.Info("authorized", slog.String("username", api.Self.UserName))
	return &Client{
		api:        api,
		httpClient: &http.Client{Timeout: downloadTimeout},
		logger:     logger,
	}, nil
}

// Send delivers one outbound reply.
func (c *Client) Send(ctx context.Context, chatID int64, reply bot.Reply) error {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.ReplyTo > 0 {
		msg.ReplyToMessageID = reply.ReplyTo
	}
	if reply.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// MemberName fetches a chat member's first name from the platform.
func (c *Client) MemberName(ctx context.Context, chatID, userID int64) (string, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("get chat member: %w", err)
	}
	if member.User == nil {
		return "", fmt.Errorf("chat member %d has no user", userID)
	}
	return member.User.FirstName, nil
}

// MemberCount returns the total member count of a chat, bot included.
func (c *Client) MemberCount(ctx context.Context, chatID int64) (int, error) {
	count, err := c.api.GetChatMembersCount(tgbotapi.ChatMemberCountConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return 0, fmt.Errorf("get chat member count: %w", err)
	}
	return count, nil
}

// Download resolves a file ID to its direct URL and writes the payload to
// dest. The HTTP client bounds the transfer with its timeout.
func (c *Client) Download(ctx context.Context, fileID, dest string) error {
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("resolve file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download attachment: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("download attachment status: %d", resp.StatusCode)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("write download file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("close download file: %w", err)
	}
	return nil
}
