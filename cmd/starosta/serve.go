package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/starostabot/starosta/internal/bot"
	"github.com/starostabot/starosta/internal/config"
	"github.com/starostabot/starosta/internal/logger"
	"github.com/starostabot/starosta/internal/roster"
	"github.com/starostabot/starosta/internal/speech"
	"github.com/starostabot/starosta/internal/telegram"
	"github.com/starostabot/starosta/internal/transcribe"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideStore,
			provideRosterService,
			provideTelegramClient,
			provideRecognizer,
			provideTranscoder,
			providePipeline,
			provideMentionBuilder,
			provideDispatcher,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),
		fx.Invoke(startBot),
	).Run()
}

// provideConfig loads and validates the config. A missing Telegram token or
// any other incomplete setting aborts startup with a non-zero exit before the
// update loop starts.
func provideConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideStore(cfg config.Config) *roster.Store {
	return roster.NewStore(cfg.Store.Path)
}

// provideRosterService loads the registry; a corrupt store file fails here,
// before serving.
func provideRosterService(log *slog.Logger, store *roster.Store) (*roster.Service, error) {
	return roster.NewService(log, store)
}

func provideTelegramClient(log *slog.Logger, cfg config.Config) (*telegram.Client, error) {
	return telegram.NewClient(log, cfg.Telegram.Token, time.Duration(cfg.Download.TimeoutSeconds)*time.Second)
}

func provideRecognizer(log *slog.Logger, cfg config.Config) speech.Recognizer {
	return speech.NewGoogleRecognizer(
		log,
		cfg.Speech.Endpoint,
		cfg.Speech.APIKey,
		time.Duration(cfg.Speech.TimeoutSeconds)*time.Second,
	)
}

func provideTranscoder(log *slog.Logger, cfg config.Config) *transcribe.FFmpegTranscoder {
	return transcribe.NewFFmpegTranscoder(log, cfg.Transcode.FFmpegPath, time.Duration(cfg.Transcode.TimeoutSeconds)*time.Second)
}

func providePipeline(log *slog.Logger, cfg config.Config, client *telegram.Client, tc *transcribe.FFmpegTranscoder, rec speech.Recognizer) *transcribe.Pipeline {
	return transcribe.NewPipeline(log, client, tc, rec, cfg.Download.Dir, cfg.Speech.Language)
}

func provideMentionBuilder(log *slog.Logger, svc *roster.Service, client *telegram.Client) *bot.MentionBuilder {
	return bot.NewMentionBuilder(log, svc, client)
}

// provideDispatcher captures the session boundary: the construction time is
// the process start, and every event sent before it is dropped.
func provideDispatcher(log *slog.Logger, svc *roster.Service, client *telegram.Client, pipeline *transcribe.Pipeline, mentions *bot.MentionBuilder) *bot.Dispatcher {
	return bot.NewDispatcher(log, time.Now().UTC(), svc, client, pipeline, mentions)
}

func startBot(lc fx.Lifecycle, log *slog.Logger, client *telegram.Client, dispatcher *bot.Dispatcher) {
	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				client.Listen(loopCtx, dispatcher.Dispatch)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				log.Warn("update loop did not stop before shutdown deadline")
			}
			return nil
		},
	})
}
