package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starostabot/starosta/internal/roster"
)

// maxMessageLength is the Telegram message size ceiling. A mention broadcast
// that would exceed it is replaced by a sentinel, never truncated silently.
const maxMessageLength = 4096

// MentionBuilder renders roster-wide mention broadcasts and presence reports.
// Missing display names are resolved through the chat client and persisted.
type MentionBuilder struct {
	roster *roster.Service
	client ChatClient
	logger *slog.Logger
}

// NewMentionBuilder wires a builder over the roster and the chat client.
func NewMentionBuilder(log *slog.Logger, svc *roster.Service, client ChatClient) *MentionBuilder {
	if log == nil {
		log = slog.Default()
	}
	return &MentionBuilder{
		roster: svc,
		client: client,
		logger: log.With(slog.String("service", "mentions")),
	}
}

func (b *MentionBuilder) fetcher(chatID int64) roster.NameFetcher {
	return func(ctx context.Context, userID int64) (string, error) {
		return b.client.MemberName(ctx, chatID, userID)
	}
}

// Build renders one mention token per roster entry in stored order. The
// returned markdown flag is set only when the text contains mention links.
// One member's lookup failure never aborts the rest of the roster.
func (b *MentionBuilder) Build(ctx context.Context, chatID int64) (text string, markdown bool, err error) {
	entries := b.roster.Snapshot(chatID)
	if len(entries) == 0 {
		return replyNoInteractions, false, nil
	}

	var sb strings.Builder
	errorsCount := 0
	for _, entry := range entries {
		name, err := b.roster.ResolveDisplayName(ctx, chatID, entry.ID, b.fetcher(chatID))
		if err != nil {
			b.logger.Error("resolve member failed",
				slog.Int64("user_id", entry.ID),
				slog.Any("error", err),
			)
			errorsCount++
			continue
		}
		fmt.Fprintf(&sb, "[%s](tg://user?id=%d) ", name, entry.ID)
	}
	if errorsCount > 0 {
		b.logger.Warn("some members could not be resolved",
			slog.Int("failed", errorsCount),
			slog.Int("total", len(entries)),
		)
	}

	mentions := sb.String()
	switch {
	case len(mentions) > maxMessageLength:
		return replyTooManyMentions, false, nil
	case mentions == "":
		return replyMentionsFailed, false, nil
	default:
		return mentions, true, nil
	}
}

// PresenceReport renders a newline-joined name list plus the number of chat
// members the roster has not seen yet (excluding the bot itself). Exactly
// zero missing members yields a completion marker instead of the count.
func (b *MentionBuilder) PresenceReport(ctx context.Context, chatID int64) (string, error) {
	entries := b.roster.Snapshot(chatID)
	if len(entries) == 0 {
		return replyNoActiveUsers, nil
	}

	memberCount, err := b.client.MemberCount(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("get chat member count: %w", err)
	}

	names := make([]string, 0, len(entries))
	errorsCount := 0
	for _, entry := range entries {
		name, err := b.roster.ResolveDisplayName(ctx, chatID, entry.ID, b.fetcher(chatID))
		if err != nil {
			b.logger.Error("resolve member failed",
				slog.Int64("user_id", entry.ID),
				slog.Any("error", err),
			)
			errorsCount++
			continue
		}
		names = append(names, name)
	}
	if errorsCount > 0 {
		b.logger.Warn("some members could not be resolved",
			slog.Int("failed", errorsCount),
			slog.Int("total", len(entries)),
		)
	}
	if len(names) == 0 {
		return replyNoActiveUsers, nil
	}

	missing := memberCount - len(names) - 1
	var sb strings.Builder
	sb.WriteString("Участники:\n")
	sb.WriteString(strings.Join(names, "\n"))
	sb.WriteString("\n\n")
	if missing == 0 {
		sb.WriteString(replyRosterComplete)
	} else {
		fmt.Fprintf(&sb, "Не хватает %d участников.", missing)
	}
	return sb.String(), nil
}
