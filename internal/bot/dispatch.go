package bot

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/starostabot/starosta/internal/roster"
	"github.com/starostabot/starosta/internal/transcribe"
)

// Transcriber runs the voice transcription pipeline for one attachment.
type Transcriber interface {
	Run(ctx context.Context, att transcribe.Attachment) (string, error)
}

// HandlerFunc handles one command. A returned error is logged by the
// dispatcher and answered with the generic failure reply; handlers that want
// a specific user-visible message send it themselves and return nil.
type HandlerFunc func(ctx context.Context, cmd Command) error

// Dispatcher routes inbound events to handlers. Every event passes the
// session-boundary filter first: anything sent before the process started is
// dropped without a reply or side effect, so a backlog accumulated while the
// bot was offline is never replayed.
type Dispatcher struct {
	logger      *slog.Logger
	startedAt   time.Time
	roster      *roster.Service
	client      ChatClient
	transcriber Transcriber
	mentions    *MentionBuilder
	handlers    map[string]HandlerFunc
	intn        func(n int) int
}

// NewDispatcher wires the dispatcher and registers the built-in commands.
// startedAt is the immutable session boundary, captured once at startup.
func NewDispatcher(log *slog.Logger, startedAt time.Time, svc *roster.Service, client ChatClient, tr Transcriber, mentions *MentionBuilder) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		logger:      log.With(slog.String("service", "dispatch")),
		startedAt:   startedAt,
		roster:      svc,
		client:      client,
		transcriber: tr,
		mentions:    mentions,
		handlers:    map[string]HandlerFunc{},
		intn:        rand.Intn,
	}
	d.handlers["tag_all"] = d.handleTagAll
	d.handlers["check_all"] = d.handleCheckAll
	d.handlers["voice"] = d.handleVoiceCommand
	d.handlers["eball"] = d.handleEball
	d.handlers["roll"] = d.handleRoll
	d.handlers["nickname"] = d.handleNickname
	return d
}

// stale reports whether an event predates the session start.
func stale(eventTime, sessionStart time.Time) bool {
	return eventTime.Before(sessionStart)
}

// Dispatch processes one inbound event. It never panics the loop: command
// errors are caught here, logged, and answered with a generic failure reply.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	meta := ev.EventMeta()
	if stale(meta.SentAt, d.startedAt) {
		d.logger.Debug("dropping stale event",
			slog.Int64("chat_id", meta.ChatID),
			slog.Time("sent_at", meta.SentAt),
		)
		return
	}

	switch ev := ev.(type) {
	case Message:
		d.handleMessage(ctx, ev)
	case Command:
		handler, ok := d.handlers[ev.Name]
		if !ok {
			return
		}
		if err := handler(ctx, ev); err != nil {
			d.logger.Error("command failed",
				slog.String("command", ev.Name),
				slog.Int64("chat_id", ev.ChatID),
				slog.Any("error", err),
			)
			d.send(ctx, ev.ChatID, Reply{Text: replyCommandFailed})
		}
	case Voice:
		d.handleVoiceMessage(ctx, ev)
	case VideoNote:
		d.observe(ev.Meta)
	}
}

// handleMessage records the sender and runs the keyword scan. Messages
// without text are observed only.
func (d *Dispatcher) handleMessage(ctx context.Context, msg Message) {
	d.observe(msg.Meta)
	if msg.Text == "" {
		return
	}
	lowered := strings.ToLower(msg.Text)
	for _, reaction := range keywordReactions {
		for _, trigger := range reaction.triggers {
			if strings.Contains(lowered, strings.ToLower(trigger)) {
				d.send(ctx, msg.ChatID, Reply{Text: reaction.reply, ReplyTo: msg.MessageID})
				return
			}
		}
	}
}

// handleVoiceMessage transcribes an incoming voice message directly.
func (d *Dispatcher) handleVoiceMessage(ctx context.Context, msg Voice) {
	text, err := d.transcriber.Run(ctx, transcribe.Attachment{
		FileID:    msg.FileID,
		MessageID: msg.MessageID,
		Kind:      transcribe.KindVoice,
	})
	if err != nil {
		d.logger.Error("voice transcription failed",
			slog.Int64("chat_id", msg.ChatID),
			slog.Any("error", err),
		)
		d.send(ctx, msg.ChatID, Reply{Text: replyTranscribeFailed, ReplyTo: msg.MessageID})
		return
	}
	d.send(ctx, msg.ChatID, Reply{Text: replyTranscribePrefix + text, ReplyTo: msg.MessageID})
}

func (d *Dispatcher) observe(meta Meta) {
	if err := d.roster.Observe(meta.ChatID, meta.UserID, meta.FirstName); err != nil {
		d.logger.Error("observe failed",
			slog.Int64("chat_id", meta.ChatID),
			slog.Int64("user_id", meta.UserID),
			slog.Any("error", err),
		)
	}
}

// send delivers a reply and logs delivery failures; it never propagates them.
func (d *Dispatcher) send(ctx context.Context, chatID int64, reply Reply) {
	if err := d.client.Send(ctx, chatID, reply); err != nil {
		d.logger.Error("send reply failed",
			slog.Int64("chat_id", chatID),
			slog.Any("error", err),
		)
	}
}
