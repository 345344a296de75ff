// Package bot holds the event model, the freshness-gated command dispatcher,
// and the chat-facing handlers.
package bot

import (
	"context"
	"time"
)

// Meta carries the fields every inbound event shares.
type Meta struct {
	ChatID    int64
	MessageID int
	UserID    int64
	FirstName string
	SentAt    time.Time
	Reply     *RepliedMessage
}

// EventMeta implements Event for any type embedding Meta.
func (m Meta) EventMeta() Meta { return m }

// RepliedMessage describes the message an inbound event replies to. The file
// ID fields are empty when the replied message carries no such attachment.
type RepliedMessage struct {
	MessageID       int
	UserID          int64
	FirstName       string
	Text            string
	VoiceFileID     string
	VideoNoteFileID string
}

// Event is the tagged union of inbound event kinds. Exactly one concrete
// type exists per kind, carrying only the fields valid for it.
type Event interface {
	EventMeta() Meta
}

// Message is a plain chat message. Text is empty for non-text messages
// (stickers, photos, ...), which are observed but never keyword-scanned.
type Message struct {
	Meta
	Text string
}

// Command is a bot command with its parsed arguments.
type Command struct {
	Meta
	Name string
	Args []string
}

// Voice is an inbound voice message.
type Voice struct {
	Meta
	FileID string
}

// VideoNote is an inbound video-note message.
type VideoNote struct {
	Meta
	FileID string
}

// Reply is an outbound message. ReplyTo is a message ID to attach to, zero
// for none. Markdown selects Telegram markdown parse mode.
type Reply struct {
	Text     string
	ReplyTo  int
	Markdown bool
}

// ChatClient is the transport surface the handlers need. The Telegram
// adapter implements it.
type ChatClient interface {
	Send(ctx context.Context, chatID int64, reply Reply) error
	MemberName(ctx context.Context, chatID, userID int64) (string, error)
	MemberCount(ctx context.Context, chatID int64) (int, error)
}
