package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/starostabot/starosta/internal/bot"
)

const updateTimeoutSeconds = 30

// Listen long-polls for updates and hands each converted event to dispatch,
// one at a time, until ctx is cancelled. Pending updates are not dropped on
// start; the dispatcher's session boundary decides what is stale.
func (c *Client) Listen(ctx context.Context, dispatch func(context.Context, bot.Event)) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = updateTimeoutSeconds
	updates := c.api.GetUpdatesChan(updateConfig)

	c.logger.Info("update loop started")
	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			// Drain so the library's polling goroutine can exit; an
			// in-flight long-poll otherwise keeps the getUpdates session
			// alive and conflicts with the next start.
			for range updates {
			}
			c.logger.Info("update loop stopped")
			return
		case update, ok := <-updates:
			if !ok {
				c.logger.Info("updates channel closed")
				return
			}
			if update.Message == nil {
				continue
			}
			event, ok := convertMessage(update.Message)
			if !ok {
				continue
			}
			dispatch(ctx, event)
		}
	}
}

// convertMessage maps an inbound Telegram message onto the event union.
// Messages without a sender are dropped.
func convertMessage(msg *tgbotapi.Message) (bot.Event, bool) {
	if msg == nil || msg.From == nil {
		return nil, false
	}
	meta := bot.Meta{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		UserID:    msg.From.ID,
		FirstName: msg.From.FirstName,
		SentAt:    time.Unix(int64(msg.Date), 0).UTC(),
		Reply:     convertReply(msg.ReplyToMessage),
	}
	switch {
	case msg.IsCommand():
		return bot.Command{
			Meta: meta,
			Name: msg.Command(),
			Args: strings.Fields(msg.CommandArguments()),
		}, true
	case msg.Voice != nil:
		return bot.Voice{Meta: meta, FileID: msg.Voice.FileID}, true
	case msg.VideoNote != nil:
		return bot.VideoNote{Meta: meta, FileID: msg.VideoNote.FileID}, true
	default:
		return bot.Message{Meta: meta, Text: msg.Text}, true
	}
}

func convertReply(msg *tgbotapi.Message) *bot.RepliedMessage {
	if msg == nil {
		return nil
	}
	reply := &bot.RepliedMessage{
		MessageID: msg.MessageID,
		Text:      msg.Text,
	}
	if msg.From != nil {
		reply.UserID = msg.From.ID
		reply.FirstName = msg.From.FirstName
	}
	if msg.Voice != nil {
		reply.VoiceFileID = msg.Voice.FileID
	}
	if msg.VideoNote != nil {
		reply.VideoNoteFileID = msg.VideoNote.FileID
	}
	return reply
}
