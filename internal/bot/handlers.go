package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/starostabot/starosta/internal/roster"
	"github.com/starostabot/starosta/internal/transcribe"
)

func (d *Dispatcher) handleTagAll(ctx context.Context, cmd Command) error {
	text, markdown, err := d.mentions.Build(ctx, cmd.ChatID)
	if err != nil {
		return err
	}
	d.send(ctx, cmd.ChatID, Reply{Text: text, Markdown: markdown})
	return nil
}

func (d *Dispatcher) handleCheckAll(ctx context.Context, cmd Command) error {
	report, err := d.mentions.PresenceReport(ctx, cmd.ChatID)
	if err != nil {
		return err
	}
	d.send(ctx, cmd.ChatID, Reply{Text: report})
	return nil
}

// handleVoiceCommand transcribes the voice or video note the command replies
// to. Without a qualifying replied attachment it answers with guidance and
// never starts a download.
func (d *Dispatcher) handleVoiceCommand(ctx context.Context, cmd Command) error {
	att, ok := repliedAttachment(cmd.Reply)
	if !ok {
		d.send(ctx, cmd.ChatID, Reply{Text: replyVoiceGuidance, ReplyTo: cmd.MessageID})
		return nil
	}
	text, err := d.transcriber.Run(ctx, att)
	if err != nil {
		d.logger.Error("transcription failed",
			slog.Int64("chat_id", cmd.ChatID),
			slog.Any("error", err),
		)
		d.send(ctx, cmd.ChatID, Reply{Text: replyTranscribeFailed, ReplyTo: cmd.MessageID})
		return nil
	}
	d.send(ctx, cmd.ChatID, Reply{Text: replyTranscribePrefix + text, ReplyTo: cmd.MessageID})
	return nil
}

// repliedAttachment extracts a transcribable attachment from a replied
// message, voice first.
func repliedAttachment(reply *RepliedMessage) (transcribe.Attachment, bool) {
	if reply == nil {
		return transcribe.Attachment{}, false
	}
	if reply.VoiceFileID != "" {
		return transcribe.Attachment{
			FileID:    reply.VoiceFileID,
			MessageID: reply.MessageID,
			Kind:      transcribe.KindVoice,
		}, true
	}
	if reply.VideoNoteFileID != "" {
		return transcribe.Attachment{
			FileID:    reply.VideoNoteFileID,
			MessageID: reply.MessageID,
			Kind:      transcribe.KindVideoNote,
		}, true
	}
	return transcribe.Attachment{}, false
}

func (d *Dispatcher) handleEball(ctx context.Context, cmd Command) error {
	if cmd.Reply == nil {
		d.send(ctx, cmd.ChatID, Reply{Text: replyEballNeedsReply})
		return nil
	}
	response := eballResponses[d.intn(len(eballResponses))]
	d.send(ctx, cmd.ChatID, Reply{Text: response, ReplyTo: cmd.Reply.MessageID})
	return nil
}

var (
	errRollFormat = errors.New("roll range must look like X-Y")
	errRollParse  = errors.New("roll bounds must be integers")
	errRollOrder  = errors.New("roll start must not exceed end")
)

// parseRollRange parses a "<start>-<end>" argument into inclusive bounds.
func parseRollRange(arg string) (int, int, error) {
	if !strings.Contains(arg, "-") {
		return 0, 0, errRollFormat
	}
	parts := strings.SplitN(arg, "-", 2)
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, errRollParse
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errRollParse
	}
	if start > end {
		return 0, 0, errRollOrder
	}
	return start, end, nil
}

func (d *Dispatcher) handleRoll(ctx context.Context, cmd Command) error {
	start, end := 1, 100
	if len(cmd.Args) > 0 {
		var err error
		start, end, err = parseRollRange(cmd.Args[0])
		switch {
		case errors.Is(err, errRollOrder):
			d.send(ctx, cmd.ChatID, Reply{Text: replyRollBadOrder})
			return nil
		case errors.Is(err, errRollFormat):
			d.send(ctx, cmd.ChatID, Reply{Text: replyRollBadFormat})
			return nil
		case errors.Is(err, errRollParse):
			d.send(ctx, cmd.ChatID, Reply{Text: replyRollParseError})
			return nil
		}
	}
	result := start + d.intn(end-start+1)
	d.send(ctx, cmd.ChatID, Reply{Text: strconv.Itoa(result)})
	return nil
}

func (d *Dispatcher) handleNickname(ctx context.Context, cmd Command) error {
	if cmd.Reply == nil {
		d.send(ctx, cmd.ChatID, Reply{Text: replyNicknameNeedReply})
		return nil
	}
	if len(cmd.Args) == 0 {
		d.send(ctx, cmd.ChatID, Reply{Text: replyNicknameNeedText})
		return nil
	}
	nickname := strings.Join(cmd.Args, " ")
	err := d.roster.SetNickname(cmd.ChatID, cmd.UserID, cmd.Reply.UserID, nickname)
	switch {
	case errors.Is(err, roster.ErrNotRegistered):
		d.send(ctx, cmd.ChatID, Reply{Text: replyNotRegistered})
		return nil
	case errors.Is(err, roster.ErrNotAuthorized):
		d.send(ctx, cmd.ChatID, Reply{Text: replyNotAuthorized})
		return nil
	case errors.Is(err, roster.ErrTargetNotFound):
		d.send(ctx, cmd.ChatID, Reply{Text: replyTargetNotFound})
		return nil
	case err != nil:
		return err
	}
	d.send(ctx, cmd.ChatID, Reply{
		Text: fmt.Sprintf("Пользователю %s установлен никнейм: %s", cmd.Reply.FirstName, nickname),
	})
	return nil
}
