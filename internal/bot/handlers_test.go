package bot

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/starostabot/starosta/internal/transcribe"
)

func command(name string, args ...string) Command {
	return Command{
		Meta: meta(-100, 1, time.Now().UTC()),
		Name: name,
		Args: args,
	}
}

func TestParseRollRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg     string
		start   int
		end     int
		wantErr error
	}{
		{"1-6", 1, 6, nil},
		{"10-10", 10, 10, nil},
		{" 3 - 7 ", 3, 7, nil},
		{"5-1", 0, 0, errRollOrder},
		{"abc", 0, 0, errRollFormat},
		{"a-b", 0, 0, errRollParse},
		{"1-b", 0, 0, errRollParse},
		{"", 0, 0, errRollFormat},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			start, end, err := parseRollRange(tt.arg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseRollRange(%q) error = %v, want %v", tt.arg, err, tt.wantErr)
			}
			if err == nil && (start != tt.start || end != tt.end) {
				t.Fatalf("parseRollRange(%q) = %d, %d, want %d, %d", tt.arg, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestHandleRollDefaultRange(t *testing.T) {
	t.Parallel()

	bot := newTestBot(t, time.Now().UTC())
	bot.dispatcher.intn = func(n int) int {
		if n != 100 {
			t.Fatalf("default range should draw from 100 values, got %d", n)
		}
		return 41
	}
	if err := bot.dispatcher.handleRoll(context.Background(), command("roll")); err != nil {
		t.Fatal(err)
	}
	if len(bot.client.sent) != 1 || bot.client.sent[0].reply.Text != "42" {
		t.Fatalf("unexpected replies: %#v", bot.client.sent)
	}
}

func TestHandleRollCustomRange(t *testing.T) {
	t.Parallel()

	bot := newTestBot(t, time.Now().UTC())
	bot.dispatcher.intn = func(n int) int { return n - 1 }
	if err := bot.dispatcher.handleRoll(context.Background(), command("roll", "5-9")); err != nil {
		t.Fatal(err)
	}
	if len(bot.client.sent) != 1 || bot.client.sent[0].reply.Text != "9" {
		t.Fatalf("unexpected replies: %#v", bot.client.sent)
	}
}

func TestHandleRollSingleValueRange(t *testing.T) {
	t.Parallel()

	bot := newTestBot(t, time.Now().UTC())
	if err := bot.dispatcher.handleRoll(context.Background(), command("roll", "7-7")); err != nil {
		t.Fatal(err)
	}
	if len(bot.client.sent) != 1 || bot.client.sent[0].reply.Text != "7" {
		t.Fatalf("unexpected replies: %#v", bot.client.sent)
	}
}

func TestHandleRollBadArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want string
	}{
		{"9-3", replyRollBadOrder},
		{"wat", replyRollBadFormat},
		{"x-y", replyRollParseError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			bot := newTestBot(t, time.Now().UTC())
			if err := bot.dispatcher.handleRoll(context.Background(), command("roll", tt.arg)); err != nil {
				t.Fatal(err)
			}
			if len(bot.client.sent) != 1 || bot.client.sent[0].reply.Text != tt.want {
				t.Fatalf("unexpected replies: %#v", bot.client.sent)
			}
		})
	}
}

func TestHandleEballRequiresReply(t *testing.T) {
	t.Parallel()

	bot := newTestBot(t, time.Now().UTC())
	if err := bot.dispatcher.handleEball(context.Background(), command("eball")); err != nil {
		t.Fatal(err)
	}
	if len(bot.client.sent) != 1 || bot.client.sent[0].reply.Text != replyEballNeedsReply {
		t.Fatalf("unexpected replies: %#v", bot.client.sent)
	}
}

func TestHandleEballAnswersRepliedMessage(t *testing.T) {
	t.Parallel()

	bot := newTestBot(t, time.Now().UTC())
	bot.dispatcher.intn = func(n int) int { return n - 1 }
	cmd := command("eball")
	cmd.Reply = &RepliedMessage{MessageID: 77, UserID: 2, FirstName: "Боря", Text: "пойдёт дождь?"}
	if err := bot.dispatcher.handleEball(context.Background(), cmd); err != nil {
		t.Fatal(err)
	}
	if len(bot.client.sent) != 1 {
		t.Fatalf("unexpected replies: %#v", bot.client.sent)
	}
	got := bot.client.sent[0]
	if got.reply.ReplyTo != 77 {
		t.Fatalf("answer should target the replied message, got %d", got.reply.ReplyTo)
	}
	if got.reply.Text != eballResponses[len(eballResponses)-1] {
		t.Fatalf("unexpected answer: %q", got.reply.Text)
	}
}

func TestHandleVoiceCommandGuidanceWithoutAttachment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply *RepliedMessage
	}{
		{"no reply", nil},
		{"reply without attachment", &RepliedMessage{MessageID: 5, Text: "просто текст"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bot := newTestBot(t, time.Now().UTC())
			cmd := command("voice")
			cmd.Reply = tt.reply
			if err := bot.dispatcher.handleVoiceCommand(context.Background(), cmd); err != nil {
				t.Fatal(err)
			}
			if len(bot.transcriber.calls) != 0 {
				t.Fatal("guidance path must never start a download")
			}
			if len(bot.client.sent) != 1 || bot.client.sent[0].reply.Text != replyVoiceGuidance {
				t.Fatalf("unexpected replies: %#v", bot.client.sent)
			}
		})
	}
}

func TestHandleVoiceCommandPrefersVoiceOverVideoNote(t *testing.T) {
	t.Parallel()

	bot := newTestBot(t, time.Now().UTC())
	bot.transcriber.text = "есть запись"
	cmd := command("voice")
	cmd.Reply = &RepliedMessage{
		MessageID:       31,
		VoiceFileID:     "voice-file",
		VideoNoteFileID: "note-file",
	}
	if err := bot.dispatcher.handleVoiceCommand(context.Background(), cmd); err != nil {
		t.Fatal(err)
	}
	if len(bot.transcriber.calls) != 1 {
		t.Fatalf("expected one pipeline run: %#v", bot.transcriber.calls)
	}
	att := bot.transcriber.calls[0]
	if att.FileID != "voice-file" || att.Kind != transcribe.KindVoice || att.MessageID != 31 {
		t.Fatalf("unexpected attachment: %#v", att)
	}
	if bot.client.sent[0].reply.Text != replyTranscribePrefix+"есть запись" {
		t.Fatalf("unexpected reply: %#v", bot.client.sent)
	}
}

func TestHandleVoiceCommandVideoNote(t *testing.T) {
	t.Parallel()

	bot := newTestBot(t, time.Now().UTC())
	cmd := command("voice")
	cmd.Reply = &RepliedMessage{MessageID: 8, VideoNoteFileID: "note-file"}
	if err := bot.dispatcher.handleVoiceCommand(context.Background(), cmd); err != nil {
		t.Fatal(err)
	}
	att := bot.transcriber.calls[0]
	if att.FileID != "note-file" || att.Kind != transcribe.KindVideoNote {
		t.Fatalf("unexpected attachment: %#v", att)
	}
}

func TestHandleVoiceCommandPipelineFailure(t *testing.T) {
	t.Parallel()

	bot := newTestBot(t, time.Now().UTC())
	bot.transcriber.err = errors.New("download failed")
	cmd := command("voice")
	cmd.Reply = &RepliedMessage{MessageID: 8, VoiceFileID: "voice-file"}
	if err := bot.dispatcher.handleVoiceCommand(context.Background(), cmd); err != nil {
		t.Fatal(err)
	}
	if len(bot.client.sent) != 1 || bot.client.sent[0].reply.Text != replyTranscribeFailed {
		t.Fatalf("unexpected replies: %#v", bot.client.sent)
	}
}

func TestHandleNickname(t *testing.T) {
	t.Parallel()

	newCmd := func(args ...string) Command {
		cmd := command("nickname", args...)
		cmd.Reply = &RepliedMessage{MessageID: 3, UserID: 2, FirstName: "Боря"}
		return cmd
	}

	t.Run("requires reply", func(t *testing.T) {
		t.Parallel()
		bot := newTestBot(t, time.Now().UTC())
		if err := bot.dispatcher.handleNickname(context.Background(), command("nickname", "Шеф")); err != nil {
			t.Fatal(err)
		}
		if bot.client.sent[0].reply.Text != replyNicknameNeedReply {
			t.Fatalf("unexpected reply: %#v", bot.client.sent)
		}
	})

	t.Run("requires nickname text", func(t *testing.T) {
		t.Parallel()
		bot := newTestBot(t, time.Now().UTC())
		if err := bot.dispatcher.handleNickname(context.Background(), newCmd()); err != nil {
			t.Fatal(err)
		}
		if bot.client.sent[0].reply.Text != replyNicknameNeedText {
			t.Fatalf("unexpected reply: %#v", bot.client.sent)
		}
	})

	t.Run("unregistered sender", func(t *testing.T) {
		t.Parallel()
		bot := newTestBot(t, time.Now().UTC())
		if err := bot.dispatcher.handleNickname(context.Background(), newCmd("Шеф")); err != nil {
			t.Fatal(err)
		}
		if bot.client.sent[0].reply.Text != replyNotRegistered {
			t.Fatalf("unexpected reply: %#v", bot.client.sent)
		}
	})

	t.Run("sender without admin flag", func(t *testing.T) {
		t.Parallel()
		bot := newTestBot(t, time.Now().UTC())
		if err := bot.roster.Observe(-100, 1, "Аня"); err != nil {
			t.Fatal(err)
		}
		if err := bot.dispatcher.handleNickname(context.Background(), newCmd("Шеф")); err != nil {
			t.Fatal(err)
		}
		if bot.client.sent[0].reply.Text != replyNotAuthorized {
			t.Fatalf("unexpected reply: %#v", bot.client.sent)
		}
	})

	t.Run("admin sets nickname for a seen member", func(t *testing.T) {
		t.Parallel()
		bot := newTestBot(t, time.Now().UTC())
		if err := bot.roster.Observe(-100, 1, "Аня"); err != nil {
			t.Fatal(err)
		}
		if err := bot.roster.Observe(-100, 2, "Боря"); err != nil {
			t.Fatal(err)
		}
		if err := bot.roster.SetAdmin(-100, 1, true); err != nil {
			t.Fatal(err)
		}
		if err := bot.dispatcher.handleNickname(context.Background(), newCmd("Великий", "Шеф")); err != nil {
			t.Fatal(err)
		}
		want := "Пользователю Боря установлен никнейм: Великий Шеф"
		if bot.client.sent[0].reply.Text != want {
			t.Fatalf("unexpected reply: %#v", bot.client.sent)
		}
		name, err := bot.roster.ResolveDisplayName(context.Background(), -100, 2, nil)
		if err != nil {
			t.Fatal(err)
		}
		if name != "Великий Шеф" {
			t.Fatalf("nickname not stored: %q", name)
		}
	})

	t.Run("admin targets an unseen member", func(t *testing.T) {
		t.Parallel()
		bot := newTestBot(t, time.Now().UTC())
		if err := bot.roster.Observe(-100, 1, "Аня"); err != nil {
			t.Fatal(err)
		}
		if err := bot.roster.SetAdmin(-100, 1, true); err != nil {
			t.Fatal(err)
		}
		if err := bot.dispatcher.handleNickname(context.Background(), newCmd("Шеф")); err != nil {
			t.Fatal(err)
		}
		if bot.client.sent[0].reply.Text != replyTargetNotFound {
			t.Fatalf("unexpected reply: %#v", bot.client.sent)
		}
	})
}

func TestRollCommandThroughDispatch(t *testing.T) {
	t.Parallel()

	bot := newTestBot(t, time.Now().UTC())
	bot.dispatcher.intn = func(n int) int { return 2 }
	bot.dispatcher.Dispatch(context.Background(), command("roll", "10-20"))
	if len(bot.client.sent) != 1 || bot.client.sent[0].reply.Text != strconv.Itoa(12) {
		t.Fatalf("unexpected replies: %#v", bot.client.sent)
	}
}
