// Package transcribe turns a voice or video-note attachment into text:
// fetch the payload, transcode it to linear-PCM WAV, run speech recognition,
// and remove every temporary file no matter how the run ends.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starostabot/starosta/internal/speech"
)

// Kind selects the source container of an attachment.
type Kind string

const (
	KindVoice     Kind = "voice"
	KindVideoNote Kind = "video_note"
)

// Attachment references a platform media file for one message.
type Attachment struct {
	FileID    string
	MessageID int
	Kind      Kind
}

// Downloader fetches a platform file to a local path.
type Downloader interface {
	Download(ctx context.Context, fileID, dest string) error
}

// Transcoder converts a source media file into linear-PCM WAV. demux is set
// for video containers whose audio track must be extracted first.
type Transcoder interface {
	ExtractWAV(ctx context.Context, src, dst string, demux bool) error
}

// Pipeline runs the fetch, transcode, recognize sequence. Once started, a run
// goes to completion; the per-stage timeouts of the collaborators bound it.
type Pipeline struct {
	downloader Downloader
	transcoder Transcoder
	recognizer speech.Recognizer
	dir        string
	language   string
	logger     *slog.Logger
}

// NewPipeline wires the pipeline. dir is where temporary files live; it is
// created on first use.
func NewPipeline(log *slog.Logger, dl Downloader, tc Transcoder, rec speech.Recognizer, dir, language string) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		downloader: dl,
		transcoder: tc,
		recognizer: rec,
		dir:        dir,
		language:   language,
		logger:     log.With(slog.String("service", "transcribe")),
	}
}

// Run transcribes one attachment and returns the recognized text. Both the
// raw download and the WAV are removed before Run returns, on every path.
func (p *Pipeline) Run(ctx context.Context, att Attachment) (string, error) {
	if att.FileID == "" {
		return "", fmt.Errorf("attachment file id is required")
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}

	rawPath := filepath.Join(p.dir, rawFileName(att))
	wavPath := rawPath[:len(rawPath)-len(filepath.Ext(rawPath))] + ".wav"
	defer p.cleanup(rawPath, wavPath)

	if err := p.downloader.Download(ctx, att.FileID, rawPath); err != nil {
		return "", fmt.Errorf("fetch attachment: %w", err)
	}
	if err := p.transcoder.ExtractWAV(ctx, rawPath, wavPath, att.Kind == KindVideoNote); err != nil {
		return "", fmt.Errorf("transcode to wav: %w", err)
	}
	wav, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("read wav: %w", err)
	}
	text, err := p.recognizer.Recognize(ctx, wav, p.language)
	if err != nil {
		return "", fmt.Errorf("recognize speech: %w", err)
	}
	return text, nil
}

// rawFileName derives a deterministic temp name from the message identity,
// keyed by source kind to pick the container extension.
func rawFileName(att Attachment) string {
	if att.Kind == KindVideoNote {
		return fmt.Sprintf("video_note_%d.mp4", att.MessageID)
	}
	return fmt.Sprintf("voice_%d.ogg", att.MessageID)
}

func (p *Pipeline) cleanup(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("remove temp file failed", slog.String("path", path), slog.Any("error", err))
		}
	}
}
