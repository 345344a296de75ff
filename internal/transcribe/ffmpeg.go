package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// FFmpegTranscoder shells out to ffmpeg to produce 16 kHz mono linear-PCM WAV
// from either an audio container (voice) or a video container (video note,
// audio track demuxed).
type FFmpegTranscoder struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewFFmpegTranscoder builds a transcoder around the given ffmpeg binary.
func NewFFmpegTranscoder(log *slog.Logger, binary string, timeout time.Duration) *FFmpegTranscoder {
	if log == nil {
		log = slog.Default()
	}
	return &FFmpegTranscoder{
		binary:  binary,
		timeout: timeout,
		logger:  log.With(slog.String("service", "ffmpeg")),
	}
}

// ExtractWAV converts src into a canonical WAV at dst.
func (t *FFmpegTranscoder) ExtractWAV(ctx context.Context, src, dst string, demux bool) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	args := []string{"-y", "-i", src}
	if demux {
		args = append(args, "-vn")
	}
	args = append(args, "-ar", "16000", "-ac", "1", "-f", "wav", dst)

	cmd := exec.CommandContext(ctx, t.binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.logger.Error("ffmpeg failed",
			slog.String("src", src),
			slog.Any("error", err),
			slog.String("out", string(out)),
		)
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
