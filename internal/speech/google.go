package speech

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GoogleRecognizer calls the Google Web Speech API v2 over HTTP. The endpoint
// takes raw 16-bit linear PCM, so the WAV container is unwrapped before the
// request.
type GoogleRecognizer struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

// NewGoogleRecognizer builds a recognizer with a bounded request timeout.
func NewGoogleRecognizer(log *slog.Logger, endpoint, apiKey string, timeout time.Duration) *GoogleRecognizer {
	if log == nil {
		log = slog.Default()
	}
	return &GoogleRecognizer{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger:   log.With(slog.String("recognizer", "google")),
	}
}

// Recognize submits WAV audio and returns the top transcript.
func (r *GoogleRecognizer) Recognize(ctx context.Context, wav []byte, lang string) (string, error) {
	pcm, sampleRate, err := unwrapWAV(wav)
	if err != nil {
		return "", fmt.Errorf("unwrap wav: %w", err)
	}

	query := url.Values{}
	query.Set("client", "chromium")
	query.Set("lang", lang)
	if r.apiKey != "" {
		query.Set("key", r.apiKey)
	}
	reqURL := r.endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(pcm))
	if err != nil {
		return "", fmt.Errorf("build recognize request: %w", err)
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d", sampleRate))

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("recognize status: %d", resp.StatusCode)
	}
	text, err := parseRecognizeResponse(resp.Body)
	if err != nil {
		return "", err
	}
	r.logger.Debug("speech recognized", slog.String("lang", lang), slog.Int("chars", len(text)))
	return text, nil
}

type recognizeResult struct {
	Result []struct {
		Alternative []struct {
			Transcript string `json:"transcript"`
		} `json:"alternative"`
	} `json:"result"`
}

// parseRecognizeResponse reads the line-delimited JSON the API streams back
// and returns the first non-empty transcript. No transcript means no speech
// was detected, which is an error like any other backend failure.
func parseRecognizeResponse(body io.Reader) (string, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var parsed recognizeResult
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			return "", fmt.Errorf("decode recognize response: %w", err)
		}
		for _, result := range parsed.Result {
			for _, alt := range result.Alternative {
				if transcript := strings.TrimSpace(alt.Transcript); transcript != "" {
					return transcript, nil
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read recognize response: %w", err)
	}
	return "", fmt.Errorf("no speech recognized")
}

// unwrapWAV extracts the PCM payload and sample rate from a RIFF/WAVE blob.
func unwrapWAV(wav []byte) ([]byte, int, error) {
	if len(wav) < 12 || !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE payload")
	}
	sampleRate := 0
	offset := 12
	for offset+8 <= len(wav) {
		chunkID := string(wav[offset : offset+4])
		chunkLen := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkLen > len(wav) {
			return nil, 0, fmt.Errorf("truncated %q chunk", chunkID)
		}
		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, 0, fmt.Errorf("short fmt chunk")
			}
			sampleRate = int(binary.LittleEndian.Uint32(wav[body+4 : body+8]))
		case "data":
			if sampleRate == 0 {
				return nil, 0, fmt.Errorf("data chunk before fmt chunk")
			}
			return wav[body : body+chunkLen], sampleRate, nil
		}
		// Chunks are word-aligned.
		offset = body + chunkLen + chunkLen%2
	}
	return nil, 0, fmt.Errorf("no data chunk")
}
