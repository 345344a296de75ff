// Package speech abstracts the remote speech-to-text backend.
package speech

import "context"

// Recognizer converts linear-PCM WAV audio into text. Implementations must
// treat every backend failure (network, quota, no speech detected) as an
// ordinary error; callers do not distinguish causes.
type Recognizer interface {
	Recognize(ctx context.Context, wav []byte, lang string) (string, error)
}
