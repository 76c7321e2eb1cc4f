// Package transcribe turns recorded voice notes into text.
package transcribe

import (
	"context"
	"errors"
)

var (
	// ErrDisabled is returned when no provider is configured.
	ErrDisabled = errors.New("transcription: disabled")
	// ErrEmptyAudio is returned for a zero-length recording.
	ErrEmptyAudio = errors.New("transcription: empty audio")
)

// Transcriber converts audio bytes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Disabled rejects every request.
type Disabled struct{}

func (Disabled) Transcribe(context.Context, []byte, string) (string, error) {
	return "", ErrDisabled
}
