package asr

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoCredential = errors.New("transcription API key not configured")
	ErrEmptyAudio   = errors.New("audio is empty")
	ErrModelLoading = errors.New("transcription model is still loading")
)

// StatusError is a non-2xx answer from the ASR endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("asr endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("asr endpoint returned status %d: %s", e.StatusCode, e.Message)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
	Name() string
}
