package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTranscriptEmpty    = errors.New("transcript is required")
	ErrTranscriptTooShort = errors.New("transcript is too short")
	ErrNoProvider         = errors.New("no AI provider configured")
	ErrEmptyResponse      = errors.New("empty response from provider")
	ErrMalformedResponse  = errors.New("malformed AI response")
	ErrInvalidShape       = errors.New("invalid AI response shape")
)

// AttemptError records why a single provider attempt failed.
type AttemptError struct {
	Provider string
	Model    string
	Err      error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Model, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// DispatchError is returned when every configured provider failed.
type DispatchError struct {
	Attempts []*AttemptError
}

func (e *DispatchError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

func (e *DispatchError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a
	}
	return errs
}

// Last returns the error of the final attempt, the one surfaced to users.
func (e *DispatchError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1]
}

// lastAttempt narrows a DispatchError to its final attempt.
func lastAttempt(err error) error {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Last()
	}
	return err
}

// IsFormatError reports whether err came from an unparseable or wrongly
// shaped completion. For a DispatchError only the final attempt counts.
func IsFormatError(err error) bool {
	err = lastAttempt(err)
	return errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrInvalidShape)
}

// IsTimeout reports whether the final attempt ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(lastAttempt(err), context.DeadlineExceeded)
}
