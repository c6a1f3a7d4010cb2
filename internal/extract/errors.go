package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a request the caller must fix: wrong file type,
	// empty document, unknown mode or an oversized upload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamEmpty marks an upstream call that succeeded but returned no text.
	ErrUpstreamEmpty = errors.New("empty response from model")
)

// UpstreamError wraps any failure calling the upstream model, including
// context cancellation and deadlines.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("upstream call failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream call to %s failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
