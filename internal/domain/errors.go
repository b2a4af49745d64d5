package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers wrap these with fmt.Errorf("%w: ...") and test with
// errors.Is.
var (
	// ErrInvalidInput marks malformed user parameters. These are rejected
	// before any fetch.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNetwork marks a failed price or news fetch.
	ErrNetwork = errors.New("network error")

	// ErrScoring marks a document the classifier could not score.
	ErrScoring = errors.New("scoring error")
)

// InvalidInputf returns an ErrInvalidInput with a formatted detail message.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NetworkError wraps err from the named source as an ErrNetwork.
func NetworkError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrNetwork, source, err)
}
