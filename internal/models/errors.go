package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every input validation failure
	ErrValidation = errors.New("validation failed")

	// ErrNotLoaded is returned when an action needs a media record that has not arrived yet
	ErrNotLoaded = errors.New("media record not loaded")

	// ErrViewClosed is returned when a response arrives for a detail view that was already closed
	ErrViewClosed = errors.New("detail view closed")
)

// FetchError is a network or provider failure. Message is safe to show to the
// user next to a retry affordance.
type FetchError struct {
	Op      string // provider operation, e.g. "movie/550"
	Status  int    // HTTP status, 0 for transport failures
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFoundError means the provider has no item for the requested key
type NotFoundError struct {
	Key MediaKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Key)
}

// UserMessage extracts a displayable message from an error chain.
// Unknown errors get a generic message.
func UserMessage(err error) string {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) && fetchErr.Message != "" {
		return fetchErr.Message
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		if notFound.Key.Type == MediaTypeTV {
			return "This TV show could not be found."
		}
		return "This movie could not be found."
	}
	if errors.Is(err, ErrValidation) {
		return err.Error()
	}
	return "Something went wrong. Please try again."
}
