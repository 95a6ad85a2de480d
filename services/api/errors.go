package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call. Page controllers decide how to react from
// the kind alone.
type Kind string

const (
	Unauthorized      Kind = "unauthorized"
	NotFound          Kind = "not_found"
	ServerError       Kind = "server_error"
	NetworkError      Kind = "network_error"
	InvalidInput      Kind = "invalid_input"
	InsufficientFunds Kind = "insufficient_funds"
)

// Error is returned by every Client operation that fails.
type Error struct {
	Kind    Kind
	Op      string
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) ErrorKind() Kind {
	return e.Kind
}

// Kinded is implemented by every error that belongs to the taxonomy,
// including validation errors raised before any call is made.
type Kinded interface {
	error
	ErrorKind() Kind
}

// KindOf returns the kind of err, or ServerError for errors outside the
// taxonomy. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return ServerError
}

func IsUnauthorized(err error) bool {
	return KindOf(err) == Unauthorized
}

func invalid(op, message string) *Error {
	return &Error{Kind: InvalidInput, Op: op, Message: message}
}

func kindForStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return Unauthorized
	case status == 404:
		return NotFound
	default:
		return ServerError
	}
}

// ValidateRating rejects ratings outside 1..5.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return invalid("rate booking", fmt.Sprintf("rating must be between 1 and 5, got %d", rating))
	}
	return nil
}
