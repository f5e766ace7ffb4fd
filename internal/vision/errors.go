package vision

import (
	"errors"
	"fmt"
)

// Sentinel errors for vision provider operations.
var (
	ErrRateLimited  = errors.New("vision: rate limited by provider")
	ErrBadRequest   = errors.New("vision: bad request")
	ErrUnauthorized = errors.New("vision: invalid credentials")
	ErrServer       = errors.New("vision: provider server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op       string // Operation: "analyze"
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("vision %s [%s]: %v", e.Op, e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, provider string, err error) error {
	return &Error{
		Op:       op,
		Provider: provider,
		Err:      err,
	}
}
