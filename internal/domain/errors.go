package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrDuplicateName   = errors.New("product name must be unique")
	ErrNameRequired    = errors.New("product name is required")
	ErrUnauthenticated = errors.New("user not authenticated for history logging")
	ErrStoreFailure    = errors.New("store failure")
)

// ParseError reports CSV content that could not be read as a table.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("csv parse error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("csv parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var ErrUsernameTaken = errors.New("username already exists")
