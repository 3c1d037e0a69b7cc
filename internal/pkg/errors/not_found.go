package xerrors

import "fmt"

type notFoundError struct {
	what string
}

// NotFound returns an error reading "<what> not found" that matches ErrNotFound.
func NotFound(what string) error {
	return &notFoundError{what: what}
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.what)
}

func (e *notFoundError) Unwrap() error {
	return ErrNotFound
}
