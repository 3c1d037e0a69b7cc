package xerrors

type conflictError struct {
	msg string
}

// Conflict returns an error carrying msg verbatim that matches ErrConflict.
func Conflict(msg string) error {
	return &conflictError{msg: msg}
}

func (e *conflictError) Error() string { return e.msg }

func (e *conflictError) Unwrap() error { return ErrConflict }
