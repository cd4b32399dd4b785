package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// Error carries a caller-facing detail alongside one of the kind sentinels.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Kind }

func employeeNotFound(employeeID string) error {
	return &Error{Kind: ErrNotFound, Detail: fmt.Sprintf("Employee with ID '%s' not found", employeeID)}
}

func invalid(detail string) error {
	return &Error{Kind: ErrInvalid, Detail: detail}
}
