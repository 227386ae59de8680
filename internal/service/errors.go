package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced dish or setmeal does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks a malformed request rejected before touching the store.
	ErrValidation = errors.New("invalid request")
	// ErrSetmealEnableFailed is returned when enabling a setmeal that contains a disabled dish.
	ErrSetmealEnableFailed = errors.New("setmeal contains dishes that are not on sale")
)

// DeletionNotAllowedError rejects a whole delete batch because of one item.
type DeletionNotAllowedError struct {
	Kind   string
	ID     int64
	Reason string
}

func (e *DeletionNotAllowedError) Error() string {
	return fmt.Sprintf("%s %d cannot be deleted: %s", e.Kind, e.ID, e.Reason)
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// wrapStore adds context to store failures. Domain errors pass through as is
// so their message reaches the client unchanged.
func wrapStore(err error, format string, args ...interface{}) error {
	var notAllowed *DeletionNotAllowedError
	switch {
	case err == nil,
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrSetmealEnableFailed),
		errors.As(err, &notAllowed):
		return err
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
