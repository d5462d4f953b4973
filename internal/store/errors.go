package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a key vanished between listing and fetch.
	ErrNotFound = errors.New("key not found")
	// ErrUnsupportedType is returned for server types the browser cannot show.
	ErrUnsupportedType = errors.New("unsupported key type")
	// ErrTypeMismatch signals a value whose shape disagrees with its TypeTag.
	ErrTypeMismatch = errors.New("value does not match key type")
)

// ConnectionError wraps a transport failure talking to the server.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("connection error: %v", e.Err)
	}
	return fmt.Sprintf("connection error (%s): %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err is, or wraps, a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
