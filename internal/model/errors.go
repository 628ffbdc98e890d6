package model

import (
	"errors"
	"fmt"
)

// ErrNotificationUnavailable indicates the native confirmation channel cannot be used.
var ErrNotificationUnavailable = errors.New("notifications unavailable")

// TransportError wraps a failed request to a remote endpoint.
type TransportError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.Status)
	}

	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError rejects a submission whose trimmed content is too short.
type ValidationError struct {
	Min int
	Got int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Please write at least %d characters.", e.Min)
}

// PersistenceReadError reports stored data that could not be read back.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("reading %q: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}
