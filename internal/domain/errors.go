package domain

import (
	"errors"
	"io"
	"os"
	"syscall"
)

var (
	// ErrStreamClosed is returned by the feed when the upstream closes the
	// connection, times out, or resets. This is the expected way a run ends.
	ErrStreamClosed = errors.New("stream closed")

	// ErrMissingField is wrapped by DecodeError when a required feed field
	// is absent from the message.
	ErrMissingField = errors.New("missing field")

	// ErrConfigNotFound is returned when the configuration file is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// ConnError represents a failure to establish the feed subscription.
// Always fatal: the run aborts before any orders are generated.
type ConnError struct {
	URL string
	Err error
}

func (e *ConnError) Error() string {
	return "connect " + e.URL + ": " + e.Err.Error()
}

func (e *ConnError) Unwrap() error {
	return e.Err
}

// DecodeError represents a malformed feed message (missing fields or
// non-numeric values). Fatal for the current run; it propagates out of
// the emitter loop untouched.
type DecodeError struct {
	Field string // Feed field that failed extraction (e.g. "b", "a")
	Err   error
}

func (e *DecodeError) Error() string {
	return "decode field [" + e.Field + "]: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a decode error for a single feed field.
func NewDecodeError(field string, err error) *DecodeError {
	return &DecodeError{Field: field, Err: err}
}

// IsSinkClosed reports whether a write error means the downstream reader
// stopped consuming. Always swallowed by the sink: a consumer closing its
// end early is part of its own lifecycle, not a generator fault.
func IsSinkClosed(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed)
}
