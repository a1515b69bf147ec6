package domain

import (
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"
)

func TestConnError(t *testing.T) {
	baseErr := errors.New("connection refused")
	err := &ConnError{URL: "wss://example.com/ws", Err: baseErr}

	if err.Error() != "connect wss://example.com/ws: connection refused" {
		t.Errorf("Error message = %q", err.Error())
	}

	if !errors.Is(err, baseErr) {
		t.Error("Expected error to wrap baseErr")
	}
}

func TestDecodeError(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		err := NewDecodeError("b", ErrMissingField)

		if err.Error() != "decode field [b]: missing field" {
			t.Errorf("Error message = %q", err.Error())
		}

		if !errors.Is(err, ErrMissingField) {
			t.Error("Expected error to wrap ErrMissingField")
		}
	})

	t.Run("unwraps as DecodeError", func(t *testing.T) {
		wrapped := fmt.Errorf("run failed: %w", NewDecodeError("a", ErrMissingField))

		var de *DecodeError
		if !errors.As(wrapped, &de) {
			t.Fatal("Expected errors.As to find DecodeError")
		}
		if de.Field != "a" {
			t.Errorf("Field = %q, want %q", de.Field, "a")
		}
	})
}

func TestIsSinkClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"broken pipe", syscall.EPIPE, true},
		{"wrapped broken pipe", fmt.Errorf("write: %w", syscall.EPIPE), true},
		{"closed pipe", io.ErrClosedPipe, true},
		{"nil", nil, false},
		{"plain error", errors.New("disk full"), false},
		{"stream closed", ErrStreamClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSinkClosed(tt.err); got != tt.want {
				t.Errorf("IsSinkClosed(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
