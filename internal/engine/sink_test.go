package engine

import (
	"bytes"
	"strings"
	"syscall"
	"testing"

	"order_feeder/internal/domain"

	"github.com/shopspring/decimal"
)

func TestSink_WriteOrder(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.WriteOrder(domain.SyntheticOrder{
		Side:     domain.SideBuy,
		Price:    decimal.RequireFromString("100.1"),
		Quantity: 3,
	})

	// Not visible before flush
	if buf.Len() != 0 {
		t.Error("Expected no bytes before Flush")
	}

	sink.Flush()
	if got := buf.String(); got != "BUY 100.10 3\n" {
		t.Errorf("Output = %q, want %q", got, "BUY 100.10 3\n")
	}
}

func TestSink_WriteExitOnce(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.WriteExit()
	sink.WriteExit()
	sink.WriteExit()

	if got := buf.String(); got != "EXIT\n" {
		t.Errorf("Output = %q, want single EXIT line", got)
	}

	// Writes after the sentinel are dropped
	sink.WriteOrder(domain.SyntheticOrder{Side: domain.SideSell, Price: decimal.NewFromInt(1), Quantity: 1})
	sink.Flush()
	if got := buf.String(); got != "EXIT\n" {
		t.Errorf("Output after exit = %q, want unchanged", got)
	}
}

// brokenPipe simulates a consumer that closed its end of the pipe.
type brokenPipe struct{}

func (brokenPipe) Write(p []byte) (int, error) {
	return 0, syscall.EPIPE
}

func TestSink_SwallowsClosedPipe(t *testing.T) {
	sink := NewSink(brokenPipe{})

	sink.WriteOrder(domain.SyntheticOrder{
		Side:     domain.SideBuy,
		Price:    decimal.RequireFromString("50000.25"),
		Quantity: 2,
	})
	sink.Flush()
	sink.WriteExit() // must not panic or propagate
}

func TestSink_LineProtocolShape(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	sink.WriteOrder(domain.SyntheticOrder{Side: domain.SideSell, Price: decimal.RequireFromString("99.92"), Quantity: 5})
	sink.WriteOrder(domain.SyntheticOrder{Side: domain.SideBuy, Price: decimal.RequireFromString("100"), Quantity: 1})
	sink.WriteExit()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{"SELL 99.92 5", "BUY 100.00 1", "EXIT"}
	if len(lines) != len(want) {
		t.Fatalf("Got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
