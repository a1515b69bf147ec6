package engine

import (
	"bufio"
	"io"
	"log/slog"

	"order_feeder/internal/domain"
)

// Sink writes the line protocol consumed by a downstream engine:
// one order per line, then a single EXIT sentinel. Write errors from a
// reader that stopped consuming are swallowed; the consumer closing its
// end early is an expected race, not a fault.
type Sink struct {
	w      *bufio.Writer
	exited bool
}

// NewSink wraps w in a buffered line writer.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// WriteOrder appends one order line.
func (s *Sink) WriteOrder(o domain.SyntheticOrder) {
	if s.exited {
		return
	}
	_, err := s.w.WriteString(o.Line() + "\n")
	s.absorb("order", err)
}

// Flush makes buffered lines visible to the reader.
func (s *Sink) Flush() {
	if s.exited {
		return
	}
	s.absorb("flush", s.w.Flush())
}

// WriteExit writes the terminal sentinel and flushes. Exactly one EXIT
// line is ever produced; later calls are no-ops.
func (s *Sink) WriteExit() {
	if s.exited {
		return
	}
	s.exited = true
	if _, err := s.w.WriteString("EXIT\n"); err != nil {
		s.absorb("sentinel", err)
		return
	}
	s.absorb("sentinel", s.w.Flush())
}

func (s *Sink) absorb(op string, err error) {
	if err == nil {
		return
	}
	if !domain.IsSinkClosed(err) {
		slog.Warn("Sink write failed", slog.String("op", op), slog.Any("error", err))
	}
}
