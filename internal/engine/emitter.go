package engine

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"order_feeder/internal/domain"
	"order_feeder/internal/infra"

	"github.com/shopspring/decimal"
)

const jitterRangeBps = 8.0 // Price jitter is uniform in [-8, +8] basis points

// FeedSource delivers decoded price updates one at a time. Next blocks
// until a message arrives; domain.ErrStreamClosed ends the run normally.
type FeedSource interface {
	Next(ctx context.Context) (domain.PriceUpdate, error)
}

// Clock abstracts wall-clock reads and the inter-burst pause so the stop
// conditions are testable without real sleeps. Sleep returns early when
// the context ends so termination is never delayed by the pause.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Config holds the generation parameters for one run.
type Config struct {
	Rate     time.Duration // Delay between bursts
	Burst    int           // Orders per price update
	Limit    int           // Stop after N orders (0 = unlimited)
	Duration time.Duration // Stop after elapsed time (0 = unlimited)
	Seed     *int64        // Deterministic RNG seed (nil = time-seeded)
}

// Emitter converts the price update sequence into a bounded stream of
// randomized orders. Run is the single-threaded hotpath: one goroutine
// owns all state, so no locking is needed.
type Emitter struct {
	cfg    Config
	sink   *Sink
	rng    *rand.Rand
	clock  Clock
	sent   int
	start  time.Time
	reason string
}

// NewEmitter creates an emitter. One rand.Rand instance drives all of
// jitter, side, and quantity so a fixed seed reproduces a run exactly.
func NewEmitter(cfg Config, sink *Sink) *Emitter {
	var src rand.Source
	if cfg.Seed != nil {
		src = rand.NewSource(*cfg.Seed)
	} else {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Emitter{
		cfg:   cfg,
		sink:  sink,
		rng:   rand.New(src),
		clock: realClock{},
	}
}

// Sent returns the number of orders emitted so far.
func (e *Emitter) Sent() int {
	return e.sent
}

// StopReason reports why the run ended: "duration", "limit", "cancelled",
// or "stream". Empty while still running or after a fatal feed error.
func (e *Emitter) StopReason() string {
	return e.reason
}

// Run pulls updates from feed until a stop condition is reached, the
// stream ends, or ctx is cancelled (external termination), then writes
// the EXIT sentinel. The sentinel is attempted even when a decode error
// aborts the run. Stop conditions are checked once per update, duration
// before count; the last burst may overshoot the count limit by up to
// burst-1 orders.
func (e *Emitter) Run(ctx context.Context, feed FeedSource) error {
	e.start = e.clock.Now()
	defer e.sink.WriteExit()

	for {
		if reason := e.stopReason(ctx); reason != "" {
			e.reason = reason
			slog.Info("Emitter stopping", slog.String("reason", reason), slog.Int("orders", e.sent))
			return nil
		}

		upd, err := feed.Next(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrStreamClosed) {
				e.reason = "stream"
				slog.Info("Feed ended", slog.Int("orders", e.sent))
				return nil
			}
			return err
		}

		e.emitBurst(upd)
		e.sink.Flush()
		e.clock.Sleep(ctx, e.cfg.Rate)
	}
}

func (e *Emitter) stopReason(ctx context.Context) string {
	if ctx.Err() != nil {
		return "cancelled"
	}
	if e.cfg.Duration > 0 && e.clock.Now().Sub(e.start) >= e.cfg.Duration {
		return "duration"
	}
	if e.cfg.Limit > 0 && e.sent >= e.cfg.Limit {
		return "limit"
	}
	return ""
}

// emitBurst writes cfg.Burst orders around the update's mid-price.
// Draw order per order is fixed: jitter, then side, then quantity.
func (e *Emitter) emitBurst(upd domain.PriceUpdate) {
	mid := upd.Mid()

	for i := 0; i < e.cfg.Burst; i++ {
		jitterBps := e.rng.Float64()*(2*jitterRangeBps) - jitterRangeBps

		price := mid.Mul(decimal.NewFromFloat(1 + jitterBps/10000.0)).Round(2)

		side := domain.SideBuy
		if e.rng.Float64() >= 0.5 {
			side = domain.SideSell
		}

		qty := e.rng.Intn(5) + 1

		e.sink.WriteOrder(domain.SyntheticOrder{Side: side, Price: price, Quantity: qty})
		e.sent++
	}

	infra.GlobalMetrics.RecordOrders(e.cfg.Burst)
}
