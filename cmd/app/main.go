package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order_feeder/internal/app"
	"order_feeder/internal/engine"
	"order_feeder/internal/infra"
	"order_feeder/internal/infra/binance"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (optional)")
		symbol     = flag.String("symbol", "", "Trading pair to stream (e.g. btcusdt)")
		rate       = flag.Float64("rate", 0, "Seconds between bursts")
		burst      = flag.Int("burst", 0, "Orders per price update")
		limit      = flag.Int("limit", 0, "Stop after N orders")
		duration   = flag.Float64("duration", 0, "Stop after N seconds")
		seed       = flag.Int64("seed", 0, "Deterministic randomness")
	)
	flag.Parse()

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 2. Flags set on the command line override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "symbol":
			cfg.Feed.Symbol = *symbol
		case "rate":
			cfg.Orders.RateSec = *rate
		case "burst":
			cfg.Orders.Burst = *burst
		case "limit":
			cfg.Orders.Limit = *limit
		case "duration":
			cfg.Orders.DurationSec = *duration
		case "seed":
			cfg.Orders.Seed = seed
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid flags: %v\n", err)
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Feed Subscription
	feed, err := binance.Open(ctx, cfg.Feed.WSURL, cfg.Feed.Symbol)
	if err != nil {
		slog.Error("❌ Feed connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer feed.Close()

	// 5. Order Emitter (The Hotpath Loop). Orders go to stdout; all
	// logging stays on stderr so the line protocol remains clean.
	emitter := engine.NewEmitter(engine.Config{
		Rate:     time.Duration(cfg.Orders.RateSec * float64(time.Second)),
		Burst:    cfg.Orders.Burst,
		Limit:    cfg.Orders.Limit,
		Duration: time.Duration(cfg.Orders.DurationSec * float64(time.Second)),
		Seed:     cfg.Orders.Seed,
	}, engine.NewSink(os.Stdout))

	if err := emitter.Run(ctx, feed); err != nil {
		slog.Error("❌ Run aborted", slog.Any("error", err), slog.Int("orders", emitter.Sent()))
		os.Exit(1)
	}

	snap := infra.GlobalMetrics.Snapshot()
	slog.Info("✨ Run complete",
		slog.Uint64("updates", snap.UpdatesReceived),
		slog.Uint64("orders", snap.OrdersEmitted),
		slog.Int("sent", emitter.Sent()))
}
