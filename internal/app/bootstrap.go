package app

import (
	"log/slog"

	"order_feeder/internal/infra"
)

// Bootstrap orchestrates the startup sequence: config, then logging.
type Bootstrap struct {
	Config *infra.Config
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads the configuration (configPath may be empty for
// built-in defaults) and installs the default logger.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	slog.Info("🚀 Feeder bootstrapped",
		slog.String("symbol", cfg.Feed.Symbol),
		slog.String("endpoint", cfg.Feed.WSURL))
	return nil
}
