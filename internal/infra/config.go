package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"order_feeder/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the feeder. Values load in layers:
// built-in defaults, then the optional YAML file, then environment
// variables. Command-line flags are applied on top by the caller.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Feed struct {
		WSURL  string `yaml:"ws_url"`
		Symbol string `yaml:"symbol"`
	} `yaml:"feed"`

	Orders struct {
		RateSec     float64 `yaml:"rate_sec"`     // Inter-burst delay in seconds
		Burst       int     `yaml:"burst"`        // Orders per price update
		Limit       int     `yaml:"limit"`        // Stop after N orders (0 = unlimited)
		DurationSec float64 `yaml:"duration_sec"` // Stop after N seconds (0 = unlimited)
		Seed        *int64  `yaml:"seed"`         // Deterministic RNG seed (nil = system randomness)
	} `yaml:"orders"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the built-in defaults matching the public
// Binance.US book ticker stream for BTC/USDT.
func DefaultConfig() *Config {
	var cfg Config
	cfg.App.Name = "order_feeder"
	cfg.App.Version = "1.0.0"
	cfg.Feed.WSURL = "wss://stream.binance.us:9443/ws"
	cfg.Feed.Symbol = "btcusdt"
	cfg.Orders.RateSec = 0.15
	cfg.Orders.Burst = 3
	cfg.Logging.Level = "info"
	return &cfg
}

// LoadConfig reads the config file at path (if given) over the defaults,
// applies environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
			}
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Feed.WSURL, "ws://") && !strings.HasPrefix(c.Feed.WSURL, "wss://") {
		return fmt.Errorf("invalid feed WS URL: %s", c.Feed.WSURL)
	}
	if c.Feed.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Orders.Burst <= 0 {
		return fmt.Errorf("burst must be positive")
	}
	if c.Orders.RateSec < 0 {
		return fmt.Errorf("rate must not be negative")
	}
	if c.Orders.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if c.Orders.DurationSec < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	return nil
}

// overrideWithEnv applies environment variables over file values.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("FEEDER_WS_URL"); url != "" {
		cfg.Feed.WSURL = url
	}
	if sym := os.Getenv("FEEDER_SYMBOL"); sym != "" {
		cfg.Feed.Symbol = sym
	}
	if level := os.Getenv("FEEDER_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
