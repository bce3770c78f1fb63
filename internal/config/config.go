package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Versifine/locomote/internal/player"
)

type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Sandbox   SandboxConfig   `yaml:"sandbox"`
	Player    player.Params   `yaml:"player"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

type SandboxConfig struct {
	TickRate int `yaml:"tick_rate"`
	// Level is a level yaml file; empty uses the built-in level.
	Level string `yaml:"level"`
	// Driver is one of "console", "tui" or "headless".
	Driver        string  `yaml:"driver"`
	HeadlessTicks int     `yaml:"headless_ticks"`
	BodyRadius    float32 `yaml:"body_radius"`
	BodyHeight    float32 `yaml:"body_height"`
	WatchLevel    bool    `yaml:"watch_level"`
	// EventJournal is how many recent events snapshots carry.
	EventJournal int `yaml:"event_journal"`
}

type TelemetryConfig struct {
	SentryDSN     string `yaml:"sentry_dsn"`
	Environment   string `yaml:"environment"`
	StatsviewAddr string `yaml:"statsview_addr"`
}

const (
	DriverConsole  = "console"
	DriverTUI      = "tui"
	DriverHeadless = "headless"
)

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Sandbox: SandboxConfig{
			TickRate:      60,
			Driver:        DriverConsole,
			HeadlessTicks: 600,
			BodyRadius:    0.8,
			BodyHeight:    0.9,
			WatchLevel:    true,
			EventJournal:  8,
		},
		Player: player.DefaultParams(),
		Telemetry: TelemetryConfig{
			Environment: "development",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Sandbox.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("sandbox.tick_rate must be positive, got %d", c.Sandbox.TickRate))
	}
	switch c.Sandbox.Driver {
	case DriverConsole, DriverTUI, DriverHeadless:
	default:
		errs = append(errs, fmt.Errorf("sandbox.driver %q is not one of console, tui, headless", c.Sandbox.Driver))
	}
	if c.Sandbox.BodyRadius <= 0 || c.Sandbox.BodyHeight <= 0 {
		errs = append(errs, fmt.Errorf("sandbox body size must be positive, got radius %v height %v",
			c.Sandbox.BodyRadius, c.Sandbox.BodyHeight))
	}
	if c.Sandbox.EventJournal <= 0 {
		errs = append(errs, fmt.Errorf("sandbox.event_journal must be positive, got %d", c.Sandbox.EventJournal))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	return errors.Join(errs...)
}
