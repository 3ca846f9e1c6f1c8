package scheduler

import (
	"time"

	"github.com/smallbiznis/subsense/internal/config"
)

// Config controls the scan cadence.
type Config struct {
	RunInterval time.Duration
	RunTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		RunInterval: time.Hour,
		RunTimeout:  5 * time.Minute,
	}
}

func ProvideConfig(cfg config.Config) Config {
	out := Config{}
	if cfg.ReminderScanInterval > 0 {
		out.RunInterval = time.Duration(cfg.ReminderScanInterval) * time.Minute
	}
	return out.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = defaults.RunTimeout
	}
	return c
}
