package session

import (
	"time"

	"github.com/aisaiev/lilka-desktop-monitor/internal/stream"
)

// Config defines session loop pacing defaults.
type Config struct {
	// StatsInterval is the wall-clock period between stats reports while
	// frames are flowing.
	StatsInterval time.Duration
	// Read controls decode-time transport polling.
	Read stream.Config
}

func DefaultConfig() Config {
	return Config{
		StatsInterval: 2 * time.Second,
		Read:          stream.DefaultConfig(),
	}
}

func (c Config) WithDefaults() Config {
	if c.StatsInterval <= 0 {
		c.StatsInterval = DefaultConfig().StatsInterval
	}
	c.Read = c.Read.WithDefaults()
	return c
}
