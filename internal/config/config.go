package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ReceiverConfig is the pixeld daemon configuration.
type ReceiverConfig struct {
	ListenAddr  string
	AdminAddr   string
	CredsPath   string
	Surface     SurfaceConfig
	CorsOrigins []string

	StatsInterval time.Duration
	ReadPoll      time.Duration
	ReadMaxWait   time.Duration
}

// SurfaceConfig fixes the raster target dimensions.
type SurfaceConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// fileConfig is the on-disk TOML shape; durations are strings for
// time.ParseDuration.
type fileConfig struct {
	ListenAddr    string        `toml:"listen_addr"`
	AdminAddr     string        `toml:"admin_addr"`
	CredsPath     string        `toml:"creds_path"`
	Surface       SurfaceConfig `toml:"surface"`
	CorsOrigins   []string      `toml:"cors_origins"`
	StatsInterval string        `toml:"stats_interval"`
	ReadPoll      string        `toml:"read_poll"`
	ReadMaxWait   string        `toml:"read_max_wait"`
}

func DefaultReceiverConfig() ReceiverConfig {
	return ReceiverConfig{
		ListenAddr:    ":8090",
		Surface:       SurfaceConfig{Width: 280, Height: 240},
		StatsInterval: 2 * time.Second,
		ReadPoll:      time.Millisecond,
		ReadMaxWait:   15 * time.Second,
	}
}

func LoadReceiverConfig(path string) (ReceiverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReceiverConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return ReceiverConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	cfg := DefaultReceiverConfig()
	if strings.TrimSpace(raw.ListenAddr) != "" {
		cfg.ListenAddr = raw.ListenAddr
	}
	cfg.AdminAddr = raw.AdminAddr
	cfg.CredsPath = raw.CredsPath
	cfg.CorsOrigins = raw.CorsOrigins
	if raw.Surface.Width != 0 || raw.Surface.Height != 0 {
		cfg.Surface = raw.Surface
	}
	if err := overrideDuration(&cfg.StatsInterval, raw.StatsInterval, "stats_interval"); err != nil {
		return ReceiverConfig{}, err
	}
	if err := overrideDuration(&cfg.ReadPoll, raw.ReadPoll, "read_poll"); err != nil {
		return ReceiverConfig{}, err
	}
	if err := overrideDuration(&cfg.ReadMaxWait, raw.ReadMaxWait, "read_max_wait"); err != nil {
		return ReceiverConfig{}, err
	}

	if err := ValidateReceiverConfig(cfg); err != nil {
		return ReceiverConfig{}, err
	}
	return cfg, nil
}

func overrideDuration(dst *time.Duration, raw, field string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", field, err)
	}
	*dst = d
	return nil
}

func ValidateReceiverConfig(cfg ReceiverConfig) error {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("receiver config missing listen_addr")
	}
	if cfg.Surface.Width <= 0 || cfg.Surface.Height <= 0 {
		return fmt.Errorf("receiver config surface dimensions must be positive")
	}
	if cfg.Surface.Width > 0xFFFF || cfg.Surface.Height > 0xFFFF {
		return fmt.Errorf("receiver config surface dimensions exceed protocol coordinate range")
	}
	if cfg.StatsInterval < 0 || cfg.ReadPoll < 0 {
		return fmt.Errorf("receiver config intervals must not be negative")
	}
	return nil
}
