package stream

import (
	"errors"
	"time"
)

var (
	ErrDisconnected = errors.New("stream: transport disconnected")
	ErrReadTimeout  = errors.New("stream: read wait exceeded max wait")
)

// Transport is one point-to-point byte stream connection.
//
// Read never blocks for longer than the transport's internal probe window:
// it returns (0, nil) when the peer is silent but still connected, and a
// non-nil error once the connection is gone. Buffered reports bytes already
// received and not yet consumed.
type Transport interface {
	Connected() bool
	Buffered() int
	Read(p []byte) (int, error)
	Close() error
}

// Config defines read polling behavior for exact-length reads.
type Config struct {
	// PollInterval is the sleep between attempts when the transport is
	// connected but has no bytes available.
	PollInterval time.Duration
	// MaxWait bounds the total time spent waiting without receiving a
	// single byte. Zero or negative waits indefinitely while the
	// transport stays connected.
	MaxWait time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: time.Millisecond,
		MaxWait:      15 * time.Second,
	}
}

func (c Config) WithDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultConfig().PollInterval
	}
	return c
}

// ReadExact fills dst completely from t.
//
// Any failure means dst content is unusable; partially copied bytes are
// discarded by contract. The wait clock resets whenever at least one byte
// arrives, so MaxWait bounds peer silence, not total frame time.
func ReadExact(t Transport, dst []byte, cfg Config) error {
	cfg = cfg.WithDefaults()
	got := 0
	waited := time.Duration(0)
	for got < len(dst) {
		if !t.Connected() {
			return ErrDisconnected
		}
		n, err := t.Read(dst[got:])
		if n > 0 {
			got += n
			waited = 0
			continue
		}
		if err != nil {
			return ErrDisconnected
		}
		if cfg.MaxWait > 0 && waited >= cfg.MaxWait {
			return ErrReadTimeout
		}
		time.Sleep(cfg.PollInterval)
		waited += cfg.PollInterval
	}
	return nil
}
