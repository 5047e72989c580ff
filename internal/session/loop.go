package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aisaiev/lilka-desktop-monitor/internal/compositor"
	"github.com/aisaiev/lilka-desktop-monitor/internal/observability"
	"github.com/aisaiev/lilka-desktop-monitor/internal/protocol"
	"github.com/aisaiev/lilka-desktop-monitor/internal/stream"
	"github.com/aisaiev/lilka-desktop-monitor/internal/surface"
)

// Loop serves one connection slot: at most one attached client, whose
// frames are decoded into the loop-owned buffer and applied to the surface.
//
// Decode and apply run on the goroutine calling Step/Run; the buffer and
// the surface writes have a single owner. Stats counters are atomics only
// so admin/telemetry readers can snapshot them from outside.
type Loop struct {
	cfg Config
	dst surface.Surface
	dec protocol.Decoder
	buf protocol.UpdateBuffer

	transport stream.Transport
	connID    string
	logger    zerolog.Logger
	lastStats time.Time

	frames      atomic.Uint64
	applied     atomic.Uint64
	lastFrameID atomic.Uint32
	connected   atomic.Bool
}

func New(dst surface.Surface, cfg Config) *Loop {
	cfg = cfg.WithDefaults()
	return &Loop{
		cfg: cfg,
		dst: dst,
		dec: protocol.Decoder{
			MaxEntries: dst.Width() * dst.Height(),
			Read:       cfg.Read,
		},
		logger: log.Logger,
	}
}

// Attach binds a new client to the loop and resets per-connection state.
// The previous transport, if any, is closed first; callers only attach
// from idle.
func (l *Loop) Attach(t stream.Transport) {
	if l.transport != nil {
		_ = l.transport.Close()
	}
	l.transport = t
	l.connID = uuid.NewString()
	l.frames.Store(0)
	l.applied.Store(0)
	l.lastFrameID.Store(0)
	l.connected.Store(true)
	l.lastStats = time.Now()
	observability.RecordConnect()
	l.logger.Info().Str("conn_id", l.connID).Msg("client attached")
}

// Connected reports whether a client is currently attached.
func (l *Loop) Connected() bool {
	return l.connected.Load()
}

// Stats snapshots the attached (or last) connection's counters.
func (l *Loop) Stats() Stats {
	return Stats{
		FramesReceived: l.frames.Load(),
		UpdatesApplied: l.applied.Load(),
		LastFrameID:    l.lastFrameID.Load(),
	}
}

// Step runs one decode+apply iteration against the attached transport.
//
// decoded reports whether a complete frame was processed this call; alive
// reports whether the connection survives it. A fatal decode error tears
// the transport down and is returned after teardown; a clean peer
// disconnect returns alive=false with a nil error.
func (l *Loop) Step() (decoded, alive bool, err error) {
	if !l.connected.Load() || l.transport == nil {
		return false, false, nil
	}
	if !l.transport.Connected() {
		l.detach(nil)
		return false, false, nil
	}

	h, ok, err := l.dec.DecodeNext(l.transport, &l.buf)
	if err != nil {
		observability.RecordDecodeError(protocol.ErrorReason(err))
		l.detach(err)
		return false, false, err
	}
	if !ok {
		return false, true, nil
	}

	applied := 0
	if h.EntryCount > 0 {
		applied = compositor.Apply(&l.buf, l.dst)
	}
	l.frames.Add(1)
	l.applied.Add(uint64(applied))
	l.lastFrameID.Store(h.FrameID)
	observability.RecordFrame(h.Kind.String(), applied)
	l.maybeReportStats()
	return true, true, nil
}

// Run steps the loop until the connection ends or ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			l.detach(nil)
			return nil
		}
		decoded, alive, err := l.Step()
		if !alive {
			return err
		}
		if !decoded {
			time.Sleep(l.cfg.Read.PollInterval)
		}
	}
}

// Detach closes the attached transport and returns the loop to idle.
func (l *Loop) Detach() {
	if l.connected.Load() {
		l.detach(nil)
	}
}

func (l *Loop) detach(cause error) {
	if l.transport != nil {
		_ = l.transport.Close()
		l.transport = nil
	}
	l.connected.Store(false)
	observability.RecordDisconnect()
	stats := l.Stats()
	event := l.logger.Info()
	if cause != nil {
		event = l.logger.Warn().Err(cause)
	}
	event.
		Str("conn_id", l.connID).
		Uint64("frames", stats.FramesReceived).
		Uint64("updates_applied", stats.UpdatesApplied).
		Uint32("last_frame_id", stats.LastFrameID).
		Msg("client detached")
}

func (l *Loop) maybeReportStats() {
	now := time.Now()
	if now.Sub(l.lastStats) < l.cfg.StatsInterval {
		return
	}
	l.lastStats = now
	stats := l.Stats()
	l.logger.Info().
		Str("conn_id", l.connID).
		Uint64("frames", stats.FramesReceived).
		Uint64("updates_applied", stats.UpdatesApplied).
		Uint32("last_frame_id", stats.LastFrameID).
		Msg("session stats")
}
