// Package receiver composes the daemon: listener, session loop, admin.
package receiver

import (
	"context"
	"errors"
	"net"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/aisaiev/lilka-desktop-monitor/internal/admin"
	"github.com/aisaiev/lilka-desktop-monitor/internal/config"
	"github.com/aisaiev/lilka-desktop-monitor/internal/session"
	"github.com/aisaiev/lilka-desktop-monitor/internal/stream"
	"github.com/aisaiev/lilka-desktop-monitor/internal/surface"
	"github.com/aisaiev/lilka-desktop-monitor/internal/wificreds"
)

// Service owns one surface, one session loop and the TCP accept loop that
// feeds it. One client at a time: the next accept only happens after the
// current connection ends.
type Service struct {
	cfg  config.ReceiverConfig
	fb   *surface.Framebuffer
	loop *session.Loop
}

func NewService(cfg config.ReceiverConfig) *Service {
	fb := surface.NewFramebuffer(cfg.Surface.Width, cfg.Surface.Height)
	loop := session.New(fb, session.Config{
		StatsInterval: cfg.StatsInterval,
		Read: stream.Config{
			PollInterval: cfg.ReadPoll,
			MaxWait:      cfg.ReadMaxWait,
		},
	})
	return &Service{cfg: cfg, fb: fb, loop: loop}
}

func (s *Service) Loop() *session.Loop {
	return s.loop
}

func (s *Service) Framebuffer() *surface.Framebuffer {
	return s.fb
}

// Run blocks until signal shutdown or a listener failure.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if path := strings.TrimSpace(s.cfg.CredsPath); path != "" {
		creds, err := wificreds.Load(path)
		if err != nil {
			return err
		}
		log.Info().Str("ssid", creds.SSID).Msg("network credentials loaded")
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("listening for display updates")

	adminErr := make(chan error, 1)
	if addr := strings.TrimSpace(s.cfg.AdminAddr); addr != "" {
		srv := admin.New(s.loop, s.fb, s.cfg.CorsOrigins)
		go func() {
			adminErr <- srv.Serve(addr)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(ctx, ln)
	}()

	select {
	case err := <-serveErr:
		return err
	case err := <-adminErr:
		if err != nil {
			return err
		}
		return <-serveErr
	}
}

// Serve accepts and serves clients sequentially on an existing listener.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	// Run observes ctx itself and detaches the active client; this only
	// unblocks Accept.
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("client connected")
		s.fb.Clear(0)
		s.loop.Attach(stream.NewConnTransport(conn))
		// Run returns when the client disconnects or a fatal decode
		// error tears the connection down; either way the slot is idle
		// again. Teardown details are logged by the loop.
		_ = s.loop.Run(ctx)
	}
}
