// Package admin serves the receiver's HTTP status surface.
package admin

import (
	"image/png"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/aisaiev/lilka-desktop-monitor/internal/observability"
	"github.com/aisaiev/lilka-desktop-monitor/internal/session"
	"github.com/aisaiev/lilka-desktop-monitor/internal/surface"
)

// Server exposes health, stats, metrics and a framebuffer snapshot for one
// session loop.
type Server struct {
	loop    *session.Loop
	fb      *surface.Framebuffer
	router  *gin.Engine
	started time.Time
}

func New(loop *session.Loop, fb *surface.Framebuffer, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		loop:    loop,
		fb:      fb,
		router:  r,
		started: time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Serve(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"service": "pixeld",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"uptime": time.Since(s.started).String(),
		})
	})

	s.router.GET("/stats", func(c *gin.Context) {
		stats := s.loop.Stats()
		c.JSON(http.StatusOK, gin.H{
			"connected":       s.loop.Connected(),
			"frames_received": stats.FramesReceived,
			"updates_applied": stats.UpdatesApplied,
			"last_frame_id":   stats.LastFrameID,
			"surface_width":   s.fb.Width(),
			"surface_height":  s.fb.Height(),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/frame.png", func(c *gin.Context) {
		c.Header("Content-Type", "image/png")
		c.Status(http.StatusOK)
		if err := png.Encode(c.Writer, s.fb); err != nil {
			log.Error().Err(err).Msg("frame snapshot encode failed")
		}
	})
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
