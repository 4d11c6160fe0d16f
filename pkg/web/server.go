// Package web provides the control API and live feeds for hazardcam.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/hazardcam/hazardcam/internal/log"
	"github.com/hazardcam/hazardcam/pkg/hub"
	"github.com/hazardcam/hazardcam/pkg/session"
)

// Server exposes session control over REST and the annotated frame /
// status feeds over websockets.
type Server struct {
	app      *fiber.App
	port     string
	sessions *session.Manager

	frames *hub.Feed
	status *hub.Feed
}

// NewServer creates the web server and wires the session manager's
// outputs into the broadcast feeds.
func NewServer(port string, sessions *session.Manager) *Server {
	s := &Server{
		port:     port,
		sessions: sessions,
		frames:   hub.NewFrameFeed(),
		status:   hub.NewStatusFeed(),
	}

	sessions.OnFrame = s.frames.PublishFrame
	sessions.OnStatus = func(ev session.StatusEvent) {
		if err := s.status.PublishJSON(ev); err != nil {
			log.Warn("publish status", "error", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:               "hazardcam",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static dashboard
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/classes/dangerous", s.handleDangerousClasses)
	api.Post("/session/start", s.handleStart)
	api.Post("/session/stop", s.handleStop)
	api.Put("/mode", s.handleSetMode)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/feed", websocket.New(s.handleFeedWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start runs the feeds and listens. Blocks until shutdown.
func (s *Server) Start() error {
	go s.frames.Run()
	go s.status.Run()

	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)
	return s.app.Listen(":" + s.port)
}

// App returns the fiber app, used by handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// FeedClientCount returns the number of connected frame-feed clients.
func (s *Server) FeedClientCount() int {
	return s.frames.ClientCount()
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
