package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/hazardcam/hazardcam/pkg/detect"
	"github.com/hazardcam/hazardcam/pkg/session"
)

// handleStatus returns the current pipeline snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	snap := s.sessions.Snapshot()
	return c.JSON(fiber.Map{
		"state":        snap.StateName,
		"status":       snap.Status,
		"mode":         snap.Mode,
		"model_ready":  snap.ModelReady,
		"session_id":   snap.SessionID,
		"width":        snap.Width,
		"height":       snap.Height,
		"feed_clients": s.FeedClientCount(),
	})
}

// handleDangerousClasses returns the fixed set of emphasized classes.
func (s *Server) handleDangerousClasses(c *fiber.Ctx) error {
	classes := make([]string, 0, len(detect.DangerousClasses))
	for name := range detect.DangerousClasses {
		classes = append(classes, name)
	}
	return c.JSON(fiber.Map{"classes": classes})
}

// handleStart starts a capture session.
func (s *Server) handleStart(c *fiber.Ctx) error {
	if err := s.sessions.Start(); err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, session.ErrAlreadyRunning):
			status = fiber.StatusConflict
		case errors.Is(err, session.ErrModelNotReady), errors.Is(err, session.ErrModelFailed):
			status = fiber.StatusServiceUnavailable
		default:
			// Camera acquisition failure; the user may retry
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.sessions.Snapshot())
}

// handleStop stops the active session. Idempotent.
func (s *Server) handleStop(c *fiber.Ctx) error {
	if err := s.sessions.Stop(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.sessions.Snapshot())
}

// SetModeRequest is the request body for PUT /api/mode.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// handleSetMode switches between "all" and "dangerous" filtering.
func (s *Server) handleSetMode(c *fiber.Ctx) error {
	var req SetModeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	mode, ok := detect.ParseMode(req.Mode)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "mode must be \"all\" or \"dangerous\"",
		})
	}

	s.sessions.SetMode(mode)
	return c.JSON(fiber.Map{"mode": mode.String()})
}

// handleFeedWS streams annotated JPEG frames to the client.
func (s *Server) handleFeedWS(c *websocket.Conn) {
	s.frames.Subscribe(c)
}

// handleStatusWS streams status events; the current snapshot is sent
// first so late joiners render the right controls.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	c.WriteJSON(s.sessions.Snapshot())
	s.status.Subscribe(c)
}
