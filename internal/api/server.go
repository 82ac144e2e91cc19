// Package api exposes the robot over HTTP: gesture and servo
// triggers, a chat endpoint, and a websocket stream of status
// snapshots for dashboards.
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/rufuslabs/go-rufus/internal/log"
	"github.com/rufuslabs/go-rufus/pkg/bot"
	"github.com/rufuslabs/go-rufus/pkg/motion"
)

// Server wraps the fiber app around one bot instance.
type Server struct {
	app       *fiber.App
	robot     *bot.Bot
	statusHub *Hub
}

// NewServer builds the HTTP server for the given bot.
func NewServer(robot *bot.Bot) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		robot:     robot,
		statusHub: NewHub(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(cors.New())

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/api/status", s.handleStatus)
	s.app.Get("/api/gestures", s.handleListGestures)
	s.app.Post("/api/gesture/:name", s.handleGesture)
	s.app.Post("/api/servo", s.handleServo)
	s.app.Post("/api/chat", s.handleChat)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/status", websocket.New(func(conn *websocket.Conn) {
		s.statusHub.Serve(conn)
	}))
}

// Listen serves until Shutdown. Blocks.
func (s *Server) Listen(addr string) error {
	log.Info("api listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// publishStatus pushes a fresh snapshot to websocket clients.
func (s *Server) publishStatus() {
	s.statusHub.BroadcastJSON(s.robot.Status())
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"link":   s.robot.LinkState().String(),
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.robot.Status())
}

func (s *Server) handleListGestures(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"gestures": s.robot.Gestures()})
}

func (s *Server) handleGesture(c *fiber.Ctx) error {
	name := c.Params("name")
	if !s.robot.Perform(name) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown gesture: " + name,
		})
	}
	s.publishStatus()
	return c.JSON(fiber.Map{"gesture": name, "performed": true})
}

// ServoRequest is the body for POST /api/servo.
type ServoRequest struct {
	Joint string `json:"joint"`
	Angle int    `json:"angle"`
}

func (s *Server) handleServo(c *fiber.Ctx) error {
	var req ServoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	outcome, err := s.robot.Move(req.Joint, req.Angle)
	if outcome == motion.OutcomeRejected {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	s.publishStatus()
	return c.JSON(fiber.Map{
		"joint":   req.Joint,
		"angle":   req.Angle,
		"outcome": outcome.String(),
	})
}

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message required"})
	}

	response, err := s.robot.Respond(c.Context(), req.Message)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	s.publishStatus()
	return c.JSON(fiber.Map{"response": response})
}
