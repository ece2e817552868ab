package server

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"quill/pkg/queue"
	"quill/pkg/schema"
)

// RunLister reads recent runs back from a journal.
type RunLister interface {
	List(ctx context.Context, limit int) ([]schema.RunRecord, error)
}

type Server struct {
	Echo  *echo.Echo
	Queue queue.Queue
	Ctx   context.Context

	// Journal is optional; without it /api/runs answers 404.
	Journal RunLister
}

func NewServer(ctx context.Context, q queue.Queue, journal RunLister) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:    e,
		Queue:   q,
		Ctx:     ctx,
		Journal: journal,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.POST("/books", s.handlePostBook)              // BookSpec -> FinalPayload
	api.POST("/books/stream", s.handlePostBookStream) // BookSpec -> SSE state events, then done
	api.GET("/runs", s.handleGetRuns)                 // recent journal entries
}

func (s *Server) Start(addr string) error {
	s.Queue.Start()
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

// Shutdown stops accepting requests, waits for in-flight handlers and then
// drains the queue.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")
	err := s.Echo.Shutdown(ctx)
	s.Queue.Stop()
	return err
}
