package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service": "Quill Book API",
		"status":  "ok",
		"queued":  s.Queue.Len(),
		"journal": s.Journal != nil,
	})
}

// GET /api/runs?limit=N
func (s *Server) handleGetRuns(c echo.Context) error {
	if s.Journal == nil {
		return echo.NewHTTPError(http.StatusNotFound, "journal disabled")
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	runs, err := s.Journal.List(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, runs)
}
