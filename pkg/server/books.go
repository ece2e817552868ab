package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"quill/pkg/agent"
	"quill/pkg/inference"
	"quill/pkg/pipeline"
	"quill/pkg/queue"
	"quill/pkg/schema"
	"quill/pkg/storage"
	"quill/pkg/utils"
)

func bindSpec(c echo.Context) (schema.BookSpec, error) {
	var spec schema.BookSpec
	if err := c.Bind(&spec); err != nil {
		return spec, echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return spec, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return spec, nil
}

// POST /api/books
func (s *Server) handlePostBook(c echo.Context) error {
	spec, err := bindSpec(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	respCh, errCh, err := s.Queue.Add(ctx, spec, nil)
	if err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}

	payload, err := wait(ctx, respCh, errCh)
	if err != nil {
		log.Error("book request failed", "topic", spec.BookTopic, "error", err)
		return echo.NewHTTPError(statusFor(err), err.Error())
	}
	return c.JSON(http.StatusOK, payload)
}

// POST /api/books/stream
func (s *Server) handlePostBookStream(c echo.Context) error {
	spec, err := bindSpec(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	events := make(chan pipeline.Event, 8)
	obs := func(ev pipeline.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	respCh, errCh, err := s.Queue.Add(ctx, spec, obs)
	if err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}

	w, err := utils.NewSSEWriter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer w.Close()

	// Run returns only after its last event was handed over, so pending
	// events are drained before done or error.
	flush := func() {
		for {
			select {
			case ev := <-events:
				if err := w.Event("state", ev); err != nil {
					log.Warn("SSE write error", "error", err)
				}
			default:
				return
			}
		}
	}

	for {
		select {
		case ev := <-events:
			if err := w.Event("state", ev); err != nil {
				log.Warn("SSE write error", "error", err)
			}
		case payload, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			flush()
			return w.Event("done", payload)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			flush()
			log.Error("book stream failed", "topic", spec.BookTopic, "error", err)
			resp := utils.ErrJSON(err.Error())
			resp["status"] = statusFor(err)
			return w.Event("error", resp)
		case <-ctx.Done():
			return nil
		}
	}
}

func wait(ctx context.Context, respCh chan *schema.FinalPayload, errCh chan error) (*schema.FinalPayload, error) {
	for {
		select {
		case payload, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			return payload, nil
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			return nil, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrInvalidBookSpec):
		return http.StatusBadRequest
	case errors.Is(err, queue.ErrFull), errors.Is(err, queue.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, agent.ErrResponseFormat),
		errors.Is(err, pipeline.ErrOutlineInvalid),
		errors.Is(err, pipeline.ErrManuscriptIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrStorage):
		return http.StatusBadGateway
	case inference.IsStatus(err, http.StatusTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
