package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/pkg/agent"
	"quill/pkg/pipeline"
	"quill/pkg/queue"
	"quill/pkg/schema"
	"quill/pkg/storage"
)

type runnerFunc func(ctx context.Context, spec schema.BookSpec, obs pipeline.Observer) (*schema.FinalPayload, error)

func (f runnerFunc) Run(ctx context.Context, spec schema.BookSpec, obs pipeline.Observer) (*schema.FinalPayload, error) {
	return f(ctx, spec, obs)
}

func succeed(ctx context.Context, spec schema.BookSpec, obs pipeline.Observer) (*schema.FinalPayload, error) {
	for _, s := range []pipeline.State{pipeline.Start, pipeline.OutlineDone, pipeline.ManuscriptDone, pipeline.Persisted, pipeline.Done} {
		if obs != nil {
			obs(pipeline.Event{RunID: "run1", State: s})
		}
	}
	return &schema.FinalPayload{
		RunID:        "run1",
		WorkingTitle: "Calm Code",
		StorageURIs:  schema.StorageURIs{ManuscriptURI: "mem://b/m.md", MetadataURI: "mem://b/m.json"},
	}, nil
}

func failWith(err error) runnerFunc {
	return func(ctx context.Context, spec schema.BookSpec, obs pipeline.Observer) (*schema.FinalPayload, error) {
		if obs != nil {
			obs(pipeline.Event{RunID: "run1", State: pipeline.Start})
		}
		return nil, err
	}
}

func newTestServer(t *testing.T, r queue.Runner, journal RunLister) *Server {
	t.Helper()
	q := queue.New(r, 1, 4)
	q.Start()
	t.Cleanup(q.Stop)
	return NewServer(context.Background(), q, journal)
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

const validSpec = `{"book_topic":"Calm software delivery","target_audience":"managers","min_chapters":8}`

func TestGetRoot(t *testing.T) {
	s := newTestServer(t, runnerFunc(succeed), nil)

	rec := do(s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["journal"])
}

func TestPostBook(t *testing.T) {
	var got schema.BookSpec
	s := newTestServer(t, runnerFunc(func(ctx context.Context, spec schema.BookSpec, obs pipeline.Observer) (*schema.FinalPayload, error) {
		got = spec
		return succeed(ctx, spec, obs)
	}), nil)

	rec := do(s, http.MethodPost, "/api/books", validSpec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload schema.FinalPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Calm Code", payload.WorkingTitle)
	assert.Equal(t, "mem://b/m.md", payload.StorageURIs.ManuscriptURI)
	assert.Equal(t, 8, got.MinChapters)
}

func TestPostBookErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"invalid json", `{"book_topic":`, nil, http.StatusBadRequest},
		{"missing topic", `{"min_chapters":3}`, nil, http.StatusBadRequest},
		{"too many chapters", `{"book_topic":"x","min_chapters":40}`, nil, http.StatusBadRequest},
		{"response format", validSpec, &agent.ResponseFormatError{Agent: "outline_agent"}, http.StatusUnprocessableEntity},
		{"outline invalid", validSpec, &pipeline.OutlineError{Missing: []string{"chapters"}}, http.StatusUnprocessableEntity},
		{"manuscript incomplete", validSpec, &pipeline.ManuscriptIncompleteError{Expected: 8}, http.StatusUnprocessableEntity},
		{"storage", validSpec, &storage.StorageError{Op: "write", Key: "k", Err: errors.New("403")}, http.StatusBadGateway},
		{"unknown", validSpec, errors.New("backend exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, failWith(tt.err), nil)

			rec := do(s, http.MethodPost, "/api/books", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

type fullQueue struct{}

func (fullQueue) Start()   {}
func (fullQueue) Stop()    {}
func (fullQueue) Len() int { return 4 }
func (fullQueue) Add(context.Context, schema.BookSpec, pipeline.Observer) (chan *schema.FinalPayload, chan error, error) {
	return nil, nil, queue.ErrFull
}

func TestPostBookQueueFull(t *testing.T) {
	s := NewServer(context.Background(), fullQueue{}, nil)

	rec := do(s, http.MethodPost, "/api/books", validSpec)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(s, http.MethodPost, "/api/books/stream", validSpec)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type sseEvent struct {
	name string
	data string
}

func parseSSE(body string) []sseEvent {
	var out []sseEvent
	for _, block := range strings.Split(body, "\n\n") {
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			if v, ok := strings.CutPrefix(line, "event: "); ok {
				ev.name = v
			}
			if v, ok := strings.CutPrefix(line, "data: "); ok {
				ev.data = v
			}
		}
		if ev.name != "" {
			out = append(out, ev)
		}
	}
	return out
}

func TestPostBookStream(t *testing.T) {
	s := newTestServer(t, runnerFunc(succeed), nil)

	rec := do(s, http.MethodPost, "/api/books/stream", validSpec)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := parseSSE(rec.Body.String())
	var names []string
	for _, ev := range events {
		names = append(names, ev.name)
	}
	assert.Equal(t, []string{"state", "state", "state", "state", "state", "done", "close"}, names)
	assert.JSONEq(t, `{"run_id":"run1","state":"start"}`, events[0].data)

	var payload schema.FinalPayload
	require.NoError(t, json.Unmarshal([]byte(events[5].data), &payload))
	assert.Equal(t, "Calm Code", payload.WorkingTitle)
}

func TestPostBookStreamError(t *testing.T) {
	s := newTestServer(t, failWith(&pipeline.ManuscriptIncompleteError{Expected: 8}), nil)

	rec := do(s, http.MethodPost, "/api/books/stream", validSpec)
	require.Equal(t, http.StatusOK, rec.Code)

	events := parseSSE(rec.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, "state", events[0].name)
	assert.Equal(t, "error", events[1].name)
	assert.Equal(t, "close", events[2].name)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(events[1].data), &body))
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["status"])
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "manuscript has 0 chapters")
}

type fakeLister struct {
	runs  []schema.RunRecord
	limit int
}

func (f *fakeLister) List(ctx context.Context, limit int) ([]schema.RunRecord, error) {
	f.limit = limit
	return f.runs, nil
}

func TestGetRuns(t *testing.T) {
	s := newTestServer(t, runnerFunc(succeed), nil)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/api/runs", "").Code)

	lister := &fakeLister{runs: []schema.RunRecord{{
		ID:        "run1",
		Topic:     "Sleep",
		Status:    schema.RunFailed,
		StartedAt: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC),
		Error:     errors.New("storage error"),
	}}}
	s = newTestServer(t, runnerFunc(succeed), lister)

	rec := do(s, http.MethodGet, "/api/runs?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, lister.limit)
	assert.Contains(t, rec.Body.String(), `"error":"storage error"`)
	assert.Contains(t, rec.Body.String(), `"status":"failed"`)

	assert.Equal(t, http.StatusBadRequest, do(s, http.MethodGet, "/api/runs?limit=zero", "").Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(schema.ErrInvalidBookSpec))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(queue.ErrStopped))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
}
