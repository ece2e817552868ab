package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"quill/pkg/inference"
	"quill/pkg/utils"
)

// Document is a decoded JSON object returned by an agent.
type Document map[string]any

// Decode converts the document into v, typically a schema struct.
func (d Document) Decode(v any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Missing returns the keys that are absent or null in the document.
func (d Document) Missing(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if v, ok := d[k]; !ok || v == nil {
			out = append(out, k)
		}
	}
	return out
}

// Runner executes one request/response exchange per call. It holds no state
// between calls and is safe for concurrent use.
type Runner struct {
	inf inference.Inferencer
	// Tokens counts the tokens of a prompt; it sizes the completion budget.
	Tokens func(string) int
}

func NewRunner(inf inference.Inferencer) *Runner {
	return &Runner{
		inf:    inf,
		Tokens: utils.EstimateTokens,
	}
}

// Run serialises req, submits it to a fresh session of a and returns the first
// JSON object of the reply. Replies without one fail with a
// *ResponseFormatError; nothing is retried.
func (r *Runner) Run(ctx context.Context, a Agent, req any) (Document, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("agent %s: encoding request: %w", a.Name, err)
	}
	user := string(body)
	session := newSession(a)

	tokens := r.Tokens(a.Instruction + user)
	log.Debug("running agent", "agent", a.Name, "session", session.ID, "tokens", tokens)

	out, err := r.inf.Infer(ctx, a.params(tokens), a.Instruction, user)
	if err != nil {
		if errors.Is(err, inference.ErrEmptyReply) {
			return nil, &ResponseFormatError{Agent: a.Name, Session: session.ID, Err: err}
		}
		return nil, fmt.Errorf("agent %s: %w", a.Name, err)
	}
	if ok, err := r.inf.Verify(ctx, out); !ok {
		return nil, &ResponseFormatError{Agent: a.Name, Session: session.ID, Reply: out, Err: err}
	}

	raw, err := utils.FirstJSONObject(out)
	if err != nil {
		log.Warn("agent reply had no JSON object", "agent", a.Name, "session", session.ID, "error", err)
		log.Debug("raw output", "output", out)
		return nil, &ResponseFormatError{Agent: a.Name, Session: session.ID, Reply: out, Err: err}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ResponseFormatError{Agent: a.Name, Session: session.ID, Reply: out, Err: err}
	}

	log.Debug("agent finished", "agent", a.Name, "session", session.ID, "keys", len(doc), "took", time.Since(session.Started).Round(time.Millisecond))
	return doc, nil
}
