// Package agent runs single JSON-in, JSON-out exchanges with a text
// generation backend.
package agent

import (
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/segmentio/ksuid"
)

// Agent is an immutable description of one generation capability: who it
// is, what it is told, and how its reply should be shaped.
type Agent struct {
	Name        string
	Description string
	Instruction string
	// Format requests structured output from backends that support it.
	Format      *openai.ChatCompletionNewParamsResponseFormatUnion
	MaxTokens   int64
	Temperature float64
}

// Clone returns an independent copy carrying a new name.
func (a Agent) Clone(name string) Agent {
	c := a
	c.Name = name
	if a.Format != nil {
		f := *a.Format
		c.Format = &f
	}
	return c
}

func (a Agent) params(requestTokens int) *openai.ChatCompletionNewParams {
	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(max(a.MaxTokens, int64(requestTokens)*2)),
	}
	if a.Temperature > 0 {
		params.Temperature = openai.Float(a.Temperature)
	}
	if a.Format != nil {
		params.ResponseFormat = *a.Format
	}
	return params
}

// Session identifies one isolated conversation with a backend. A new session
// is opened for every Run so stages never see each other's turns.
type Session struct {
	ID      string
	Agent   string
	Started time.Time
}

func newSession(a Agent) Session {
	return Session{
		ID:      ksuid.New().String(),
		Agent:   a.Name,
		Started: time.Now(),
	}
}
