package inference

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
)

// ErrEmptyReply is returned when a backend answers without any final text.
var ErrEmptyReply = errors.New("empty completion content")

// Inferencer defines an interface for running model inference and verification.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	Verify(ctx context.Context, result string) (bool, error)
}

func verify(result string) (bool, error) {
	if result == "" {
		return false, ErrEmptyReply
	}
	return true, nil
}
