package queue

import (
	"context"

	"quill/pkg/pipeline"
	"quill/pkg/schema"
)

type Queue interface {
	Start()
	Stop()
	Len() int
	Add(ctx context.Context, spec schema.BookSpec, obs pipeline.Observer) (chan *schema.FinalPayload, chan error, error)
}

// Runner runs one pipeline invocation; *pipeline.Coordinator satisfies it.
type Runner interface {
	Run(ctx context.Context, spec schema.BookSpec, obs pipeline.Observer) (*schema.FinalPayload, error)
}
