package main

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"quill/pkg/agent"
	"quill/pkg/config"
	"quill/pkg/inference"
	"quill/pkg/journal"
	"quill/pkg/pipeline"
	"quill/pkg/storage"
)

// app owns every long-lived client of one process.
type app struct {
	coordinator *pipeline.Coordinator
	journal     *journal.SQLite
	closers     []io.Closer
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	inf, err := inference.New(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	a := &app{}
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	a.coordinator = pipeline.NewCoordinator(
		agent.NewRunner(inf),
		storage.NewPersister(store),
		pipeline.DefaultAgents(cfg.Pipeline),
		pipeline.Options{ParallelChapters: cfg.Pipeline.ParallelChapters},
	)

	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.journal = j
		a.closers = append(a.closers, j)
		a.coordinator.WithJournal(j)
	}

	log.Info("pipeline ready", "provider", cfg.LLM.Provider, "storage", cfg.Storage.Backend, "journal", cfg.Journal != "", "parallel", cfg.Pipeline.ParallelChapters)
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
