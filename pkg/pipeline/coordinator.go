// Package pipeline drafts a book in three linear stages: outline, manuscript
// and persistence.
package pipeline

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"quill/pkg/agent"
	"quill/pkg/diff"
	"quill/pkg/schema"
)

type StageRunner interface {
	Run(ctx context.Context, a agent.Agent, req any) (agent.Document, error)
}

type BookStore interface {
	SaveBook(ctx context.Context, title, markdown string, meta schema.Metadata) (schema.StorageReceipt, error)
}

// Journal records the outcome of every run. Failures to record are logged
// and never abort a run.
type Journal interface {
	Start(ctx context.Context, rec schema.RunRecord) error
	Finish(ctx context.Context, rec schema.RunRecord) error
}

type Options struct {
	// ParallelChapters > 0 writes each chapter with its own agent, at most
	// that many at a time. Zero asks one agent for the whole manuscript.
	ParallelChapters int
}

// Coordinator holds only immutable collaborators, so a single Coordinator may
// run any number of invocations concurrently.
type Coordinator struct {
	runner  StageRunner
	store   BookStore
	journal Journal
	agents  Agents
	opts    Options
}

func NewCoordinator(runner StageRunner, store BookStore, agents Agents, opts Options) *Coordinator {
	return &Coordinator{
		runner: runner,
		store:  store,
		agents: agents,
		opts:   opts,
	}
}

func (c *Coordinator) WithJournal(j Journal) *Coordinator {
	c.journal = j
	return c
}

type run struct {
	id  string
	obs Observer
}

func (r *run) transition(s State, detail string) {
	log.Info("pipeline", "run", r.id, "state", s, "detail", detail)
	if r.obs != nil {
		r.obs(Event{RunID: r.id, State: s, Detail: detail})
	}
}

// Run drafts and stores one book. It returns either a complete payload or an
// error; nothing is stored unless both generation stages succeeded.
func (c *Coordinator) Run(ctx context.Context, spec schema.BookSpec, obs Observer) (*schema.FinalPayload, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	r := &run{id: ksuid.New().String(), obs: obs}
	rec := schema.RunRecord{
		ID:        r.id,
		Topic:     spec.BookTopic,
		Status:    schema.RunStarted,
		StartedAt: time.Now().UTC(),
	}
	c.journalStart(ctx, rec)

	payload, err := c.run(ctx, r, spec)

	rec.FinishedAt = time.Now().UTC()
	if err != nil {
		rec.Status = schema.RunFailed
		rec.Error = err
		log.Error("pipeline failed", "run", r.id, "error", err)
	} else {
		rec.Status = schema.RunSucceeded
		rec.Title = payload.WorkingTitle
		rec.ManuscriptURI = payload.StorageURIs.ManuscriptURI
		rec.MetadataURI = payload.StorageURIs.MetadataURI
	}
	c.journalFinish(context.WithoutCancel(ctx), rec)

	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Coordinator) run(ctx context.Context, r *run, spec schema.BookSpec) (*schema.FinalPayload, error) {
	r.transition(Start, spec.BookTopic)

	outline, err := c.outline(ctx, spec)
	if err != nil {
		return nil, err
	}
	r.transition(OutlineDone, outline.WorkingTitle)

	var manuscript schema.Manuscript
	if c.opts.ParallelChapters > 0 {
		manuscript, err = c.writeChaptersParallel(ctx, r, spec, outline)
	} else {
		manuscript, err = c.manuscript(ctx, spec, outline)
	}
	if err != nil {
		return nil, err
	}
	c.finishManuscript(r, outline, &manuscript)
	r.transition(ManuscriptDone, manuscript.WorkingTitle)

	meta := schema.NewMetadata(manuscript, spec)
	receipt, err := c.store.SaveBook(ctx, manuscript.WorkingTitle, manuscript.FullBookMarkdown, meta)
	if err != nil {
		return nil, err
	}
	r.transition(Persisted, receipt.ManuscriptURI)

	payload := schema.NewFinalPayload(r.id, manuscript, CoverPrompts(manuscript.WorkingTitle), receipt)
	r.transition(Done, receipt.MetadataURI)
	return &payload, nil
}

func (c *Coordinator) outline(ctx context.Context, spec schema.BookSpec) (schema.Outline, error) {
	doc, err := c.runner.Run(ctx, c.agents.Outline, spec)
	if err != nil {
		return schema.Outline{}, err
	}
	if missing := doc.Missing("working_title", "chapters"); len(missing) > 0 {
		return schema.Outline{}, &OutlineError{Missing: missing}
	}

	var outline schema.Outline
	if err := doc.Decode(&outline); err != nil {
		return schema.Outline{}, &OutlineError{Err: err}
	}
	if err := outline.Validate(spec.MinChapters); err != nil {
		return schema.Outline{}, &OutlineError{Err: err}
	}

	log.Debug("outline ready", "title", outline.WorkingTitle, "chapters", len(outline.Chapters), "words", outline.TotalWords())
	return outline, nil
}

func (c *Coordinator) manuscript(ctx context.Context, spec schema.BookSpec, outline schema.Outline) (schema.Manuscript, error) {
	doc, err := c.runner.Run(ctx, c.agents.Manuscript, schema.ManuscriptRequest{Outline: outline, BookSpec: spec})
	if err != nil {
		return schema.Manuscript{}, err
	}

	expected := len(outline.Chapters)
	keys := slices.Sorted(maps.Keys(doc))

	var m schema.Manuscript
	if err := doc.Decode(&m); err != nil {
		return schema.Manuscript{}, &ManuscriptIncompleteError{Expected: expected, Keys: keys, Err: err}
	}
	if len(m.Chapters) == 0 || len(m.Chapters) != expected {
		return schema.Manuscript{}, &ManuscriptIncompleteError{Expected: expected, Got: len(m.Chapters), Keys: keys}
	}
	if err := schema.CheckNumbering(m.Numbers()); err != nil {
		return schema.Manuscript{}, &ManuscriptIncompleteError{Expected: expected, Got: len(m.Chapters), Err: err}
	}
	return m, nil
}

// finishManuscript fills fields the model may leave blank and reports
// chapters whose titles drifted from the outline.
func (c *Coordinator) finishManuscript(r *run, outline schema.Outline, m *schema.Manuscript) {
	if strings.TrimSpace(m.WorkingTitle) == "" {
		m.WorkingTitle = outline.WorkingTitle
	}
	if strings.TrimSpace(m.Subtitle) == "" {
		m.Subtitle = outline.Subtitle
	}
	if strings.TrimSpace(m.FullBookMarkdown) == "" {
		m.FullBookMarkdown = m.RenderMarkdown()
	}

	for _, d := range diff.Chapters(outline, *m) {
		log.Warn("chapter drifted from outline", "run", r.id, "diff", d.String())
	}
}

func (c *Coordinator) journalStart(ctx context.Context, rec schema.RunRecord) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Start(ctx, rec); err != nil {
		log.Warn("journal start failed", "run", rec.ID, "error", err)
	}
}

func (c *Coordinator) journalFinish(ctx context.Context, rec schema.RunRecord) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Finish(ctx, rec); err != nil {
		log.Warn("journal finish failed", "run", rec.ID, "error", err)
	}
}
