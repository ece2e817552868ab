package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"quill/pkg/schema"
)

// writeChaptersParallel writes the front matter and every chapter with
// separate agents. Each goroutine owns one slot of the result; the first
// failure cancels the others and fails the whole manuscript.
func (c *Coordinator) writeChaptersParallel(ctx context.Context, r *run, spec schema.BookSpec, outline schema.Outline) (schema.Manuscript, error) {
	expected := len(outline.Chapters)
	chapters := make([]schema.Chapter, expected)
	var front schema.FrontMatter

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.ParallelChapters)

	g.Go(func() error {
		doc, err := c.runner.Run(gctx, c.agents.FrontMatter, schema.ManuscriptRequest{Outline: outline, BookSpec: spec})
		if err != nil {
			return err
		}
		if err := doc.Decode(&front); err != nil {
			return &ManuscriptIncompleteError{Expected: expected, Got: expected, Err: fmt.Errorf("front matter: %w", err)}
		}
		return nil
	})

	for i, stub := range outline.Chapters {
		g.Go(func() error {
			a := c.agents.Chapter.Clone(fmt.Sprintf("%s_%d", c.agents.Chapter.Name, stub.Number))
			doc, err := c.runner.Run(gctx, a, schema.ChapterRequest{Chapter: stub, Outline: outline, BookSpec: spec})
			if err != nil {
				return err
			}

			var ch schema.Chapter
			if err := doc.Decode(&ch); err != nil {
				return &ManuscriptIncompleteError{Expected: expected, Chapter: stub.Number, Err: err}
			}
			if ch.Number == 0 {
				ch.Number = stub.Number
			}
			if ch.Number != stub.Number {
				return &ManuscriptIncompleteError{Expected: expected, Chapter: stub.Number, Err: fmt.Errorf("reply numbered %d", ch.Number)}
			}
			if strings.TrimSpace(ch.BodyMarkdown) == "" {
				return &ManuscriptIncompleteError{Expected: expected, Chapter: stub.Number, Err: fmt.Errorf("empty body")}
			}
			if ch.Title == "" {
				ch.Title = stub.Title
			}
			if ch.Subheading == "" {
				ch.Subheading = stub.Subheading
			}

			chapters[i] = ch
			log.Debug("chapter written", "run", r.id, "agent", a.Name, "chapter", ch.Number)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return schema.Manuscript{}, err
	}

	m := schema.Manuscript{
		WorkingTitle:        front.WorkingTitle,
		Subtitle:            front.Subtitle,
		Blurb:               front.Blurb,
		FrontMatterMarkdown: front.FrontMatterMarkdown,
		Chapters:            chapters,
	}
	if m.WorkingTitle == "" {
		m.WorkingTitle = outline.WorkingTitle
	}
	m.FullBookMarkdown = m.RenderMarkdown()
	return m, nil
}
