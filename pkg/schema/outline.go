package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Outline is the chapter plan produced by the outline stage.
type Outline struct {
	WorkingTitle   string        `json:"working_title" jsonschema_description:"Working title of the book"`
	Subtitle       string        `json:"subtitle" jsonschema_description:"Subtitle that sharpens the promise of the title"`
	Chapters       []ChapterStub `json:"chapters" jsonschema_description:"Ordered chapter plan, numbered from 1 without gaps"`
	NotesForWriter string        `json:"notes_for_writer" jsonschema_description:"Guidance on pacing, tone and the through-line the writer should keep"`
}

type ChapterStub struct {
	Number          int    `json:"number" jsonschema_description:"Chapter number starting at 1"`
	Title           string `json:"title" jsonschema_description:"Short, clear chapter title"`
	Subheading      string `json:"subheading" jsonschema_description:"One sentence giving more context for the chapter"`
	ApproxWordCount int    `json:"approx_word_count" jsonschema_description:"Rough target length of the chapter prose in words"`
}

// Validate checks the structural invariants of an outline: a title, between
// minChapters and MaxChapters chapters, numbered 1..n.
func (o Outline) Validate(minChapters int) error {
	var errs []error
	if strings.TrimSpace(o.WorkingTitle) == "" {
		errs = append(errs, errors.New("working_title is empty"))
	}
	n := len(o.Chapters)
	switch {
	case n == 0:
		errs = append(errs, errors.New("no chapters"))
	case n < minChapters:
		errs = append(errs, fmt.Errorf("%d chapters, need at least %d", n, minChapters))
	case n > MaxChapters:
		errs = append(errs, fmt.Errorf("%d chapters, at most %d allowed", n, MaxChapters))
	}
	if err := CheckNumbering(o.Numbers()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (o Outline) Numbers() []int {
	out := make([]int, len(o.Chapters))
	for i, ch := range o.Chapters {
		out[i] = ch.Number
	}
	return out
}

// TotalWords sums the approximate word counts of every chapter.
func (o Outline) TotalWords() int {
	var total int
	for _, ch := range o.Chapters {
		total += max(ch.ApproxWordCount, 0)
	}
	return total
}

// CheckNumbering reports the first position where numbers is not the sequence 1, 2, 3...
func CheckNumbering(numbers []int) error {
	for i, n := range numbers {
		if n != i+1 {
			return fmt.Errorf("chapter at position %d is numbered %d, want %d", i+1, n, i+1)
		}
	}
	return nil
}
