package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrOutlineInvalid       = errors.New("outline invalid")
	ErrManuscriptIncomplete = errors.New("manuscript incomplete")
)

// OutlineError reports an outline that is missing required keys or breaks
// the chapter count and numbering rules.
type OutlineError struct {
	Missing []string
	Err     error
}

func (e *OutlineError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("outline missing required keys %v", e.Missing)
	}
	return fmt.Sprintf("outline invalid: %v", e.Err)
}

func (e *OutlineError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrOutlineInvalid}
	}
	return []error{ErrOutlineInvalid, e.Err}
}

// ManuscriptIncompleteError reports a manuscript whose chapters do not map
// 1:1 onto the outline.
type ManuscriptIncompleteError struct {
	Expected int
	Got      int
	// Chapter is set when a single chapter written on its own was unusable.
	Chapter int
	// Keys lists the top level keys of the reply, which helps when the model
	// nested its chapters somewhere unexpected.
	Keys []string
	Err  error
}

func (e *ManuscriptIncompleteError) Error() string {
	msg := fmt.Sprintf("manuscript has %d chapters, outline has %d", e.Got, e.Expected)
	if e.Chapter > 0 {
		msg = fmt.Sprintf("manuscript chapter %d of %d incomplete", e.Chapter, e.Expected)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Keys) > 0 {
		msg += fmt.Sprintf(" (keys: %v)", e.Keys)
	}
	return msg
}

func (e *ManuscriptIncompleteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrManuscriptIncomplete}
	}
	return []error{ErrManuscriptIncomplete, e.Err}
}
