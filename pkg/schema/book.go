package schema

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultMinChapters = 3
	MaxChapters        = 25
)

var ErrInvalidBookSpec = errors.New("invalid book spec")

// BookSpec is the inbound request describing the book to draft.
type BookSpec struct {
	BookTopic        string `json:"book_topic" yaml:"book_topic"`
	AuthorName       string `json:"author_name" yaml:"author_name"`
	AuthorBio        string `json:"author_bio" yaml:"author_bio"`
	AuthorVoiceStyle string `json:"author_voice_style" yaml:"author_voice_style"`
	TargetAudience   string `json:"target_audience" yaml:"target_audience"`
	BookPurpose      string `json:"book_purpose" yaml:"book_purpose"`
	MinChapters      int    `json:"min_chapters" yaml:"min_chapters"`
}

// Normalize returns a trimmed copy with defaults applied.
func (b BookSpec) Normalize() BookSpec {
	b.BookTopic = strings.TrimSpace(b.BookTopic)
	b.AuthorName = strings.TrimSpace(b.AuthorName)
	b.AuthorBio = strings.TrimSpace(b.AuthorBio)
	b.AuthorVoiceStyle = strings.TrimSpace(b.AuthorVoiceStyle)
	b.TargetAudience = strings.TrimSpace(b.TargetAudience)
	b.BookPurpose = strings.TrimSpace(b.BookPurpose)
	if b.MinChapters <= 0 {
		b.MinChapters = DefaultMinChapters
	}
	return b
}

func (b BookSpec) Validate() error {
	if b.BookTopic == "" {
		return fmt.Errorf("%w: book_topic is required", ErrInvalidBookSpec)
	}
	if b.MinChapters < 1 || b.MinChapters > MaxChapters {
		return fmt.Errorf("%w: min_chapters must be between 1 and %d, got %d", ErrInvalidBookSpec, MaxChapters, b.MinChapters)
	}
	return nil
}
