package pipeline

import (
	"fmt"

	"quill/pkg/schema"
)

const backCoverPrompt = "Simple back cover with a soft gradient background and subtle geometric motif, leaving generous space for blurb text."

// CoverPrompts returns the cover art prompts for a title. They never come from
// the model, so the same title always yields the same prompts.
func CoverPrompts(title string) schema.CoverPrompts {
	return schema.CoverPrompts{
		Front: fmt.Sprintf("Minimalist, modern non-fiction cover for a book titled “%s”. Calm, confident mood, cool blues with warm gold accents, clean typography.", title),
		Back:  backCoverPrompt,
	}
}
