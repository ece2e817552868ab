package schema

import (
	"fmt"
	"strings"
)

// Manuscript is the full draft produced by the manuscript stage.
type Manuscript struct {
	WorkingTitle        string    `json:"working_title" jsonschema_description:"Working title of the book, usually unchanged from the outline"`
	Subtitle            string    `json:"subtitle" jsonschema_description:"Subtitle of the book"`
	Blurb               string    `json:"blurb" jsonschema_description:"Back-cover blurb of around 120 words"`
	FrontMatterMarkdown string    `json:"front_matter_markdown" jsonschema_description:"Title page, dedication and introduction in Markdown"`
	Chapters            []Chapter `json:"chapters" jsonschema_description:"Every chapter from the outline, same count and numbering"`
	FullBookMarkdown    string    `json:"full_book_markdown" jsonschema_description:"Front matter followed by every chapter, as one Markdown document"`
}

type Chapter struct {
	Number       int    `json:"number" jsonschema_description:"Chapter number matching the outline"`
	Title        string `json:"title" jsonschema_description:"Chapter title"`
	Subheading   string `json:"subheading" jsonschema_description:"Chapter subheading"`
	Quote        string `json:"quote" jsonschema_description:"Opening epigraph with attribution"`
	Summary      string `json:"summary" jsonschema_description:"Two or three sentence summary of the chapter"`
	BodyMarkdown string `json:"body_markdown" jsonschema_description:"Full chapter prose in Markdown"`
}

// FrontMatter is the book-level part of a manuscript, written separately when
// chapters are drafted in parallel.
type FrontMatter struct {
	WorkingTitle        string `json:"working_title" jsonschema_description:"Working title of the book"`
	Subtitle            string `json:"subtitle" jsonschema_description:"Subtitle of the book"`
	Blurb               string `json:"blurb" jsonschema_description:"Back-cover blurb of around 120 words"`
	FrontMatterMarkdown string `json:"front_matter_markdown" jsonschema_description:"Title page, dedication and introduction in Markdown"`
}

// ManuscriptRequest is the input of the manuscript and front matter stages.
type ManuscriptRequest struct {
	Outline  Outline  `json:"outline"`
	BookSpec BookSpec `json:"book_spec"`
}

// ChapterRequest asks for a single chapter of an outline.
type ChapterRequest struct {
	Chapter  ChapterStub `json:"chapter"`
	Outline  Outline     `json:"outline"`
	BookSpec BookSpec    `json:"book_spec"`
}

func (m Manuscript) Numbers() []int {
	out := make([]int, len(m.Chapters))
	for i, ch := range m.Chapters {
		out[i] = ch.Number
	}
	return out
}

// RenderMarkdown concatenates the front matter and chapters into one document.
func (m Manuscript) RenderMarkdown() string {
	var b strings.Builder
	if m.WorkingTitle != "" {
		fmt.Fprintf(&b, "# %s\n\n", m.WorkingTitle)
	}
	if m.Subtitle != "" {
		fmt.Fprintf(&b, "_%s_\n\n", m.Subtitle)
	}
	if fm := strings.TrimSpace(m.FrontMatterMarkdown); fm != "" {
		b.WriteString(fm)
		b.WriteString("\n\n")
	}
	for _, ch := range m.Chapters {
		fmt.Fprintf(&b, "## Chapter %d: %s\n\n", ch.Number, ch.Title)
		if ch.Subheading != "" {
			fmt.Fprintf(&b, "### %s\n\n", ch.Subheading)
		}
		if ch.Quote != "" {
			fmt.Fprintf(&b, "> %s\n\n", ch.Quote)
		}
		if body := strings.TrimSpace(ch.BodyMarkdown); body != "" {
			b.WriteString(body)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(b.String()) + "\n"
}
