package pipeline

import (
	"quill/pkg/agent"
	"quill/pkg/config"
	"quill/pkg/schema"
)

// Agents is the set of stage configurations a Coordinator runs. Values are
// copied into each run, so one Agents can serve concurrent invocations.
type Agents struct {
	Outline     agent.Agent
	Manuscript  agent.Agent
	FrontMatter agent.Agent
	Chapter     agent.Agent
}

func DefaultAgents(cfg config.PipelineConfig) Agents {
	outlineFormat := schema.OutlineResponseFormat()
	manuscriptFormat := schema.ManuscriptResponseFormat()
	frontMatterFormat := schema.FrontMatterResponseFormat()
	chapterFormat := schema.ChapterResponseFormat()

	return Agents{
		Outline: agent.Agent{
			Name:        "outline_agent",
			Description: "Plans structured chapter outlines for non-fiction Kindle books.",
			Instruction: outlinePrompt,
			Format:      &outlineFormat,
			MaxTokens:   cfg.OutlineTokens,
			Temperature: 0.7,
		},
		Manuscript: agent.Agent{
			Name:        "manuscript_agent",
			Description: "Writes a complete manuscript from an approved outline.",
			Instruction: manuscriptPrompt,
			Format:      &manuscriptFormat,
			MaxTokens:   cfg.ManuscriptTokens,
			Temperature: 0.8,
		},
		FrontMatter: agent.Agent{
			Name:        "front_matter_agent",
			Description: "Writes the title page, blurb and introduction of a book.",
			Instruction: frontMatterPrompt,
			Format:      &frontMatterFormat,
			MaxTokens:   cfg.ChapterTokens,
			Temperature: 0.8,
		},
		Chapter: agent.Agent{
			Name:        "chapter_agent",
			Description: "Writes one chapter of a book from its outline entry.",
			Instruction: chapterPrompt,
			Format:      &chapterFormat,
			MaxTokens:   cfg.ChapterTokens,
			Temperature: 0.8,
		},
	}
}
