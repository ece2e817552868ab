package schema

import "fmt"

// Metadata is the compact JSON document stored next to the manuscript.
type Metadata struct {
	WorkingTitle   string `json:"working_title"`
	Subtitle       string `json:"subtitle"`
	ChapterCount   int    `json:"chapter_count"`
	Blurb          string `json:"blurb"`
	TargetAudience string `json:"target_audience"`
}

func NewMetadata(m Manuscript, spec BookSpec) Metadata {
	return Metadata{
		WorkingTitle:   m.WorkingTitle,
		Subtitle:       m.Subtitle,
		ChapterCount:   len(m.Chapters),
		Blurb:          m.Blurb,
		TargetAudience: spec.TargetAudience,
	}
}

// StorageReceipt holds the locations returned by the persistence adapter.
type StorageReceipt struct {
	ManuscriptURI string `json:"manuscript_uri"`
	MetadataURI   string `json:"metadata_uri"`
}

type CoverPrompts struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type StorageURIs struct {
	ManuscriptURI   string `json:"manuscript_uri"`
	MetadataURI     string `json:"metadata_uri"`
	AdditionalNotes string `json:"additional_notes"`
}

// FinalPayload is the externally delivered result of one pipeline run.
type FinalPayload struct {
	RunID               string       `json:"run_id"`
	WorkingTitle        string       `json:"working_title"`
	Subtitle            string       `json:"subtitle"`
	Blurb               string       `json:"blurb"`
	FrontMatterMarkdown string       `json:"front_matter_markdown"`
	Chapters            []Chapter    `json:"chapters"`
	FullBookMarkdown    string       `json:"full_book_markdown"`
	CoverPrompts        CoverPrompts `json:"cover_prompts"`
	StorageURIs         StorageURIs  `json:"storage_uris"`
}

func NewFinalPayload(runID string, m Manuscript, cover CoverPrompts, receipt StorageReceipt) FinalPayload {
	return FinalPayload{
		RunID:               runID,
		WorkingTitle:        m.WorkingTitle,
		Subtitle:            m.Subtitle,
		Blurb:               m.Blurb,
		FrontMatterMarkdown: m.FrontMatterMarkdown,
		Chapters:            m.Chapters,
		FullBookMarkdown:    m.FullBookMarkdown,
		CoverPrompts:        cover,
		StorageURIs: StorageURIs{
			ManuscriptURI:   receipt.ManuscriptURI,
			MetadataURI:     receipt.MetadataURI,
			AdditionalNotes: fmt.Sprintf("Metadata stored at: %s", receipt.MetadataURI),
		},
	}
}
