package schema

import (
	"encoding/json"
	"errors"
	"time"
)

type RunStatus string

const (
	RunStarted   RunStatus = "started"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunRecord is one journal entry describing a pipeline invocation.
type RunRecord struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	Title         string    `json:"title,omitzero"`
	Status        RunStatus `json:"status"`
	ManuscriptURI string    `json:"manuscript_uri,omitzero"`
	MetadataURI   string    `json:"metadata_uri,omitzero"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at,omitzero"`

	Error error `json:"-"`
}

type runAlias struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	Title         string    `json:"title,omitzero"`
	Status        RunStatus `json:"status"`
	ManuscriptURI string    `json:"manuscript_uri,omitzero"`
	MetadataURI   string    `json:"metadata_uri,omitzero"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at,omitzero"`
	Error         string    `json:"error,omitzero"`
}

func (r *RunRecord) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	a := runAlias{
		ID:            r.ID,
		Topic:         r.Topic,
		Title:         r.Title,
		Status:        r.Status,
		ManuscriptURI: r.ManuscriptURI,
		MetadataURI:   r.MetadataURI,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
	}
	if r.Error != nil {
		a.Error = r.Error.Error()
	}

	return json.Marshal(a)
}

func (r *RunRecord) UnmarshalJSON(data []byte) error {
	var a runAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	r.ID = a.ID
	r.Topic = a.Topic
	r.Title = a.Title
	r.Status = a.Status
	r.ManuscriptURI = a.ManuscriptURI
	r.MetadataURI = a.MetadataURI
	r.StartedAt = a.StartedAt
	r.FinishedAt = a.FinishedAt
	r.Error = nil
	if a.Error != "" {
		r.Error = errors.New(a.Error)
	}

	return nil
}
