package journal

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/pkg/schema"
)

func openTemp(t *testing.T) *SQLite {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "runs", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestStartFinishList(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

	ok := schema.RunRecord{ID: "run-ok", Topic: "Sleep", Status: schema.RunStarted, StartedAt: base}
	bad := schema.RunRecord{ID: "run-bad", Topic: "Focus", Status: schema.RunStarted, StartedAt: base.Add(time.Minute)}
	require.NoError(t, j.Start(ctx, ok))
	require.NoError(t, j.Start(ctx, bad))

	ok.Status = schema.RunSucceeded
	ok.Title = "Sleep Well"
	ok.ManuscriptURI = "gs://b/sleep-well/manuscript.md"
	ok.MetadataURI = "gs://b/sleep-well/metadata.json"
	ok.FinishedAt = base.Add(30 * time.Second)
	require.NoError(t, j.Finish(ctx, ok))

	bad.Status = schema.RunFailed
	bad.Error = errors.New("manuscript incomplete")
	bad.FinishedAt = base.Add(2 * time.Minute)
	require.NoError(t, j.Finish(ctx, bad))

	runs, err := j.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-bad", runs[0].ID, "newest first")
	assert.Equal(t, schema.RunFailed, runs[0].Status)
	require.Error(t, runs[0].Error)
	assert.Equal(t, "manuscript incomplete", runs[0].Error.Error())

	assert.Equal(t, "run-ok", runs[1].ID)
	assert.Equal(t, "Sleep Well", runs[1].Title)
	assert.Equal(t, ok.ManuscriptURI, runs[1].ManuscriptURI)
	assert.NoError(t, runs[1].Error)
	assert.True(t, base.Equal(runs[1].StartedAt))
	assert.True(t, ok.FinishedAt.Equal(runs[1].FinishedAt))

	limited, err := j.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListUnfinishedRun(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	require.NoError(t, j.Start(ctx, schema.RunRecord{ID: "r", Topic: "T", Status: schema.RunStarted, StartedAt: time.Now()}))

	runs, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, schema.RunStarted, runs[0].Status)
	assert.True(t, runs[0].FinishedAt.IsZero())
}

func TestFinishUnknownRun(t *testing.T) {
	j := openTemp(t)

	err := j.Finish(context.Background(), schema.RunRecord{ID: "ghost", Status: schema.RunFailed})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDuplicateStart(t *testing.T) {
	j := openTemp(t)
	rec := schema.RunRecord{ID: "dup", Topic: "T", Status: schema.RunStarted, StartedAt: time.Now()}

	require.NoError(t, j.Start(context.Background(), rec))
	assert.Error(t, j.Start(context.Background(), rec))
}

func TestInMemory(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Start(context.Background(), schema.RunRecord{ID: "m", Topic: "T", Status: schema.RunStarted, StartedAt: time.Now()}))
	runs, err := j.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Start(context.Background(), schema.RunRecord{ID: "keep", Topic: "T", Status: schema.RunStarted, StartedAt: time.Now()}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	runs, err := j.List(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "keep", runs[0].ID)
}
