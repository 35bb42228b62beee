package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fserr "github.com/msto63/forsure/foundation/core/error"
	"github.com/msto63/forsure/internal/materializer"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Config{Path: filepath.Join(t.TempDir(), "history", "runs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func report(id string, started time.Time) *materializer.Report {
	return &materializer.Report{
		RunID:      id,
		Source:     "project.fs",
		BaseDir:    "/tmp/out",
		StartedAt:  started,
		FinishedAt: started.Add(15 * time.Millisecond),
		Entries: []materializer.Entry{
			{Kind: materializer.KindDirectory, Path: "src", Action: materializer.ActionCreate, Item: "src"},
			{Kind: materializer.KindFile, Path: "src/main.go", Action: materializer.ActionCreate, Item: "main.go"},
			{Kind: materializer.KindFile, Path: "README.md", Action: materializer.ActionSkip},
		},
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	started := time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, report("a1b2c3", started)))

	run, err := store.Get(ctx, "a1b2c3")
	require.NoError(t, err)

	assert.Equal(t, "a1b2c3", run.ID)
	assert.Equal(t, "project.fs", run.Source)
	assert.Equal(t, "/tmp/out", run.OutputDir)
	assert.False(t, run.DryRun)
	assert.Equal(t, 2, run.Created)
	assert.Equal(t, 1, run.Skipped)
	assert.True(t, started.Equal(run.StartedAt), "started_at = %v", run.StartedAt)
	assert.Equal(t, 15*time.Millisecond, run.FinishedAt.Sub(run.StartedAt))

	require.Len(t, run.Entries, 3)
	assert.Equal(t, "src/main.go", run.Entries[1].Path)
	assert.Equal(t, materializer.KindFile, run.Entries[1].Kind)
	assert.Equal(t, "main.go", run.Entries[1].Item)
	assert.Equal(t, materializer.ActionSkip, run.Entries[2].Action)
}

func TestStore_RecordAssignsID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	r := report("", time.Now())
	require.NoError(t, store.Record(ctx, r))
	assert.Len(t, r.RunID, 36)

	_, err := store.Get(ctx, r.RunID)
	assert.NoError(t, err)
}

func TestStore_GetByPrefix(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Record(ctx, report("abc-111", now)))
	require.NoError(t, store.Record(ctx, report("abc-222", now)))

	run, err := store.Get(ctx, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-222", run.ID)

	_, err = store.Get(ctx, "abc")
	assert.True(t, fserr.HasCode(err, fserr.CodeInvalidInput), "error = %v", err)

	_, err = store.Get(ctx, "zzz")
	assert.True(t, fserr.HasCode(err, fserr.CodeNotFound), "error = %v", err)

	_, err = store.Get(ctx, " ")
	assert.True(t, fserr.HasCode(err, fserr.CodeInvalidInput), "error = %v", err)
}

func TestStore_List(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, store.Record(ctx, report(id, base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "third", runs[0].ID)
	assert.Equal(t, "first", runs[2].ID)
	assert.Empty(t, runs[0].Entries)

	runs, err = store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStore_Prune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, report("old", time.Now().Add(-72*time.Hour))))
	require.NoError(t, store.Record(ctx, report("new", time.Now())))

	removed, err := store.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].ID)

	_, err = store.Get(ctx, "old")
	assert.True(t, fserr.HasCode(err, fserr.CodeNotFound))
}

func TestStore_DuplicateRun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, report("dup", time.Now())))
	err := store.Record(ctx, report("dup", time.Now()))
	assert.True(t, fserr.HasCode(err, fserr.CodeDatabaseError), "error = %v", err)
}
