package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/state"
)

func sampleSave(id, name string, savedAt time.Time) SaveData {
	return SaveData{
		ID:         id,
		Name:       name,
		StoryTitle: "The Hermit's Cave",
		SavedAt:    savedAt,
		State: state.Snapshot{
			CurrentLocation: "cave_mouth",
			TurnCount:       7,
			EntityStates:    map[string]map[string]any{"chest": {"searched": true}},
			Counters:        map[string]int{"lamp_oil": 3},
			Flags:           map[string]bool{"met_hermit": true},
			RecentActions:   []string{"take lantern", "go north"},
			Conversations:   map[string][]state.ConversationEntry{},
		},
		Inventories: map[string][]string{
			"player": {"lantern"},
			"hermit": {"map_scrap"},
		},
		Placements: map[string]Placement{
			"lantern": {},
			"chest":   {ParentID: "cave_mouth", Location: "cave_mouth", Locked: true},
		},
		Presence: map[string][]string{"fog": {"cave_mouth", "trail"}},
	}
}

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	data := sampleSave(NewSaveID(), "before the cave", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, store.Save(ctx, data))
	loaded, err := store.Load(ctx, data.ID)
	require.NoError(t, err)
	assert.Equal(t, data, loaded)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := newFileStore(t)
	_, err := store.Load(context.Background(), NewSaveID())
	assert.ErrorIs(t, err, ErrSaveNotFound)
}

func TestFileStoreRejectsPathlikeID(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	_, err := store.Load(ctx, "../escape")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSaveNotFound)
	require.Error(t, store.Save(ctx, SaveData{ID: "a/b"}))
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	data := sampleSave(NewSaveID(), "first", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, data))

	data.Name = "second"
	data.State.TurnCount = 12
	require.NoError(t, store.Save(ctx, data))

	loaded, err := store.Load(ctx, data.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Name)
	assert.Equal(t, 12, loaded.State.TurnCount)

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestFileStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	older := sampleSave(NewSaveID(), "older", time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	newer := sampleSave(NewSaveID(), "newer", time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, older.ID, summaries[1].ID)
	assert.Equal(t, 7, summaries[0].TurnCount)
}

func TestFileStoreLatest(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, ErrSaveNotFound)

	older := sampleSave(NewSaveID(), "older", time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	newer := sampleSave(NewSaveID(), "newer", time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	data := sampleSave(NewSaveID(), "doomed", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, data))

	require.NoError(t, store.Delete(ctx, data.ID))
	_, err := store.Load(ctx, data.ID)
	assert.ErrorIs(t, err, ErrSaveNotFound)
	assert.ErrorIs(t, store.Delete(ctx, data.ID), ErrSaveNotFound)
}

func TestFileStoreListSkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	good := sampleSave(NewSaveID(), "good", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, good))

	path, err := store.path("corrupt")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, good.ID, summaries[0].ID)
}
