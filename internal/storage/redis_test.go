package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)
	data := sampleSave(NewSaveID(), "before the cave", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, store.Save(ctx, data))
	loaded, err := store.Load(ctx, data.ID)
	require.NoError(t, err)
	assert.Equal(t, data, loaded)
}

func TestRedisStoreLoadMissing(t *testing.T) {
	store := newRedisStore(t)
	_, err := store.Load(context.Background(), NewSaveID())
	assert.ErrorIs(t, err, ErrSaveNotFound)
}

func TestRedisStoreRejectsEmptyID(t *testing.T) {
	store := newRedisStore(t)
	require.Error(t, store.Save(context.Background(), SaveData{}))
}

func TestRedisStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)
	older := sampleSave(NewSaveID(), "older", time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	newer := sampleSave(NewSaveID(), "newer", time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, older.ID, summaries[1].ID)
}

func TestRedisStoreSaveMovesIndexEntry(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)
	a := sampleSave(NewSaveID(), "a", time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	b := sampleSave(NewSaveID(), "b", time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, a))
	require.NoError(t, store.Save(ctx, b))

	// Re-saving a with a later timestamp promotes it past b.
	a.SavedAt = time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, a))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, latest.ID)

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, a.ID, summaries[0].ID)
}

func TestRedisStoreLatestEmpty(t *testing.T) {
	store := newRedisStore(t)
	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, ErrSaveNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)
	data := sampleSave(NewSaveID(), "doomed", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, data))

	require.NoError(t, store.Delete(ctx, data.ID))
	_, err := store.Load(ctx, data.ID)
	assert.ErrorIs(t, err, ErrSaveNotFound)
	assert.ErrorIs(t, store.Delete(ctx, data.ID), ErrSaveNotFound)

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
