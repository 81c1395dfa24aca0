package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, path string, clock clockwork.Clock) *ResponseStore {
	t.Helper()
	store, err := NewResponseStore(path, clock)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestResponseStore_PutGet(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := newStore(t, filepath.Join(t.TempDir(), "nested", "cache.db"), clockwork.NewFakeClockAt(now))
	ctx := context.Background()

	_, _, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	expires := now.Add(6 * time.Minute)
	require.NoError(t, store.Put(ctx, "k", []byte(`{"a":1}`), expires))

	body, exp, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), body)
	assert.True(t, exp.Equal(expires.Truncate(time.Millisecond)))

	require.NoError(t, store.Put(ctx, "k", []byte(`{"a":2}`), expires))
	body, _, _, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":2}`), body)
}

func TestResponseStore_ExpiredRowsAreHiddenAndPurged(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	store := newStore(t, filepath.Join(t.TempDir(), "cache.db"), clock)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "old", []byte("x"), now.Add(time.Minute)))
	require.NoError(t, store.Put(ctx, "new", []byte("y"), now.Add(time.Hour)))

	clock.Advance(2 * time.Minute)

	_, _, ok, err := store.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, _, ok, err = store.Get(ctx, "new")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResponseStore_SurvivesReopen(t *testing.T) {
	now := time.Now()
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first, err := NewResponseStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "k", []byte("v"), now.Add(time.Hour)))
	require.NoError(t, first.Close())

	second := newStore(t, path, clockwork.NewFakeClockAt(now))
	body, _, ok, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), body)
}

func TestNewResponseStore_EmptyPath(t *testing.T) {
	_, err := NewResponseStore("", nil)
	assert.Error(t, err)
}
