package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_PutGetListOrder(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Put(ctx, "Scenario/b", []byte("2")))
	require.NoError(t, fs.Put(ctx, "Scenario/a", []byte("1")))

	entries, err := fs.ListPrefix(ctx, "Scenario/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Scenario/b", entries[0].Key)
	assert.Equal(t, "Scenario/a", entries[1].Key)
}

func TestFS_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs1, err := NewFS(dir)
	require.NoError(t, err)
	require.NoError(t, fs1.Put(ctx, "Scenario/hello", []byte("world")))

	fs2, err := NewFS(dir)
	require.NoError(t, err)

	v, err := fs2.Get(ctx, "Scenario/hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), v)
}

func TestFS_GetMissingIsNotFound(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)
	_, err = fs.Get(context.Background(), "Scenario/missing")
	assert.True(t, IsNotFound(err))
}

func TestFS_WatchNotifiesExternalWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	changed := make(chan string, 1)
	require.NoError(t, fs.Watch(ctx, func(key string) {
		select {
		case changed <- key:
		default:
		}
	}))

	require.NoError(t, fs.Put(ctx, "Scenario/watched", []byte("x")))

	select {
	case key := <-changed:
		assert.Equal(t, "Scenario/watched", key)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch notification")
	}
}

func TestFS_WatchFallsBackToFilenameForUnindexedFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	fs, err := NewFS(dir)
	require.NoError(t, err)

	changed := make(chan string, 1)
	require.NoError(t, fs.Watch(ctx, func(key string) {
		select {
		case changed <- key:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hand-edited.yaml"), []byte("x"), 0o644))

	select {
	case key := <-changed:
		assert.Equal(t, "hand-edited", key)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch notification")
	}
}
