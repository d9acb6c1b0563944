package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "Scenario/hello", []byte("a")))

	v, err := m.Get(ctx, "Scenario/hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), v)

	require.NoError(t, m.Delete(ctx, "Scenario/hello"))
	_, err = m.Get(ctx, "Scenario/hello")
	assert.True(t, IsNotFound(err))
}

func TestMemory_GetMissingIsNotFound(t *testing.T) {
	_, err := NewMemory().Get(context.Background(), "Scenario/missing")
	assert.True(t, IsNotFound(err))
}

func TestMemory_KeyValidation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	cases := []string{"", "has<bracket", "has{brace}", "has?q", "has>angle"}
	for _, key := range cases {
		err := m.Put(ctx, key, []byte("x"))
		assert.True(t, IsInvalidArgument(err), "key %q should be rejected", key)
	}
}

func TestMemory_ListPrefixIsCreationOrdered(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "Scenario/c", []byte("3")))
	require.NoError(t, m.Put(ctx, "Scenario/a", []byte("1")))
	require.NoError(t, m.Put(ctx, "Scenario/b", []byte("2")))
	// overwrite does not change creation order
	require.NoError(t, m.Put(ctx, "Scenario/c", []byte("3-updated")))

	entries, err := m.ListPrefix(ctx, "Scenario/")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Scenario/c", entries[0].Key)
	assert.Equal(t, "Scenario/a", entries[1].Key)
	assert.Equal(t, "Scenario/b", entries[2].Key)
	assert.Equal(t, []byte("3-updated"), entries[0].Value)
}

func TestMemory_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, "Model/a", []byte("1")))
	require.NoError(t, m.Put(ctx, "Model/b", []byte("2")))
	require.NoError(t, m.Put(ctx, "Package/a", []byte("3")))

	require.NoError(t, m.DeletePrefix(ctx, "Model/"))

	entries, err := m.ListPrefix(ctx, "Model/")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = m.ListPrefix(ctx, "Package/")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
