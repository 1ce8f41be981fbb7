package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Store = (*MemoryStore)(nil)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("")

	key := []byte("message-1")
	data := []byte("hello blob world")

	require.NoError(t, m.Put(ctx, key, data))

	got, err := m.Get(ctx, key, FullRange())
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestMemoryStore_GetAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("")

	got, err := m.Get(ctx, []byte("never-put"), FullRange())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_GetRange(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("")

	key := []byte("ranged")
	require.NoError(t, m.Put(ctx, key, []byte("0123456789")))

	t.Run("Middle", func(t *testing.T) {
		got, err := m.Get(ctx, key, NewRange(2, 7))
		require.NoError(t, err)
		assert.Equal(t, []byte("23456"), got)
	})

	t.Run("OpenEnd", func(t *testing.T) {
		got, err := m.Get(ctx, key, Range{Start: 5})
		require.NoError(t, err)
		assert.Equal(t, []byte("56789"), got)
	})

	t.Run("EndClampedToSize", func(t *testing.T) {
		got, err := m.Get(ctx, key, NewRange(8, 100))
		require.NoError(t, err)
		assert.Equal(t, []byte("89"), got)
	})

	t.Run("StartBeyondSize", func(t *testing.T) {
		got, err := m.Get(ctx, key, NewRange(50, 60))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("")

	key := []byte("doomed")
	require.NoError(t, m.Put(ctx, key, []byte("x")))

	deleted, err := m.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := m.Get(ctx, key, FullRange())
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err = m.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("")

	key := []byte("k")
	require.NoError(t, m.Put(ctx, key, []byte("old")))
	require.NoError(t, m.Put(ctx, key, []byte("new")))

	got, err := m.Get(ctx, key, FullRange())
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryStore_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryStore("tenant-a/")
	b := NewMemoryStore("tenant-b/")

	key := []byte("shared-key")
	require.NoError(t, a.Put(ctx, key, []byte("a-data")))
	require.NoError(t, b.Put(ctx, key, []byte("b-data")))

	got, err := a.Get(ctx, key, FullRange())
	require.NoError(t, err)
	assert.Equal(t, []byte("a-data"), got)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("")

	data := []byte("immutable")
	require.NoError(t, m.Put(ctx, []byte("k"), data))
	data[0] = 'X'

	got, err := m.Get(ctx, []byte("k"), FullRange())
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), got)

	got[1] = 'Y'
	again, err := m.Get(ctx, []byte("k"), FullRange())
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), again)
}
