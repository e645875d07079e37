package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StyNW7/Zenium/pkg/models"
)

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index_store.gob")
	cache := NewCache(path)

	ix := Build([]models.CorpusEntry{
		{Query: "i feel anxious", Response: "Let's breathe together."},
		{Query: "cannot sleep", Response: "That sounds exhausting."},
	})
	require.NoError(t, cache.Save(ix))
	assert.True(t, cache.Exists())

	loaded := cache.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, ix.Entries, loaded.Entries)
	assert.Equal(t, ix.Vocab, loaded.Vocab)
	assert.Equal(t, ix.IDF, loaded.IDF)
	assert.Equal(t, ix.Rows, loaded.Rows)
}

func TestCacheLoadMissing(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "absent.gob"))
	assert.Nil(t, cache.Load())
	assert.False(t, cache.Exists())
}

func TestCacheLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index_store.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob artifact"), 0o644))

	cache := NewCache(path)
	assert.Nil(t, cache.Load())
}

func TestCacheInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index_store.gob")
	cache := NewCache(path)

	ix := Build([]models.CorpusEntry{{Query: "hello", Response: "hi"}})
	require.NoError(t, cache.Save(ix))
	require.True(t, cache.Exists())

	require.NoError(t, cache.Invalidate())
	assert.False(t, cache.Exists())
	assert.Nil(t, cache.Load())

	// Invalidating again is not an error.
	assert.NoError(t, cache.Invalidate())
}
