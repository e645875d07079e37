package feedback

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StyNW7/Zenium/internal/config"
	"github.com/StyNW7/Zenium/internal/corpus"
	"github.com/StyNW7/Zenium/internal/index"
	"github.com/StyNW7/Zenium/pkg/models"
)

func readRecords(t *testing.T, path string) []record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	return records
}

func TestAcceptAppendsOneRecordAndInvalidates(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "user_memory.jsonl")
	cache := index.NewCache(filepath.Join(dir, "index_store.gob"))

	require.NoError(t, cache.Save(index.Build([]models.CorpusEntry{{Query: "q", Response: "r"}})))
	require.True(t, cache.Exists())

	store := NewStore(logPath, cache)
	require.NoError(t, store.Accept("that helped", "I'm glad."))

	records := readRecords(t, logPath)
	require.Len(t, records, 1)
	assert.Equal(t, "that helped", records[0].Input)
	assert.Equal(t, "I'm glad.", records[0].Response)
	assert.Greater(t, records[0].T, 0.0)

	// The cached artifact is gone.
	assert.False(t, cache.Exists())
}

func TestAcceptedExampleJoinsCorpusOnReload(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "user_memory.jsonl")

	loader := corpus.NewLoader(config.CorpusConfig{
		DataDir:      dir,
		FeedbackFile: "user_memory.jsonl",
	})
	before := len(loader.Load())

	store := NewStore(logPath, nil)
	require.NoError(t, store.Accept("new example query", "new example response"))

	after := loader.Load()
	require.Len(t, after, before+1)
	assert.Equal(t, "new example query", after[len(after)-1].Query)
}

func TestAcceptAppendsNotTruncates(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "user_memory.jsonl")
	store := NewStore(logPath, nil)

	require.NoError(t, store.Accept("first", "r1"))
	require.NoError(t, store.Accept("second", "r2"))

	records := readRecords(t, logPath)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Input)
	assert.Equal(t, "second", records[1].Input)
}
