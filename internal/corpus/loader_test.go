package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StyNW7/Zenium/internal/config"
	"github.com/StyNW7/Zenium/pkg/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadMergesAllSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "intents.json", `{"intents": [
		{"tag": "greeting", "patterns": ["Hi", "Hello"], "responses": ["Hey there.", "unused"]}
	]}`)
	writeFile(t, dir, "train1.csv", "Context,Response\nI feel anxious,Let's breathe together.\n")
	writeFile(t, dir, "train2.csv", "conversations\n\"[{'from': 'human', 'value': 'rough day'}, {'from': 'assistant', 'value': 'Tell me about it.'}]\"\n")
	writeFile(t, dir, "combined.json", `[{"Context": "cannot sleep", "Response": "That sounds exhausting."}]`)
	writeFile(t, dir, "memory.jsonl", `{"input": "thanks", "response": "You're welcome.", "t": 1.0}`+"\n")

	loader := NewLoader(config.CorpusConfig{
		DataDir:      dir,
		IntentsFile:  "intents.json",
		Train1File:   "train1.csv",
		Train2File:   "train2.csv",
		CombinedFile: "combined.json",
		FeedbackFile: "memory.jsonl",
	})
	entries := loader.Load()

	require.Len(t, entries, 6)
	// Intent patterns fan out to the first response.
	assert.Equal(t, models.CorpusEntry{Query: "hi", Response: "Hey there."}, entries[0])
	assert.Equal(t, models.CorpusEntry{Query: "hello", Response: "Hey there."}, entries[1])
	assert.Equal(t, "i feel anxious", entries[2].Query)
	assert.Equal(t, "rough day", entries[3].Query)
	assert.Equal(t, "cannot sleep", entries[4].Query)
	assert.Equal(t, "thanks", entries[5].Query)
}

func TestLoadMissingSourcesNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train1.csv", "Context,Response\nhello,hi there\n")

	loader := NewLoader(config.CorpusConfig{
		DataDir:      dir,
		IntentsFile:  "nope.json",
		Train1File:   "train1.csv",
		Train2File:   "nope.csv",
		CombinedFile: "nope2.json",
		FeedbackFile: "nope.jsonl",
	})
	entries := loader.Load()
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Query)
}

func TestLoadMalformedSourceSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "intents.json", "{not json at all")
	writeFile(t, dir, "combined.json", `[{"Context": "q", "Response": "r"}]`)

	loader := NewLoader(config.CorpusConfig{
		DataDir:      dir,
		IntentsFile:  "intents.json",
		CombinedFile: "combined.json",
	})
	entries := loader.Load()
	require.Len(t, entries, 1)
	assert.Equal(t, "q", entries[0].Query)
}

func TestLoadEmptyCorpusIsValid(t *testing.T) {
	loader := NewLoader(config.CorpusConfig{DataDir: t.TempDir()})
	assert.Empty(t, loader.Load())
}

func TestLoadIntentsPerTagCap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "intents.json", `{"intents": [
		{"tag": "t", "patterns": ["a", "b", "c", "d"], "responses": ["r"]}
	]}`)

	loader := NewLoader(config.CorpusConfig{DataDir: dir, IntentsFile: "intents.json", MaxPerTag: 2})
	entries := loader.Load()
	assert.Len(t, entries, 2)
}

func TestLoadTabularMaxRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train1.csv", "Context,Response\nq1,r1\nq2,r2\nq3,r3\n")

	loader := NewLoader(config.CorpusConfig{DataDir: dir, Train1File: "train1.csv", MaxRows: 2})
	assert.Len(t, loader.Load(), 2)
}

func TestLoadCombinedSingleObject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "combined.json", `{"Context": "solo", "Response": "entry"}`)

	loader := NewLoader(config.CorpusConfig{DataDir: dir, CombinedFile: "combined.json"})
	entries := loader.Load()
	require.Len(t, entries, 1)
	assert.Equal(t, "solo", entries[0].Query)
}

func TestDedup(t *testing.T) {
	pairs := []models.CorpusEntry{
		{Query: "Hello World", Response: "first"},
		{Query: "hello   world", Response: "first"}, // same after normalization
		{Query: "hello world", Response: "second"},  // same query, different response: kept
		{Query: "", Response: "dropped"},
		{Query: "dropped", Response: "  "},
	}
	cleaned := Dedup(pairs)
	require.Len(t, cleaned, 2)
	assert.Equal(t, models.CorpusEntry{Query: "hello world", Response: "first"}, cleaned[0])
	assert.Equal(t, models.CorpusEntry{Query: "hello world", Response: "second"}, cleaned[1])
}
