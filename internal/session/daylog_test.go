package session

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StyNW7/Zenium/pkg/models"
)

func TestDayLogAppend(t *testing.T) {
	dir := t.TempDir()
	l := NewDayLog(dir)
	fixed := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	require.NoError(t, l.Append(Record{Role: models.RoleUser, Text: "hello", SessionID: "s1"}))
	require.NoError(t, l.Append(Record{Role: models.RoleAssistant, Text: "hi", SessionID: "s1", Phase: "crisis"}))

	path := filepath.Join(dir, "session_20240315.jsonl")
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)
	assert.Equal(t, "hello", records[0].Text)
	assert.Greater(t, records[0].T, 0.0)
	assert.Equal(t, "crisis", records[1].Phase)
}

func TestDayLogSplitsByDay(t *testing.T) {
	dir := t.TempDir()
	l := NewDayLog(dir)

	day := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	l.now = func() time.Time { return day }
	require.NoError(t, l.Append(Record{Role: models.RoleUser, Text: "late"}))

	day = day.Add(2 * time.Minute)
	require.NoError(t, l.Append(Record{Role: models.RoleUser, Text: "early"}))

	assert.FileExists(t, filepath.Join(dir, "session_20240315.jsonl"))
	assert.FileExists(t, filepath.Join(dir, "session_20240316.jsonl"))
}

func TestExportSummary(t *testing.T) {
	dir := t.TempDir()
	l := NewDayLog(dir)

	s := &models.Session{
		ID:     "s1",
		UserID: "u1",
		History: []models.Turn{
			{Role: models.RoleUser, Content: "rough day"},
			{Role: models.RoleAssistant, Content: "Tell me about it."},
		},
	}
	path, err := l.ExportSummary(s)
	require.NoError(t, err)
	require.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "User: rough day")
	assert.Contains(t, content, "Therapist: Tell me about it.")
	assert.Contains(t, content, "s1")
}
