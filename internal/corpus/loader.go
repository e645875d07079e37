package corpus

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/StyNW7/Zenium/internal/config"
	"github.com/StyNW7/Zenium/pkg/models"
)

// Loader merges the heterogeneous example sources into one deduplicated
// corpus. Every source is independently optional: a missing or malformed
// file is logged and contributes zero entries, never an error. An entirely
// empty corpus is a valid result.
type Loader struct {
	cfg config.CorpusConfig
}

// NewLoader creates a loader for the configured sources.
func NewLoader(cfg config.CorpusConfig) *Loader {
	if cfg.MaxPerTag <= 0 {
		cfg.MaxPerTag = 10
	}
	return &Loader{cfg: cfg}
}

// Load reads all sources and returns the deduplicated corpus,
// preserving first-seen order.
func (l *Loader) Load() []models.CorpusEntry {
	var pairs []models.CorpusEntry

	type source struct {
		name string
		load func() ([]models.CorpusEntry, error)
	}
	sources := []source{
		{l.cfg.IntentsFile, l.loadIntents},
		{l.cfg.Train1File, l.loadTabular},
		{l.cfg.Train2File, l.loadConversations},
		{l.cfg.CombinedFile, l.loadCombined},
		{l.cfg.FeedbackFile, l.loadFeedback},
	}

	for _, src := range sources {
		entries, err := src.load()
		if err != nil {
			log.Printf("Corpus source %s skipped: %v", src.name, err)
			continue
		}
		pairs = append(pairs, entries...)
	}

	cleaned := Dedup(pairs)
	log.Printf("Loaded %d corpus entries from %d sources", len(cleaned), len(sources))
	return cleaned
}

// Dedup normalizes queries, drops entries with an empty side, and removes
// duplicate (normalized query, response) pairs, keeping first-seen order.
func Dedup(pairs []models.CorpusEntry) []models.CorpusEntry {
	type key struct{ q, r string }
	seen := make(map[key]bool, len(pairs))
	cleaned := make([]models.CorpusEntry, 0, len(pairs))
	for _, p := range pairs {
		q := Normalize(p.Query)
		r := strings.TrimSpace(p.Response)
		if q == "" || r == "" {
			continue
		}
		k := key{q, r}
		if seen[k] {
			continue
		}
		seen[k] = true
		cleaned = append(cleaned, models.CorpusEntry{Query: q, Response: r})
	}
	return cleaned
}

func (l *Loader) path(name string) string {
	if name == "" {
		return ""
	}
	if l.cfg.DataDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.cfg.DataDir, name)
}

// loadIntents reads pattern/response intent definitions. Each pattern
// fans out to the intent's first response, capped per tag to bound the
// corpus.
func (l *Loader) loadIntents() ([]models.CorpusEntry, error) {
	path := l.path(l.cfg.IntentsFile)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Intents []struct {
			Tag       string   `json:"tag"`
			Patterns  []string `json:"patterns"`
			Responses []string `json:"responses"`
		} `json:"intents"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var entries []models.CorpusEntry
	for _, intent := range doc.Intents {
		response := "I'm listening."
		if len(intent.Responses) > 0 {
			response = intent.Responses[0]
		}
		count := 0
		for _, pattern := range intent.Patterns {
			if count >= l.cfg.MaxPerTag {
				break
			}
			entries = append(entries, models.CorpusEntry{Query: pattern, Response: response})
			count++
		}
	}
	return entries, nil
}

// loadTabular reads the two-column Context/Response CSV, optionally
// capped to the first MaxRows rows.
func (l *Loader) loadTabular() ([]models.CorpusEntry, error) {
	path := l.path(l.cfg.Train1File)
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	ctxCol, respCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Context":
			ctxCol = i
		case "Response":
			respCol = i
		}
	}
	if ctxCol < 0 || respCol < 0 {
		return nil, nil
	}

	var entries []models.CorpusEntry
	for {
		if l.cfg.MaxRows > 0 && len(entries) >= l.cfg.MaxRows {
			break
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip malformed rows, keep the rest of the file.
			continue
		}
		if ctxCol >= len(row) || respCol >= len(row) {
			continue
		}
		entries = append(entries, models.CorpusEntry{
			Query:    strings.TrimSpace(row[ctxCol]),
			Response: strings.TrimSpace(row[respCol]),
		})
	}
	return entries, nil
}

// loadConversations reads the nested conversation-turn CSV, tolerantly
// parsing each cell and pairing adjacent human/assistant turns.
func (l *Loader) loadConversations() ([]models.CorpusEntry, error) {
	path := l.path(l.cfg.Train2File)
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	convCol := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "conversations" {
			convCol = i
		}
	}
	if convCol < 0 {
		return nil, nil
	}

	var entries []models.CorpusEntry
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if convCol >= len(row) {
			continue
		}
		for _, pair := range PairTurns(ParseConversations(row[convCol])) {
			entries = append(entries, models.CorpusEntry{Query: pair[0], Response: pair[1]})
		}
	}
	return entries, nil
}

// loadCombined reads the structured Context/Response JSON, accepting
// either an array or a single object.
func (l *Loader) loadCombined() ([]models.CorpusEntry, error) {
	path := l.path(l.cfg.CombinedFile)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	type item struct {
		Context  string `json:"Context"`
		Response string `json:"Response"`
	}
	var items []item
	if err := json.Unmarshal(data, &items); err != nil {
		var single item
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, err
		}
		items = []item{single}
	}

	entries := make([]models.CorpusEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, models.CorpusEntry{Query: it.Context, Response: it.Response})
	}
	return entries, nil
}

// loadFeedback reads the accumulated feedback log, one JSON record per
// line. Unparseable lines are skipped.
func (l *Loader) loadFeedback() ([]models.CorpusEntry, error) {
	path := l.path(l.cfg.FeedbackFile)
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []models.CorpusEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec struct {
			Input    string `json:"input"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		entries = append(entries, models.CorpusEntry{Query: rec.Input, Response: rec.Response})
	}
	return entries, scanner.Err()
}
