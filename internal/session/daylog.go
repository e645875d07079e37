package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/StyNW7/Zenium/pkg/models"
)

// Record is one logged turn. The disk log is unbounded and append-only;
// only the in-memory history window is bounded.
type Record struct {
	T         float64 `json:"t"`
	Role      string  `json:"role"`
	Text      string  `json:"text"`
	UserID    string  `json:"user_id,omitempty"`
	SessionID string  `json:"session_id,omitempty"`
	Phase     string  `json:"phase,omitempty"`
}

// DayLog appends every turn to a per-day JSON-lines file.
type DayLog struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewDayLog creates a log writing under dir.
func NewDayLog(dir string) *DayLog {
	return &DayLog{dir: dir, now: time.Now}
}

// Append writes one record to today's log file.
func (l *DayLog) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	now := l.now()
	if rec.T == 0 {
		rec.T = float64(now.UnixNano()) / float64(time.Second)
	}
	path := filepath.Join(l.dir, fmt.Sprintf("session_%s.jsonl", now.Format("20060102")))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening session log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// ExportSummary writes a plain-text transcript of the session and returns
// the file path.
func (l *DayLog) ExportSummary(s *models.Session) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating session dir: %w", err)
	}

	path := filepath.Join(l.dir, fmt.Sprintf("summary_%s_%d.txt", s.ID, l.now().Unix()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating summary file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "Session summary for %s (Session: %s)\n\n", s.UserID, s.ID)
	for _, t := range s.History {
		role := "Therapist"
		if t.Role == models.RoleUser {
			role = "User"
		}
		fmt.Fprintf(f, "%s: %s\n\n", role, t.Content)
	}
	return path, nil
}
