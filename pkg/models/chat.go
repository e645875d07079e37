package models

import "time"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CorpusEntry is a single (query, response) grounding example. The query is
// stored normalized; the pair is unique within a loaded corpus.
type CorpusEntry struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Turn is one message in a session history.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the per-conversation state. History is append-only for the
// lifetime of the session.
type Session struct {
	ID        string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	History   []Turn    `json:"history"`
	Turns     int       `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
}

// CrisisMatch is the result of the safety gate. Computed fresh per message,
// never stored.
type CrisisMatch struct {
	Matched    bool     `json:"matched"`
	PatternIDs []string `json:"pattern_ids,omitempty"`
}

// RetrievedExample pairs a corpus entry with its similarity score for the
// current message. Scores are always strictly positive.
type RetrievedExample struct {
	Entry CorpusEntry `json:"entry"`
	Score float64     `json:"score"`
}

// Suggestion is a small coping step offered to the user.
type Suggestion struct {
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
}

// ChatEventType classifies events published to the event stream.
type ChatEventType string

const (
	EventTurn       ChatEventType = "turn"
	EventCrisis     ChatEventType = "crisis"
	EventFeedback   ChatEventType = "feedback"
	EventSuggestion ChatEventType = "suggestion"
)

// ChatEvent is the payload published for every notable pipeline outcome.
type ChatEvent struct {
	ID        string        `json:"id"`
	Type      ChatEventType `json:"type"`
	SessionID string        `json:"session_id"`
	UserID    string        `json:"user_id,omitempty"`
	Message   string        `json:"message,omitempty"`
	Response  string        `json:"response,omitempty"`
	Flags     []string      `json:"flags,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
