// Package engine orchestrates the chat pipeline: safety gate, retrieval,
// prompt composition, generation, session state, logging and events.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/StyNW7/Zenium/internal/coping"
	"github.com/StyNW7/Zenium/internal/corpus"
	"github.com/StyNW7/Zenium/internal/events"
	"github.com/StyNW7/Zenium/internal/feedback"
	"github.com/StyNW7/Zenium/internal/generation"
	"github.com/StyNW7/Zenium/internal/index"
	"github.com/StyNW7/Zenium/internal/prompt"
	"github.com/StyNW7/Zenium/internal/retrieval"
	"github.com/StyNW7/Zenium/internal/safety"
	"github.com/StyNW7/Zenium/internal/session"
	"github.com/StyNW7/Zenium/pkg/models"
)

// Options holds the engine's collaborators. All fields except Publisher
// and Feedback are required.
type Options struct {
	Loader    *corpus.Loader
	Cache     *index.Cache
	Gate      *safety.Gate
	Composer  *prompt.Composer
	Chain     *generation.Chain
	Sessions  session.Repository
	DayLog    *session.DayLog
	Feedback  *feedback.Store
	Publisher events.Publisher

	TopK int
}

// Engine runs the conversational pipeline.
type Engine struct {
	opts Options

	// idx holds the current *index.Index. It is nil until first use and
	// reset to nil when feedback invalidates the cached artifact.
	idx     atomic.Value
	buildMu sync.Mutex

	sessionLocks sync.Map
}

type indexBox struct {
	ix *index.Index
}

// ChatResult is one completed exchange.
type ChatResult struct {
	Response     string             `json:"response"`
	SessionID    string             `json:"session_id"`
	Turns        int                `json:"turns"`
	RiskDetected bool               `json:"risk_detected"`
	Flags        []string           `json:"flags,omitempty"`
	OfferStep    bool               `json:"offer_step"`
	Suggestion   *models.Suggestion `json:"suggestion,omitempty"`
}

// FeedbackResult reports what a feedback message triggered.
type FeedbackResult struct {
	Saved       bool   `json:"saved"`
	SummaryPath string `json:"summary_path,omitempty"`
}

// New creates an engine. TopK falls back to a sane default when zero.
func New(opts Options) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NoopPublisher{}
	}
	e := &Engine{opts: opts}
	e.idx.Store(indexBox{})
	return e
}

// ensureIndex returns the current index, loading the cached artifact or
// rebuilding from the corpus on first use. Concurrent callers share one
// build.
func (e *Engine) ensureIndex() *index.Index {
	if box := e.idx.Load().(indexBox); box.ix != nil {
		return box.ix
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	if box := e.idx.Load().(indexBox); box.ix != nil {
		return box.ix
	}

	if ix := e.opts.Cache.Load(); ix != nil {
		log.Printf("Loaded cached index (%d entries)", ix.Size())
		e.idx.Store(indexBox{ix: ix})
		return ix
	}

	ix := index.Build(e.opts.Loader.Load())
	if err := e.opts.Cache.Save(ix); err != nil {
		log.Printf("Failed to save index artifact: %v", err)
	}
	log.Printf("Built index over %d corpus entries", ix.Size())
	e.idx.Store(indexBox{ix: ix})
	return ix
}

// invalidateIndex drops the in-memory index so the next request rebuilds
// over the updated corpus.
func (e *Engine) invalidateIndex() {
	e.idx.Store(indexBox{})
}

func (e *Engine) lockSession(id string) func() {
	v, _ := e.sessionLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (e *Engine) getOrCreateSession(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	if sessionID != "" {
		s, err := e.opts.Sessions.Get(ctx, sessionID)
		if err == nil {
			return s, nil
		}
		if err != session.ErrNotFound {
			return nil, err
		}
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	return &models.Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Chat handles one user message end to end.
func (e *Engine) Chat(ctx context.Context, userID, sessionID, message string) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is empty")
	}

	s, err := e.getOrCreateSession(ctx, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	unlock := e.lockSession(s.ID)
	defer unlock()

	// Safety gate runs before retrieval and generation. A crisis match
	// short-circuits the whole pipeline.
	if match := e.opts.Gate.Check(message); match.Matched {
		return e.handleCrisis(ctx, s, message, match)
	}

	retrieved := retrieval.Retrieve(e.ensureIndex(), message, e.opts.TopK)

	composed := e.opts.Composer.Compose(message, retrieved, s.History)
	reply := e.opts.Chain.Generate(ctx, generation.Request{
		System:    prompt.SystemInstructions,
		Prompt:    composed,
		Retrieved: retrieved,
	})

	e.appendTurns(s, message, reply)
	if err := e.opts.Sessions.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.logTurns(s, message, reply, "")
	e.publish(ctx, events.TopicTurns, models.ChatEvent{
		Type:      models.EventTurn,
		SessionID: s.ID,
		UserID:    s.UserID,
		Message:   message,
		Response:  reply,
		Timestamp: time.Now().UTC(),
	})

	result := &ChatResult{
		Response:  reply,
		SessionID: s.ID,
		Turns:     s.Turns,
	}
	if offerStep(message, s.Turns) {
		result.OfferStep = true
		suggestion := coping.StepFor(coping.DetectTheme(message))
		result.Suggestion = &suggestion
		e.publish(ctx, events.TopicSuggestions, models.ChatEvent{
			Type:      models.EventSuggestion,
			SessionID: s.ID,
			UserID:    s.UserID,
			Message:   suggestion.Title,
			Timestamp: time.Now().UTC(),
		})
	}
	return result, nil
}

// handleCrisis records the exchange and returns the fixed crisis
// response. No generation backend is invoked.
func (e *Engine) handleCrisis(ctx context.Context, s *models.Session, message string, match models.CrisisMatch) (*ChatResult, error) {
	reply := e.opts.Gate.CrisisMessage()

	e.appendTurns(s, message, reply)
	if err := e.opts.Sessions.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.logTurns(s, message, reply, "crisis")
	e.publish(ctx, events.TopicCrisis, models.ChatEvent{
		Type:      models.EventCrisis,
		SessionID: s.ID,
		UserID:    s.UserID,
		Message:   message,
		Flags:     match.PatternIDs,
		Timestamp: time.Now().UTC(),
	})

	return &ChatResult{
		Response:     reply,
		SessionID:    s.ID,
		Turns:        s.Turns,
		RiskDetected: true,
		Flags:        match.PatternIDs,
	}, nil
}

// AcceptSuggestion delivers the concrete coping step for the session's
// current theme.
func (e *Engine) AcceptSuggestion(ctx context.Context, sessionID string) (*ChatResult, error) {
	s, err := e.opts.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	unlock := e.lockSession(s.ID)
	defer unlock()

	theme := coping.ThemeGeneral
	if last := lastUserMessage(s); last != "" {
		theme = coping.DetectTheme(last)
	}
	step := coping.StepFor(theme)
	reply := fmt.Sprintf("Okay, a short step: %s. %s\n\nWould you like to name one small action you could try?",
		step.Title, step.Instruction)

	s.History = append(s.History, models.Turn{
		Role:      models.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	})
	if err := e.opts.Sessions.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	if e.opts.DayLog != nil {
		e.appendLog(session.Record{
			Role: models.RoleAssistant, Text: reply,
			UserID: s.UserID, SessionID: s.ID, Phase: "provide_step",
		})
	}

	return &ChatResult{
		Response:   reply,
		SessionID:  s.ID,
		Turns:      s.Turns,
		Suggestion: &step,
	}, nil
}

var positiveTokens = []string{"good", "thanks", "thank", "helpful", "great"}

// Feedback handles an explicit feedback message. "summary" exports a
// transcript; a positive token saves the last exchange as a training
// example and invalidates the cached index.
func (e *Engine) Feedback(ctx context.Context, sessionID, text string) (*FeedbackResult, error) {
	s, err := e.opts.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	normalized := corpus.Normalize(text)
	result := &FeedbackResult{}

	if strings.Contains(normalized, "summary") {
		if e.opts.DayLog == nil {
			return nil, fmt.Errorf("summary export is not configured")
		}
		path, err := e.opts.DayLog.ExportSummary(s)
		if err != nil {
			return nil, fmt.Errorf("exporting summary: %w", err)
		}
		result.SummaryPath = path
		e.publish(ctx, events.TopicFeedback, models.ChatEvent{
			Type:      models.EventFeedback,
			SessionID: s.ID,
			UserID:    s.UserID,
			Message:   text,
			Timestamp: time.Now().UTC(),
		})
		return result, nil
	}

	if !isPositive(normalized) {
		return result, nil
	}

	lastUser := lastUserMessage(s)
	lastAssistant := lastAssistantMessage(s)
	if lastUser == "" || lastAssistant == "" {
		return result, nil
	}
	if e.opts.Feedback == nil {
		return result, nil
	}
	if err := e.opts.Feedback.Accept(lastUser, lastAssistant); err != nil {
		return nil, fmt.Errorf("saving feedback: %w", err)
	}
	e.invalidateIndex()
	result.Saved = true

	e.publish(ctx, events.TopicFeedback, models.ChatEvent{
		Type:      models.EventFeedback,
		SessionID: s.ID,
		UserID:    s.UserID,
		Message:   text,
		Timestamp: time.Now().UTC(),
	})
	return result, nil
}

// Session returns a stored session.
func (e *Engine) Session(ctx context.Context, id string) (*models.Session, error) {
	return e.opts.Sessions.Get(ctx, id)
}

// DeleteSession removes a stored session.
func (e *Engine) DeleteSession(ctx context.Context, id string) error {
	return e.opts.Sessions.Delete(ctx, id)
}

// Sessions lists sessions, optionally filtered by user.
func (e *Engine) Sessions(ctx context.Context, userID string) ([]*models.Session, error) {
	return e.opts.Sessions.List(ctx, userID)
}

// CorpusSize reports how many entries the current index covers, building
// it if needed.
func (e *Engine) CorpusSize() int {
	return e.ensureIndex().Size()
}

func (e *Engine) appendTurns(s *models.Session, message, reply string) {
	now := time.Now().UTC()
	s.History = append(s.History,
		models.Turn{Role: models.RoleUser, Content: message, Timestamp: now},
		models.Turn{Role: models.RoleAssistant, Content: reply, Timestamp: now},
	)
	s.Turns++
}

func (e *Engine) logTurns(s *models.Session, message, reply, phase string) {
	if e.opts.DayLog == nil {
		return
	}
	e.appendLog(session.Record{
		Role: models.RoleUser, Text: message,
		UserID: s.UserID, SessionID: s.ID, Phase: phase,
	})
	e.appendLog(session.Record{
		Role: models.RoleAssistant, Text: reply,
		UserID: s.UserID, SessionID: s.ID, Phase: phase,
	})
}

func (e *Engine) appendLog(rec session.Record) {
	if err := e.opts.DayLog.Append(rec); err != nil {
		log.Printf("Failed to append session log: %v", err)
	}
}

func (e *Engine) publish(ctx context.Context, topic string, event models.ChatEvent) {
	event.ID = uuid.New().String()
	if err := e.opts.Publisher.Publish(ctx, topic, event); err != nil {
		log.Printf("Failed to publish %s event: %v", topic, err)
	}
}

// offerStep decides whether to attach a coping suggestion: an explicit
// ask for help, or a conversation that has gone on for a few turns.
func offerStep(message string, turns int) bool {
	normalized := corpus.Normalize(message)
	for _, kw := range []string{"help", "tolong", "bantu", "i need help"} {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return turns >= 3
}

func isPositive(normalized string) bool {
	for _, tok := range positiveTokens {
		if strings.Contains(normalized, tok) {
			return true
		}
	}
	return false
}

func lastUserMessage(s *models.Session) string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == models.RoleUser {
			return s.History[i].Content
		}
	}
	return ""
}

func lastAssistantMessage(s *models.Session) string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == models.RoleAssistant {
			return s.History[i].Content
		}
	}
	return ""
}
