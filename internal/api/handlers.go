package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/StyNW7/Zenium/internal/session"
)

type chatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type suggestionRequest struct {
	SessionID string `json:"session_id"`
}

type feedbackRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
	Feedback  string `json:"feedback"`
}

func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := g.engine.Chat(r.Context(), req.UserID, req.SessionID, req.Message)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (g *Gateway) handleAcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := g.engine.AcceptSuggestion(r.Context(), req.SessionID)
	if err == session.ErrNotFound {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (g *Gateway) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" || strings.TrimSpace(req.Feedback) == "" {
		writeError(w, http.StatusBadRequest, "session_id and feedback are required")
		return
	}

	result, err := g.engine.Feedback(r.Context(), req.SessionID, req.Feedback)
	if err == session.ErrNotFound {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (g *Gateway) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s, err := g.engine.Session(r.Context(), id)
	if err == session.ErrNotFound {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (g *Gateway) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := g.engine.DeleteSession(r.Context(), id)
	if err == session.ErrNotFound {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (g *Gateway) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	sessions, err := g.engine.Sessions(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

func (g *Gateway) handleMetrics(w http.ResponseWriter, r *http.Request) {
	g.metrics.mu.Lock()
	defer g.metrics.mu.Unlock()
	writeJSON(w, http.StatusOK, g.metrics)
}
