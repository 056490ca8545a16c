package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/talentscout/screener/internal/interview"
)

// SessionsHandler exposes the conversational surface: create a session, send
// utterances, resume, and expire.
type SessionsHandler struct {
	manager *interview.Manager
}

func NewSessionsHandler(manager *interview.Manager) *SessionsHandler {
	return &SessionsHandler{manager: manager}
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Stage     string `json:"stage"`
}

func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, greeting := h.manager.Create()
	writeJSON(w, createSessionResponse{
		SessionID: sess.ID,
		Reply:     greeting,
		Stage:     sess.Machine.Stage().String(),
	}, http.StatusCreated)
}

type postMessageRequest struct {
	Message string `json:"message"`
}

func (h *SessionsHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	res := sess.Process(r.Context(), req.Message)
	writeJSON(w, res, http.StatusOK)
}

func (h *SessionsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	snap := sess.Snapshot()
	writeJSON(w, map[string]any{
		"session_id": sess.ID,
		"stage":      snap.Stage,
		"candidate":  snap.Candidate,
		"history":    snap.History,
		"sentiment":  snap.Sentiment,
	}, http.StatusOK)
}

func (h *SessionsHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Expire(mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to expire session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}
