package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/talentscout/screener/pkg/repository"
)

// AdminHandler serves the recruiter-facing record operations. Every route it
// handles sits behind the JWT middleware.
type AdminHandler struct {
	store repository.CandidateStore
}

func NewAdminHandler(store repository.CandidateStore) *AdminHandler {
	return &AdminHandler{store: store}
}

func (h *AdminHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Load(r.Context())
	if err != nil {
		http.Error(w, "failed to load candidates", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"total": len(records),
		"items": records,
	}, http.StatusOK)
}

var exportHeader = []string{
	"id", "name", "email", "phone", "experience_years", "desired_position",
	"location", "tech_stack", "questions_answered", "session_completed",
	"anonymized", "timestamp", "completion_time",
}

func (h *AdminHandler) ExportCandidates(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Load(r.Context())
	if err != nil {
		http.Error(w, "failed to load candidates", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="candidates.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		logger.Error("csv write", slog.Any("err", err))
		return
	}
	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Name,
			rec.Email,
			rec.Phone,
			strconv.Itoa(rec.ExperienceYears),
			rec.DesiredPosition,
			rec.Location,
			strings.Join(rec.TechStack, "; "),
			strconv.Itoa(len(rec.TechnicalResponses)),
			strconv.FormatBool(rec.SessionCompleted),
			strconv.FormatBool(rec.Anonymized),
			rec.Timestamp,
			rec.CompletionTime,
		}
		if err := cw.Write(row); err != nil {
			logger.Error("csv write", slog.Any("err", err))
			return
		}
	}
	cw.Flush()
}

func (h *AdminHandler) AnonymizeCandidate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.Anonymize(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "candidate not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to anonymize candidate", http.StatusInternalServerError)
		return
	}

	logger.Info("candidate anonymized", slog.String("id", id))
	writeJSON(w, map[string]any{"id": id, "anonymized": true}, http.StatusOK)
}

func (h *AdminHandler) PurgeCandidates(w http.ResponseWriter, r *http.Request) {
	days := 365
	if d := r.URL.Query().Get("days"); d != "" {
		v, err := strconv.Atoi(d)
		if err != nil || v <= 0 {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		days = v
	}

	removed, err := h.store.PurgeOlderThan(r.Context(), days)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to purge candidates: %v", err), http.StatusInternalServerError)
		return
	}

	logger.Info("candidates purged", slog.Int("days", days), slog.Int("removed", removed))
	writeJSON(w, map[string]any{"days": days, "removed": removed}, http.StatusOK)
}
