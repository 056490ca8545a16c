package api

import (
	"github.com/gorilla/mux"

	"github.com/talentscout/screener/internal/config"
	"github.com/talentscout/screener/internal/interview"
	"github.com/talentscout/screener/pkg/repository"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, manager *interview.Manager, store repository.CandidateStore) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.TokenDuration)
	sessionsHandler := NewSessionsHandler(manager)
	adminHandler := NewAdminHandler(store)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/admin/signin", authHandler.Signin).Methods("POST")

	// Candidate-facing session endpoints: open, candidates never authenticate
	r.HandleFunc("/v1/sessions", sessionsHandler.CreateSession).Methods("POST")
	r.HandleFunc("/v1/sessions/{id}", sessionsHandler.GetSession).Methods("GET")
	r.HandleFunc("/v1/sessions/{id}", sessionsHandler.DeleteSession).Methods("DELETE")
	r.HandleFunc("/v1/sessions/{id}/messages", sessionsHandler.PostMessage).Methods("POST")

	// Recruiter endpoints behind JWT
	adminV1 := r.PathPrefix("/v1/admin").Subrouter()
	adminV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))
	adminV1.HandleFunc("/candidates", adminHandler.ListCandidates).Methods("GET")
	adminV1.HandleFunc("/candidates/export", adminHandler.ExportCandidates).Methods("GET")
	adminV1.HandleFunc("/candidates/{id}/anonymize", adminHandler.AnonymizeCandidate).Methods("POST")
	adminV1.HandleFunc("/candidates/purge", adminHandler.PurgeCandidates).Methods("POST")

	return r
}
