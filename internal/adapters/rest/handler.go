// Package rest is the HTTP adapter: it translates requests into service
// calls and results into JSON.
package rest

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/voiceshield-labs/voiceshield/backend/internal/auth"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/services"
	"github.com/voiceshield-labs/voiceshield/backend/internal/worker"
)

// Handler manages the HTTP interface for the application.
type Handler struct {
	accounts *services.Accounts
	library  *services.Library
	tokens   *auth.TokenService
	pool     *worker.Pool
	log      zerolog.Logger
	router   *http.ServeMux

	// autoAnalyze queues a background analysis after each upload.
	autoAnalyze bool
}

// NewHandler initializes the HTTP adapter and sets up routes. pool may
// be nil when background analysis is disabled.
func NewHandler(accounts *services.Accounts, library *services.Library, tokens *auth.TokenService, pool *worker.Pool, autoAnalyze bool, log zerolog.Logger) *Handler {
	h := &Handler{
		accounts:    accounts,
		library:     library,
		tokens:      tokens,
		pool:        pool,
		log:         log,
		router:      http.NewServeMux(),
		autoAnalyze: autoAnalyze && pool != nil,
	}
	h.routes()
	return h
}

// ServeHTTP satisfies http.Handler by proxying to the internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)

	h.router.HandleFunc("POST /api/auth/signup", h.SignUp)
	h.router.HandleFunc("POST /api/auth/login", h.Login)

	h.router.HandleFunc("POST /api/voice/upload", h.requireAuth(h.Upload))
	h.router.HandleFunc("POST /api/voice/analyze/{id}", h.requireAuth(h.Analyze))
	h.router.HandleFunc("GET /api/voice/history", h.requireAuth(h.History))
	h.router.HandleFunc("GET /api/voice/files", h.requireAuth(h.Files))
	h.router.HandleFunc("DELETE /api/voice/files/{id}", h.requireAuth(h.DeleteFile))
}

// HealthCheck verifies the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == "application/json"
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
