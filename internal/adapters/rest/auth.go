package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

// SignUp handles POST /api/auth/signup
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.accounts.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.log.Error().Err(err).Msg("signup failed")
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		Token:   token,
		User:    userPayload{ID: user.ID, Email: user.Email},
	})
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    userPayload{ID: user.ID, Email: user.Email},
	})
}
