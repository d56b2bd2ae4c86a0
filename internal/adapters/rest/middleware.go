package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/voiceshield-labs/voiceshield/backend/internal/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// requireAuth rejects requests without a valid Bearer token and stashes
// the verified claims in the request context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Token is missing")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			writeError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := h.tokens.Verify(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// userID returns the authenticated user's id from the request context.
func userID(r *http.Request) int64 {
	if claims, ok := r.Context().Value(claimsKey).(auth.Claims); ok {
		return claims.UserID
	}
	return 0
}
