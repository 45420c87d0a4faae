package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/finance"
	"finance-tracker/internal/rates"
	"finance-tracker/internal/storage"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// IdentityContextKey is the context key for the caller identity.
	IdentityContextKey contextKey = "identity"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// RenewedTokenHeader carries a re-issued token after a rolling renewal.
	RenewedTokenHeader = "X-Renewed-Token"
	// DefaultSessionDuration is how long sessions last (30 days).
	DefaultSessionDuration = 30 * 24 * time.Hour

	maxBodyBytes = 1 << 16
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db              *storage.DB
	finance         *finance.Service
	rates           *rates.Cache
	tokens          *auth.Tokens
	secureCookie    bool
	sessionDuration time.Duration
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, cache *rates.Cache, tokens *auth.Tokens, secureCookie bool, sessionDuration time.Duration) *Handlers {
	if sessionDuration <= 0 {
		sessionDuration = DefaultSessionDuration
	}
	return &Handlers{
		db:              db,
		finance:         finance.NewService(db),
		rates:           cache,
		tokens:          tokens,
		secureCookie:    secureCookie,
		sessionDuration: sessionDuration,
	}
}

// IdentityFromContext returns the caller identity attached by AuthMiddleware,
// or finance.Anonymous.
func IdentityFromContext(r *http.Request) finance.Identity {
	if id, ok := r.Context().Value(IdentityContextKey).(finance.Identity); ok {
		return id
	}
	return finance.Anonymous
}

// AuthMiddleware resolves the caller's credentials into an identity. It
// accepts a bearer token, the session cookie or HTTP Basic credentials.
// Requests without valid credentials continue as anonymous; the finance
// service rejects them. Sessions past the halfway point of their lifetime
// are renewed.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := finance.Anonymous

		if token, fromCookie := h.sessionToken(r); token != "" {
			if username, ok := h.validateToken(r.Context(), w, token, fromCookie); ok {
				id = finance.Identity{Username: username, Authenticated: true}
			} else if fromCookie {
				h.clearSessionCookie(w)
			}
		} else if username, password, ok := r.BasicAuth(); ok {
			user, err := h.db.GetUserByUsername(r.Context(), username)
			if err == nil && auth.CheckPassword(password, user.PasswordHash) {
				id = finance.Identity{Username: user.Username, Authenticated: true}
			}
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handlers) sessionToken(r *http.Request) (token string, fromCookie bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1]), false
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

func (h *Handlers) validateToken(ctx context.Context, w http.ResponseWriter, token string, fromCookie bool) (string, bool) {
	claims, err := h.tokens.Parse(token)
	if err != nil {
		return "", false
	}

	sessionInfo, err := h.db.ValidateSessionWithInfo(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("ValidateSession error: %v", err)
		}
		return "", false
	}
	if sessionInfo.User.Username != claims.Username {
		return "", false
	}

	// Rolling session: renew if past halfway point
	now := time.Now()
	if sessionInfo.ExpiresAt.Sub(now) < h.sessionDuration/2 {
		newExpiresAt := now.Add(h.sessionDuration)
		if err := h.db.RenewSession(ctx, claims.ID, newExpiresAt); err == nil {
			if renewed, err := h.tokens.Issue(claims.ID, claims.Username, h.sessionDuration); err == nil {
				w.Header().Set(RenewedTokenHeader, renewed)
				if fromCookie {
					h.setSessionCookie(w, renewed)
				}
			}
		}
		// If renewal fails, just continue with the current session
	}

	return sessionInfo.User.Username, true
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Encode response error: %v", err)
	}
}

// writeError maps service errors to status codes. Unexpected errors are
// logged in full and reported without detail.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, finance.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", `Bearer realm="finance-tracker"`)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "User not authenticated"})
	case errors.Is(err, finance.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Authenticated user not found"})
	case errors.Is(err, finance.ErrGoalNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Goal not found"})
	case errors.Is(err, finance.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Printf("%s error: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}
