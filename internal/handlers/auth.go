package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/storage"
)

// Credentials is the request body for register and login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)

	if err := auth.ValidateCredentials(creds.Username, creds.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		log.Printf("HashPassword error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	if _, err := h.db.CreateUser(r.Context(), creds.Username, hash); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username is already taken"})
			return
		}
		log.Printf("CreateUser error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "User registered successfully"})
}

// Login checks credentials, opens a session and returns its token. The token
// is also set as the session cookie.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)

	if creds.Username == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Username and password are required"})
		return
	}

	user, err := h.db.GetUserByUsername(r.Context(), creds.Username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("GetUserByUsername error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}
	if err != nil || !auth.CheckPassword(creds.Password, user.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid username or password"})
		return
	}

	sessionID, err := auth.GenerateSessionToken()
	if err != nil {
		log.Printf("Failed to generate session token: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	expiresAt := time.Now().Add(h.sessionDuration)
	if err := h.db.CreateSession(r.Context(), sessionID, user.ID, expiresAt); err != nil {
		log.Printf("Failed to create session: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	token, err := h.tokens.Issue(sessionID, user.Username, h.sessionDuration)
	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Logout ends the caller's session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token, _ := h.sessionToken(r); token != "" {
		if claims, err := h.tokens.Parse(token); err == nil {
			if err := h.db.DeleteSession(r.Context(), claims.ID); err != nil {
				log.Printf("DeleteSession error: %v", err)
			}
		}
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
