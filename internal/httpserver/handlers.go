package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"acquisitions/internal/auth"
)

type signUpRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload is the response shape for a user; the password hash never
// leaves the model thanks to its json:"-" tag, but the contract is explicit
// about which fields go out.
type userPayload struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

func toPayload(u *auth.User) userPayload {
	return userPayload{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type authHandler struct {
	svc           *auth.Service
	logger        *slog.Logger
	cookieTTL     time.Duration
	secureCookies bool
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeValidationError(w http.ResponseWriter, details string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error":   "Validation Failed",
		"details": details,
	})
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && len(email) <= 255
}

func (h *authHandler) signUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "request body must be valid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = auth.NormalizeEmail(req.Email)
	switch {
	case req.Name == "" || len(req.Name) > 255:
		writeValidationError(w, "name is required")
		return
	case !validEmail(req.Email):
		writeValidationError(w, "a valid email is required")
		return
	case len(req.Password) < 6:
		writeValidationError(w, "password must be at least 6 characters")
		return
	case req.Role != "" && !req.Role.Valid():
		writeValidationError(w, "unknown role")
		return
	}

	user, token, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			h.logger.Warn("sign-up rejected, email taken", "email", req.Email)
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		h.logger.Error("sign-up failed", "email", req.Email, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	auth.SetSessionCookie(w, token, h.cookieTTL, h.secureCookies)
	h.logger.Info("user registered", "email", user.Email, "id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered",
		"user":    toPayload(user),
	})
}

func (h *authHandler) signIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "request body must be valid JSON")
		return
	}
	req.Email = auth.NormalizeEmail(req.Email)
	switch {
	case !validEmail(req.Email):
		writeValidationError(w, "a valid email is required")
		return
	case req.Password == "":
		writeValidationError(w, "password is required")
		return
	}

	user, token, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn("sign-in rejected", "email", req.Email)
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("sign-in failed", "email", req.Email, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	auth.SetSessionCookie(w, token, h.cookieTTL, h.secureCookies)
	h.logger.Info("user signed in", "email", user.Email, "id", user.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User signed in",
		"user":    toPayload(user),
	})
}

// signOut clears the session cookie. There is no server-side session state,
// so this succeeds whether or not a valid session existed.
func (h *authHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	auth.ClearSessionCookie(w, h.secureCookies)
	h.logger.Info("user signed out")
	writeJSON(w, http.StatusOK, map[string]string{"message": "User signed out"})
}
