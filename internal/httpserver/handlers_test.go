package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"acquisitions/internal/auth"
)

type memStore struct {
	users map[string]*auth.User
}

func (m *memStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	u, ok := m.users[auth.NormalizeEmail(email)]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) Insert(ctx context.Context, name, email, passwordHash string, role auth.Role) (*auth.User, error) {
	email = auth.NormalizeEmail(email)
	if _, ok := m.users[email]; ok {
		return nil, auth.ErrEmailTaken
	}
	u := &auth.User{
		ID:           fmt.Sprintf("u-%d", len(m.users)+1),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	m.users[email] = u
	return u, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := &memStore{users: map[string]*auth.User{}}
	svc := auth.NewService(store, auth.NewHasher(bcrypt.MinCost), auth.NewTokenService("test-secret", time.Hour))
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return NewRouter(RouterOptions{
		Logger:        logger,
		AuthService:   svc,
		CookieTTL:     24 * time.Hour,
		SecureCookies: false,
	})
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignUpSignInScenario(t *testing.T) {
	h := newTestRouter(t)

	// register Ann
	rec := doJSON(t, h, http.MethodPost, "/api/auth/sign-up",
		`{"name":"Ann","email":"a@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var created struct {
		Message string `json:"message"`
		User    struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "User registered", created.Message)
	assert.Equal(t, "a@x.com", created.User.Email)
	assert.Equal(t, "user", created.User.Role)
	assert.NotEmpty(t, created.User.ID)

	c := sessionCookie(t, rec)
	require.NotNil(t, c, "sign-up must set the session cookie")
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	// wrong password
	rec = doJSON(t, h, http.MethodPost, "/api/auth/sign-in",
		`{"email":"a@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	// correct password
	rec = doJSON(t, h, http.MethodPost, "/api/auth/sign-in",
		`{"email":"a@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User signed in")
	c = sessionCookie(t, rec)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/sign-up",
		`{"name":"Ann","email":"a@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/sign-up",
		`{"name":"Other Ann","email":"A@X.com","password":"different1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, rec.Body.String())
}

func TestSignInUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/sign-in",
		`{"email":"ghost@x.com","password":"whatever"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
}

func TestSignUpValidation(t *testing.T) {
	h := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{not json`},
		{"missing name", `{"email":"a@x.com","password":"secret123"}`},
		{"bad email", `{"name":"Ann","email":"nope","password":"secret123"}`},
		{"short password", `{"name":"Ann","email":"a@x.com","password":"abc"}`},
		{"unknown role", `{"name":"Ann","email":"a@x.com","password":"secret123","role":"root"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/auth/sign-up", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Validation Failed")
		})
	}
}

func TestSignOutAlwaysClears(t *testing.T) {
	h := newTestRouter(t)

	// no session at all
	rec := doJSON(t, h, http.MethodPost, "/api/auth/sign-out", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User signed out"}`, rec.Body.String())

	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestAuthRoutesRejectWrongMethod(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{"/api/auth/sign-up", "/api/auth/sign-in", "/api/auth/sign-out"} {
		rec := doJSON(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestStatusEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello from acquisitions api!", rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acquisitions api is running!", rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health struct {
		Status    string  `json:"status"`
		Timestamp string  `json:"timestamp"`
		Uptime    float64 `json:"uptime"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "OK", health.Status)
	_, err := time.Parse(time.RFC3339, health.Timestamp)
	assert.NoError(t, err)

	rec = doJSON(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = doJSON(t, h, http.MethodOptions, "/api/auth/sign-in", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
