package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"acquisitions/internal/auth"
)

// RouterOptions carries the pieces the HTTP surface needs from the rest of
// the process.
type RouterOptions struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	CookieTTL     time.Duration
	SecureCookies bool
}

func NewRouter(opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	started := time.Now().UTC()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Hello from acquisitions api!"))
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(started).Seconds(),
		})
	})

	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Acquisitions api is running!"))
	})

	h := &authHandler{
		svc:           opts.AuthService,
		logger:        opts.Logger,
		cookieTTL:     opts.CookieTTL,
		secureCookies: opts.SecureCookies,
	}
	mux.HandleFunc("/api/auth/sign-up", h.signUp)
	mux.HandleFunc("/api/auth/sign-in", h.signIn)
	mux.HandleFunc("/api/auth/sign-out", h.signOut)

	return withRequestLog(opts.Logger, withSecurityHeaders(withCORS(mux)))
}
