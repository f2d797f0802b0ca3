// Package web serves the upload / result / shift-swap pages and the
// per-person calendar downloads.
package web

import (
	"crypto/subtle"
	"embed"
	"html/template"
	"net/http"
	"time"

	"turnical/internal/config"
	appLog "turnical/internal/log"
	"turnical/internal/store"
)

// sessionCookie carries the store id of the caller's last processed upload.
const sessionCookie = "turnical_session"

// Server wires HTTP handlers to the processing pipeline and session store.
type Server struct {
	cfg   *config.Config
	store *store.Store
	loc   *time.Location
	mux   *http.ServeMux
	tmpl  *template.Template
}

//go:embed templates/*.html
var embeddedTemplates embed.FS

// NewServer constructs a Server. loc is the zone schedule times are
// interpreted in (config Timezone, already resolved by the caller).
func NewServer(cfg *config.Config, st *store.Store, loc *time.Location) (*Server, error) {
	tmpl, err := template.ParseFS(embeddedTemplates, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:   cfg,
		store: st,
		loc:   loc,
		mux:   http.NewServeMux(),
		tmpl:  tmpl,
	}
	s.registerRoutes()
	return s, nil
}

// Handler returns the underlying http.Handler, wrapped with Basic Auth
// when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleUploadPage)
	s.mux.HandleFunc("POST /{$}", s.handleUploadPost)
	s.mux.HandleFunc("GET /result", s.handleResult)
	s.mux.HandleFunc("GET /cambio-turno", s.handleSwapPage)
	s.mux.HandleFunc("POST /cambio-turno", s.handleSwapPost)
	s.mux.HandleFunc("GET /download/{name}", s.handleDownload)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays reachable for probes.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Turnical", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// session resolves the caller's store entry from the session cookie. A
// missing cookie or an expired/evicted entry both come back (nil, "").
func (s *Server) session(r *http.Request) (*store.Entry, string) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil, ""
	}
	e, ok := s.store.Get(c.Value)
	if !ok {
		return nil, ""
	}
	return e, c.Value
}

func (s *Server) setSession(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		appLog.Error("template render failed", err, "template", name)
	}
}
