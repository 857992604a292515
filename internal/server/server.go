// Package server exposes the dashboard page and the JSON APIs behind it.
// Every interaction re-runs the full load → join → style pipeline the way the
// page re-renders; the dataset store's cache keeps that cheap.
package server

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danwashburn/truck-parking-dashboard/internal/config"
	"github.com/danwashburn/truck-parking-dashboard/internal/dataset"
	"github.com/danwashburn/truck-parking-dashboard/internal/observability"
	"github.com/danwashburn/truck-parking-dashboard/internal/selection"
)

//go:embed dashboard.html
var pageFS embed.FS

// Server wires the HTTP surface: the embedded page, the data APIs, the auth
// gate, and the health/metrics endpoints.
type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	store      *dataset.Store
	sessions   *selection.Sessions
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates the dashboard server.
func New(cfg *config.Config, store *dataset.Store, sessions *selection.Sessions, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		logger:   logger,
		metrics:  metrics,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api/login", s.handleLogin).Methods("POST")

	guarded := r.NewRoute().Subrouter()
	guarded.Use(s.requireSession)
	guarded.HandleFunc("/", s.handlePage).Methods("GET")
	guarded.HandleFunc("/api/map", s.handleMap).Methods("GET")
	guarded.HandleFunc("/api/overlays/{kind}", s.handleOverlay).Methods("GET")
	guarded.HandleFunc("/api/cycle", s.handleCycle).Methods("POST")
	guarded.HandleFunc("/api/hourly", s.handleHourly).Methods("GET")
	guarded.HandleFunc("/api/hourly.csv", s.handleHourlyCSV).Methods("GET")
	guarded.HandleFunc("/api/spots/nearest", s.handleNearestSpots).Methods("GET")

	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

const sessionCookie = "tp_session"

type sessionCtxKey struct{}

// requireSession enforces the auth gate. Authentication failure blocks
// everything behind it; with AUTH_DISABLED a session is minted on first
// contact so selection state still works per browser. The resolved state
// rides in the request context for the handlers.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if state, ok := s.session(r); ok {
			next.ServeHTTP(w, withState(r, state))
			return
		}
		if s.cfg.AuthDisabled {
			next.ServeHTTP(w, withState(r, s.issueSession(w)))
			return
		}
		if r.URL.Path == "/" {
			// The page itself loads and shows the password prompt.
			next.ServeHTTP(w, r)
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	})
}

func withState(r *http.Request, state *selection.State) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, state))
}

// stateFrom returns the session's selection state placed by requireSession.
func stateFrom(r *http.Request) (*selection.State, bool) {
	state, ok := r.Context().Value(sessionCtxKey{}).(*selection.State)
	return state, ok
}

// session resolves the request's selection state from its cookie, if any.
func (s *Server) session(r *http.Request) (*selection.State, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(c.Value)
}

func (s *Server) issueSession(w http.ResponseWriter) *selection.State {
	id := s.sessions.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	state, _ := s.sessions.Get(id)
	return state
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	if !s.cfg.AuthDisabled {
		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.AppPassword)) != 1 {
			s.metrics.Logins.WithLabelValues("failure").Inc()
			s.logger.Warn("login rejected")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Incorrect password."})
			return
		}
	}

	s.issueSession(w)
	s.metrics.Logins.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	s.metrics.PageViews.Inc()
	data, err := pageFS.ReadFile("dashboard.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
