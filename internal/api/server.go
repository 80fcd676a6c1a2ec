package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akozhevin/video-fetch-bot/internal/logutils"
)

const jsonContentType = "application/json"

// Server runs the liveness/metrics HTTP surface. It deliberately shares no
// state with the download pipeline: a stuck extraction can never block a
// health probe.
type Server struct {
	srv       *http.Server
	startedAt time.Time
}

// NewServer builds the server. webhookPath/webhookHandler mount the Telegram
// webhook endpoint when push delivery is enabled; both may be empty.
func NewServer(listenAddr, webhookPath string, webhookHandler http.HandlerFunc) *Server {
	s := &Server{startedAt: time.Now()}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.rootHandler)
	r.Get("/health", s.healthHandler)
	r.Get("/ping", s.pingHandler)
	r.Handle("/metrics", promhttp.Handler())

	if webhookPath != "" && webhookHandler != nil {
		r.Post(webhookPath, webhookHandler)
	}

	s.srv = &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (*Server) rootHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("🤖 Bot is running!"))
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (*Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// Start listens and serves. Blocks until Shutdown is called.
func (s *Server) Start() error {
	logutils.Log.WithField("addr", s.srv.Addr).Info("Liveness server starting")
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logutils.Log.WithError(err).Warn("Failed to encode JSON response")
	}
}
