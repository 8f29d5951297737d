package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	timeout := s.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	if s.MetricsHandler != nil {
		r.Handle("/metrics", s.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(timeout))

		r.Post("/players", s.handleCreatePlayer)
		r.Get("/gauntlet/subjects", s.handleSubjects)

		r.Group(func(r chi.Router) {
			r.Use(s.playerMiddleware)

			r.Get("/players/me", s.handleGetPlayer)
			r.Get("/players/me/progress", s.handlePlayerProgress)
			r.Get("/players/me/sessions", s.handlePlayerSessions)

			r.Post("/gauntlet/start", s.handleStartGauntlet)
			r.Post("/gauntlet/start-weakness-drill", s.handleStartWeaknessDrill)
			r.Get("/gauntlet/current", s.handleCurrentSession)
			r.Post("/gauntlet/submit", s.handleSubmitAnswer)
			r.Post("/gauntlet/timeout", s.handleTimeout)
			r.Post("/gauntlet/quit", s.handleQuitSession)
		})
	})
	return r
}
