package api

import (
	"net/http"

	"github.com/vytor/banishment/internal/logger"
)

type createPlayerRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	player, err := s.PlayerService.CreatePlayer(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("player ready: id=%d, username=%s", player.ID, player.Username)
	writeJSON(w, r, http.StatusCreated, player)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, playerFromContext(r.Context()))
}

func (s *Server) handlePlayerProgress(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())

	progress, err := s.PlayerService.GetProgress(r.Context(), player.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handlePlayerSessions(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 100)

	sessions, err := s.PlayerService.ListSessions(r.Context(), player.ID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"sessions": sessions})
}
