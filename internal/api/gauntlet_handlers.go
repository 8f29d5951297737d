package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/banishment/internal/errors"
	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/models"
	"github.com/vytor/banishment/internal/services"
)

type startGauntletRequest struct {
	Subject    string `json:"subject"`
	SubTopic   string `json:"sub_topic"`
	Difficulty string `json:"difficulty"`
}

type turnRequest struct {
	SessionID  string          `json:"session_id"`
	QuestionID int64           `json:"question_id"`
	Answer     json.RawMessage `json:"answer"`
}

type quitRequest struct {
	SessionID string `json:"session_id"`
}

func (req turnRequest) validate() error {
	if req.SessionID == "" {
		return errors.NewValidationError("session_id", "is required")
	}
	if req.QuestionID <= 0 {
		return errors.NewValidationError("question_id", "is required")
	}
	return nil
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.GauntletService.Subjects(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"subjects": subjects})
}

func (s *Server) handleStartGauntlet(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())

	var req startGauntletRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	out, err := s.GauntletService.StartGauntlet(r.Context(), player.ID, services.StartGauntletRequest{
		Subject:    req.Subject,
		SubTopic:   req.SubTopic,
		Difficulty: models.Difficulty(req.Difficulty),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, out)
}

func (s *Server) handleStartWeaknessDrill(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())

	out, err := s.GauntletService.StartWeaknessDrill(r.Context(), player.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, out)
}

func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())

	cur, err := s.GauntletService.CurrentSession(r.Context(), player.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cur)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	player := playerFromContext(r.Context())

	var req turnRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		handleError(w, r, err)
		return
	}
	answer := answerText(req.Answer)
	log.Debug("submit answer: session=%s, question=%d, answer=%d chars", req.SessionID, req.QuestionID, len(answer))

	out, err := s.GauntletService.SubmitAnswer(r.Context(), player.ID, req.SessionID, req.QuestionID, answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleTimeout(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())

	var req turnRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		handleError(w, r, err)
		return
	}

	out, err := s.GauntletService.HandleTimeout(r.Context(), player.ID, req.SessionID, req.QuestionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleQuitSession(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())

	var req quitRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.SessionID == "" {
		handleError(w, r, errors.NewValidationError("session_id", "is required"))
		return
	}

	out, err := s.GauntletService.QuitSession(r.Context(), player.ID, req.SessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}
