package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/vytor/banishment/internal/errors"
	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/services"
)

const maxBodyBytes = 1 << 20

type Server struct {
	DB              *sql.DB
	PlayerService   services.PlayerService
	GauntletService services.GauntletService
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	RequestTimeout time.Duration
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode response: %v", err)
	}
}

// decodeBody reads a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromContext(r.Context()).Debug("invalid request body: %v", err)
		return errors.NewBadRequestError("request body must be valid JSON")
	}
	return nil
}
