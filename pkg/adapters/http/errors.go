package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/ordinal"
	"github.com/aretw0/ordinal/pkg/domain"
)

// requestError marks failures caused by the request itself.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var re *requestError
	switch {
	case errors.As(err, &re), errors.Is(err, domain.ErrPattern), errors.Is(err, domain.ErrDefaultsNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSequenceMismatch), errors.Is(err, domain.ErrInvalidOrdinal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrExists), errors.Is(err, ordinal.ErrRenameCycle):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, &requestError{err: errors.New("invalid request body: " + err.Error())})
		return false
	}
	return true
}
