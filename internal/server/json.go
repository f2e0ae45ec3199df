package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playperu/ruleta/internal/game"
	"github.com/playperu/ruleta/internal/ruleta"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeErr maps domain errors to a status code.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ruleta.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ruleta.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ruleta.ErrInvalidTransition), errors.Is(err, game.ErrSessionEnded):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ruleta.ErrStoreUnavailable), errors.Is(err, ruleta.ErrAuthInit):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
