package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/player"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a JSON body into v, rejecting unknown shapes with a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		log.Debug("Invalid request body", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps ledger and player errors to status codes. Anything unrecognised is
// logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch ledger.KindOf(err) {
	case ledger.KindValidation:
		writeError(w, http.StatusBadRequest, ledger.Message(err))
		return
	case ledger.KindNotFound:
		writeError(w, http.StatusNotFound, ledger.Message(err))
		return
	case ledger.KindConflict:
		writeError(w, http.StatusConflict, ledger.Message(err))
		return
	case ledger.KindTransient:
		log.Warn("Transient store failure", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusServiceUnavailable, ledger.Message(err))
		return
	}
	switch {
	case errors.Is(err, player.ErrNotFound):
		writeError(w, http.StatusNotFound, "player not found")
	case errors.Is(err, player.ErrEmailInUse):
		writeError(w, http.StatusBadRequest, "email already in use")
	default:
		log.Error("Request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
