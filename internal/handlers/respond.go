package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"wordgallows/internal/apperr"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps a domain error to its HTTP status. Unclassified errors
// are logged and reported as a bare 500.
func writeError(w http.ResponseWriter, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		log.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal",
			Message: "internal server error",
		})
		return
	}
	writeJSON(w, statusForKind(kind), errorResponse{
		Error:   kind.String(),
		Message: err.Error(),
	})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindInvalidOperation:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
