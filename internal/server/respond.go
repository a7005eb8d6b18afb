package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// apiError is the uniform failure envelope. No storage detail ever crosses
// this boundary.
type apiError struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{OK: false, Message: message})
}
