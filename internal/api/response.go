package api

import (
	"encoding/json"
	"net/http"
	"time"

	"csb/statusboard/internal/logging"
)

// errorResponse is the envelope of every non-contract error reply.
type errorResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     message,
	})
}
