package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// errorBody mirrors the error shape written by the handlers.
type errorBody struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Message: message, Timestamp: time.Now().UTC()})
}
