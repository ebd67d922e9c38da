package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/hashchat-ai/ledger-assistant/pkg/logger"
)

// errorResponse is the uniform envelope for non-2xx replies.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Global().Error("failed to encode response", zap.Error(err))
	}
}

// writeError replies with the error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message, Status: status})
}
