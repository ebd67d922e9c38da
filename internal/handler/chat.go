// Package handler implements the HTTP endpoints of the assistant.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hashchat-ai/ledger-assistant/internal/loan"
	"github.com/hashchat-ai/ledger-assistant/internal/middleware"
	"github.com/hashchat-ai/ledger-assistant/internal/model"
	"github.com/hashchat-ai/ledger-assistant/pkg/logger"
)

// ChatRouter is the intent-routing surface consumed by the chat handler.
type ChatRouter interface {
	Chat(ctx context.Context, conversationID, message string) model.ChatResponse
}

// LoanClient is the loan-assistance collaborator surface.
type LoanClient interface {
	HandleQuery(ctx context.Context, userID, message string) (*model.LoanChatResponse, error)
}

// ChatHandler handles the chat endpoints.
type ChatHandler struct {
	router     ChatRouter
	loanClient LoanClient
	logger     *logger.Logger
}

// NewChatHandler creates a chat handler. loanClient may be nil when loan
// assistance is not configured.
func NewChatHandler(router ChatRouter, loanClient LoanClient, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		router:     router,
		loanClient: loanClient,
		logger:     log,
	}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateChatMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conversationID := middleware.GetConversationID(ctx)
	resp := h.router.Chat(ctx, conversationID, req.Message)

	writeJSON(w, http.StatusOK, resp)
}

// LoanChat handles POST /api/chat/loan/{userId}. Collaborator failures
// surface as a bare gateway error, no internal detail.
func (h *ChatHandler) LoanChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	if err := middleware.ValidateUserID(userID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.loanClient == nil {
		writeError(w, http.StatusServiceUnavailable, "loan assistance is not available")
		return
	}

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateChatMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("processing loan chat", zap.String("user_id", userID))

	resp, err := h.loanClient.HandleQuery(ctx, userID, req.Message)
	if err != nil {
		h.logger.Error("loan chat failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "loan assistance failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

var _ LoanClient = (*loan.Client)(nil)
