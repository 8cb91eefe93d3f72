package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vfarias/financeiro/internal/adapter/http/dto"
	"github.com/vfarias/financeiro/internal/usecase"
)

// CommandService defines the behavior needed by ChatHandler.
type CommandService interface {
	Dispatch(ctx context.Context, callerID string, cmd usecase.Command) (*usecase.Result, error)
}

// ChatHandler exposes the command facade to chat gateways.
type ChatHandler struct {
	facade CommandService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(facade CommandService) *ChatHandler {
	return &ChatHandler{facade: facade}
}

// Dispatch authorizes the caller and executes the submitted command.
func (h *ChatHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.CallerID == "" {
		writeError(w, http.StatusBadRequest, "missing caller_id", "")
		return
	}

	result, err := h.facade.Dispatch(r.Context(), req.CallerID, req.Command)
	if err != nil {
		writeError(w, mapDomainError(err), "command failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ChatCommandFromResult(result))
}
