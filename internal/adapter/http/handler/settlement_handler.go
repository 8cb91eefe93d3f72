package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/adapter/http/dto"
	"github.com/vfarias/financeiro/internal/domain"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	Settle(ctx context.Context, entryID string, amount decimal.Decimal, appliedAt time.Time) (*domain.Entry, error)
	SettleFull(ctx context.Context, entryID string, appliedAt time.Time) (*domain.Entry, error)
	ReverseLast(ctx context.Context, entryID string) (*domain.Entry, error)
}

// SettlementHandler handles settlement-related HTTP requests.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Settle applies a partial settlement to an entry.
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	appliedAt := time.Now().UTC()
	if req.AppliedAt != nil {
		appliedAt = req.AppliedAt.UTC()
	}

	entry, err := h.settlementUC.Settle(r.Context(), id, req.Amount, appliedAt)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to settle entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// SettleFull settles the outstanding remainder of an entry in one event.
func (h *SettlementHandler) SettleFull(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.SettleFullRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	appliedAt := time.Now().UTC()
	if req.AppliedAt != nil {
		appliedAt = req.AppliedAt.UTC()
	}

	entry, err := h.settlementUC.SettleFull(r.Context(), id, appliedAt)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to settle entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// ReverseLast removes the most recent settlement event of an entry.
func (h *SettlementHandler) ReverseLast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.settlementUC.ReverseLast(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
