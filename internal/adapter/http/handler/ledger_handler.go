package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vfarias/financeiro/internal/adapter/http/dto"
	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/usecase"
)

// ReconciliationService defines the behavior needed by LedgerHandler.
type ReconciliationService interface {
	CheckProjection(ctx context.Context) (*usecase.ProjectionReport, error)
	RebuildEntry(ctx context.Context, entryID string) (*domain.Entry, error)
}

// LedgerHandler handles ledger-wide consistency operations.
type LedgerHandler struct {
	reconcileUC ReconciliationService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reconcileUC ReconciliationService) *LedgerHandler {
	return &LedgerHandler{reconcileUC: reconcileUC}
}

// CheckConsistency compares every cached settled amount against its event log.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcileUC.CheckProjection(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyFromReport(report))
}

// Reconcile rebuilds one entry's settled amount from its event log.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.reconcileUC.RebuildEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
