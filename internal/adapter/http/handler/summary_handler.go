package handler

import (
	"context"
	"net/http"

	"github.com/vfarias/financeiro/internal/adapter/http/dto"
	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/usecase"
)

// SummaryService defines the behavior needed by SummaryHandler.
type SummaryService interface {
	Summarize(ctx context.Context, filter usecase.EntryFilter) (*domain.Summary, error)
}

// SummaryHandler handles consolidated balance requests.
type SummaryHandler struct {
	summaryUC SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryUC SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryUC: summaryUC}
}

// Get computes the consolidated summary, optionally filtered.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := dto.ListEntriesQuery{
		DueFrom:  r.URL.Query().Get("due_from"),
		DueTo:    r.URL.Query().Get("due_to"),
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
		Search:   r.URL.Query().Get("search"),
	}

	filter, err := query.ToFilter()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	summary, err := h.summaryUC.Summarize(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}
