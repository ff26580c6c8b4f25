package handler

import (
	"context"
	"net/http"

	"github.com/khatahub/khata/internal/usecase"
)

// SummaryService defines the behavior needed by SummaryHandler.
type SummaryService interface {
	GetSummary(ctx context.Context, ownerID string) (*usecase.Summary, error)
}

// SummaryHandler serves book-wide totals.
type SummaryHandler struct {
	summaryUC SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryUC SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryUC: summaryUC}
}

// Get returns the owner's totals: receivable, payable and net position.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	summary, err := h.summaryUC.GetSummary(r.Context(), owner)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
