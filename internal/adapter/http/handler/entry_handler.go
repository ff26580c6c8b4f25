package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khatahub/khata/internal/adapter/http/dto"
	"github.com/khatahub/khata/internal/domain"
	"github.com/khatahub/khata/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	ListByCustomer(ctx context.Context, input usecase.ListByCustomerInput) ([]*domain.LedgerEvent, error)
	ListByOwner(ctx context.Context, input usecase.ListByOwnerInput) ([]*domain.LedgerEvent, error)
}

// EntryHandler handles ledger history HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByCustomer lists a customer's ledger events, oldest first.
func (h *EntryHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	events, err := h.entryUC.ListByCustomer(r.Context(), usecase.ListByCustomerInput{
		OwnerID:    owner,
		CustomerID: customerID,
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEventsResponse{
		Events: dto.EventsFromDomain(events),
		Total:  int64(len(events)),
	})
}

// ListByOwner lists recent events across the whole book.
func (h *EntryHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	events, err := h.entryUC.ListByOwner(r.Context(), usecase.ListByOwnerInput{
		OwnerID: owner,
		Limit:   parseIntQuery(r, "limit", 50),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEventsResponse{
		Events: dto.EventsFromDomain(events),
		Total:  int64(len(events)),
	})
}
