package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khatahub/khata/internal/adapter/http/dto"
	"github.com/khatahub/khata/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	RecordTransaction(ctx context.Context, input usecase.RecordTransactionInput) (*usecase.RecordTransactionResult, error)
}

// TransactionHandler handles transaction recording.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Record applies one transaction to a customer balance. The response
// carries the updated customer and the one or two history events the
// reconciliation produced.
func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	var req dto.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.transactionUC.RecordTransaction(r.Context(), req.ToUseCaseInput(owner, customerID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromResult(result))
}
