package ledger

import (
	"errors"
	"net/http"
	"strings"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	OccurredOn  string           `json:"occurred_on"`
	CategoryID  string           `json:"category_id"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var (
		items []ledgerdomain.TransactionWithCategory
		err   error
	)

	// An optional ?kind= narrows the list to entries whose category carries
	// that kind.
	kindParam := strings.TrimSpace(r.URL.Query().Get("kind"))
	if kindParam != "" {
		kind, parseErr := ledgerdomain.ParseKind(kindParam)
		if parseErr != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid_request", "kind must be income or expense")
			return
		}
		items, err = h.Ledger.ListTransactionsByKind(r.Context(), id.UserID, kind)
	} else {
		items, err = h.Ledger.ListTransactions(r.Context(), id.UserID)
	}
	if err != nil {
		h.log.InternalError("transactions.list: list failed", err, "user_id", id.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]transactionResponse, 0, len(items))
	for i := range items {
		response = append(response, toTransactionResponse(&items[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input, ok := h.transactionInput(w, id.UserID, req)
	if !ok {
		return
	}

	created, err := h.Ledger.CreateTransaction(r.Context(), input)
	if err != nil {
		if isTransactionValidationError(err) {
			h.log.BusinessError("transactions.create: validation failed", err, "user_id", id.UserID)
			writeError(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("transactions.create: create failed", err, "user_id", id.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if transactionID == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "id is required")
		return
	}

	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	item, err := h.Ledger.GetTransaction(r.Context(), id.UserID, transactionID)
	if err != nil {
		if errors.Is(err, ledgerdomain.ErrTransactionNotFound) {
			h.log.BusinessError("transactions.get: not found", err, "user_id", id.UserID, "transaction_id", transactionID)
			writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
			return
		}
		h.log.InternalError("transactions.get: get failed", err, "user_id", id.UserID, "transaction_id", transactionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(item))
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if transactionID == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "id is required")
		return
	}

	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input, ok := h.transactionInput(w, id.UserID, req)
	if !ok {
		return
	}

	updated, err := h.Ledger.UpdateTransaction(r.Context(), ledgerdomain.UpdateTransactionInput{
		UserID:        id.UserID,
		TransactionID: transactionID,
		Amount:        input.Amount,
		Description:   input.Description,
		OccurredOn:    input.OccurredOn,
		CategoryID:    input.CategoryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledgerdomain.ErrTransactionNotFound):
			h.log.BusinessError("transactions.update: not found", err, "user_id", id.UserID, "transaction_id", transactionID)
			writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
		case isTransactionValidationError(err):
			h.log.BusinessError("transactions.update: validation failed", err, "user_id", id.UserID, "transaction_id", transactionID)
			writeError(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
		default:
			h.log.InternalError("transactions.update: update failed", err, "user_id", id.UserID, "transaction_id", transactionID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if transactionID == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "id is required")
		return
	}

	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Ledger.DeleteTransaction(r.Context(), id.UserID, transactionID); err != nil {
		if errors.Is(err, ledgerdomain.ErrTransactionNotFound) {
			h.log.BusinessError("transactions.delete: not found", err, "user_id", id.UserID, "transaction_id", transactionID)
			writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
			return
		}
		h.log.InternalError("transactions.delete: delete failed", err, "user_id", id.UserID, "transaction_id", transactionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) transactionInput(w http.ResponseWriter, userID string, req transactionRequest) (ledgerdomain.CreateTransactionInput, bool) {
	if req.Amount == nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "amount is required")
		return ledgerdomain.CreateTransactionInput{}, false
	}

	occurredOn, err := parseDateRequired(strings.TrimSpace(req.OccurredOn))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "occurred_on must be a valid date (YYYY-MM-DD)")
		return ledgerdomain.CreateTransactionInput{}, false
	}

	categoryID := strings.TrimSpace(req.CategoryID)
	if categoryID == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "category_id is required")
		return ledgerdomain.CreateTransactionInput{}, false
	}

	return ledgerdomain.CreateTransactionInput{
		UserID:      userID,
		Amount:      *req.Amount,
		Description: req.Description,
		OccurredOn:  occurredOn,
		CategoryID:  categoryID,
	}, true
}

// A missing category on create/update is a validation failure, not a 404:
// the transaction row the caller addressed may exist, the reference is what
// is wrong.
func isTransactionValidationError(err error) bool {
	return errors.Is(err, ledgerdomain.ErrInvalidAmount) ||
		errors.Is(err, ledgerdomain.ErrDateRequired) ||
		errors.Is(err, ledgerdomain.ErrCategoryNotFound)
}
