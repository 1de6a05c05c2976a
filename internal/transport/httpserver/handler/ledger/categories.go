package ledger

import (
	"errors"
	"net/http"
	"strings"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type categoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	categories, err := h.Ledger.ListCategories(r.Context(), id.UserID)
	if err != nil {
		h.log.InternalError("categories.list: list failed", err, "user_id", id.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		response = append(response, toCategoryResponse(&categories[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Ledger.CreateCategory(r.Context(), ledgerdomain.CreateCategoryInput{
		UserID: id.UserID,
		Name:   req.Name,
		Kind:   req.Kind,
	})
	if err != nil {
		if isCategoryValidationError(err) {
			h.log.BusinessError("categories.create: validation failed", err, "user_id", id.UserID)
			writeError(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("categories.create: create failed", err, "user_id", id.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := strings.TrimSpace(chi.URLParam(r, "id"))
	if categoryID == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "id is required")
		return
	}

	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	category, err := h.Ledger.GetCategory(r.Context(), id.UserID, categoryID)
	if err != nil {
		if errors.Is(err, ledgerdomain.ErrCategoryNotFound) {
			h.log.BusinessError("categories.get: not found", err, "user_id", id.UserID, "category_id", categoryID)
			writeError(w, http.StatusNotFound, "category_not_found", "category not found")
			return
		}
		h.log.InternalError("categories.get: get failed", err, "user_id", id.UserID, "category_id", categoryID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := strings.TrimSpace(chi.URLParam(r, "id"))
	if categoryID == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "id is required")
		return
	}

	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Ledger.UpdateCategory(r.Context(), ledgerdomain.UpdateCategoryInput{
		UserID:     id.UserID,
		CategoryID: categoryID,
		Name:       req.Name,
		Kind:       req.Kind,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledgerdomain.ErrCategoryNotFound):
			h.log.BusinessError("categories.update: not found", err, "user_id", id.UserID, "category_id", categoryID)
			writeError(w, http.StatusNotFound, "category_not_found", "category not found")
		case isCategoryValidationError(err):
			h.log.BusinessError("categories.update: validation failed", err, "user_id", id.UserID, "category_id", categoryID)
			writeError(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
		default:
			h.log.InternalError("categories.update: update failed", err, "user_id", id.UserID, "category_id", categoryID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(updated))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := strings.TrimSpace(chi.URLParam(r, "id"))
	if categoryID == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "id is required")
		return
	}

	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Ledger.DeleteCategory(r.Context(), id.UserID, categoryID); err != nil {
		if errors.Is(err, ledgerdomain.ErrCategoryNotFound) {
			h.log.BusinessError("categories.delete: not found", err, "user_id", id.UserID, "category_id", categoryID)
			writeError(w, http.StatusNotFound, "category_not_found", "category not found")
			return
		}
		h.log.InternalError("categories.delete: delete failed", err, "user_id", id.UserID, "category_id", categoryID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isCategoryValidationError(err error) bool {
	return errors.Is(err, ledgerdomain.ErrNameRequired) ||
		errors.Is(err, ledgerdomain.ErrInvalidKind)
}
