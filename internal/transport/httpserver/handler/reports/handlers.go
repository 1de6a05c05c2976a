package reports

import (
	"encoding/json"
	"net/http"
	"strings"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	reportdomain "finance-tracker-go/internal/domain/report"
	"finance-tracker-go/internal/transport/httpserver/middleware"
	"finance-tracker-go/pkg/logger"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Reports *reportdomain.Service
	log     logger.Logger
}

func New(reports *reportdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Reports: reports, log: log}
}

type totalResponse struct {
	Kind  string          `json:"kind"`
	Total decimal.Decimal `json:"total"`
}

type summaryRowResponse struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	Total      decimal.Decimal `json:"total"`
}

func (h *Handlers) TotalByKind(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	kind, err := ledgerdomain.ParseKind(strings.TrimSpace(r.URL.Query().Get("kind")))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "kind must be income or expense")
		return
	}

	total, err := h.Reports.TotalByKind(r.Context(), id.UserID, kind)
	if err != nil {
		h.log.InternalError("reports.total: compute failed", err, "user_id", id.UserID, "kind", kind)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, totalResponse{Kind: string(kind), Total: total})
}

func (h *Handlers) SummaryByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	summaries, err := h.Reports.SummaryByCategory(r.Context(), id.UserID)
	if err != nil {
		h.log.InternalError("reports.summary: compute failed", err, "user_id", id.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]summaryRowResponse, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, summaryRowResponse{
			CategoryID: summary.CategoryID,
			Name:       summary.Name,
			Kind:       string(summary.Kind),
			Total:      summary.Total,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
