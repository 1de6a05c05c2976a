package ledger

import (
	"encoding/json"
	"net/http"
	"time"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

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

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func parseDateRequired(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type categoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type transactionResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	OccurredOn  string          `json:"occurred_on"`
	Category    categoryRef     `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toCategoryResponse(category *ledgerdomain.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Kind:      string(category.Kind),
		CreatedAt: category.CreatedAt,
	}
}

func toTransactionResponse(item *ledgerdomain.TransactionWithCategory) transactionResponse {
	return transactionResponse{
		ID:          item.ID,
		Amount:      item.Amount,
		Description: item.Description,
		OccurredOn:  item.OccurredOn.Format(dateLayout),
		Category: categoryRef{
			ID:   item.Category.ID,
			Name: item.Category.Name,
			Kind: string(item.Category.Kind),
		},
		CreatedAt: item.CreatedAt,
	}
}
