package report

import (
	"finance-tracker-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

type CategorySummary struct {
	CategoryID string
	Name       string
	Kind       ledger.Kind
	Total      decimal.Decimal
}
