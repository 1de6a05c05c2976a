package report

import (
	"context"

	"finance-tracker-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// LedgerReader is the slice of the ledger the reports are derived from.
type LedgerReader interface {
	ListTransactions(ctx context.Context, userID string) ([]ledger.TransactionWithCategory, error)
	ListTransactionsByKind(ctx context.Context, userID string, kind ledger.Kind) ([]ledger.TransactionWithCategory, error)
}

// Service computes derived totals from the current ledger contents. It holds
// no state of its own; every call recomputes from scratch.
type Service struct {
	ledger LedgerReader
}

func NewService(ledger LedgerReader) *Service {
	return &Service{ledger: ledger}
}

func (s *Service) TotalByKind(ctx context.Context, userID string, kind ledger.Kind) (decimal.Decimal, error) {
	items, err := s.ledger.ListTransactionsByKind(ctx, userID, kind)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}

	return total, nil
}

// SummaryByCategory groups the user's transactions by category, summing
// amounts per group. Groups appear in first-seen order.
func (s *Service) SummaryByCategory(ctx context.Context, userID string) ([]CategorySummary, error) {
	items, err := s.ledger.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(items))
	summaries := make([]CategorySummary, 0, len(items))
	for _, item := range items {
		pos, ok := index[item.CategoryID]
		if !ok {
			index[item.CategoryID] = len(summaries)
			summaries = append(summaries, CategorySummary{
				CategoryID: item.CategoryID,
				Name:       item.Category.Name,
				Kind:       item.Category.Kind,
				Total:      decimal.Zero,
			})
			pos = len(summaries) - 1
		}
		summaries[pos].Total = summaries[pos].Total.Add(item.Amount)
	}

	return summaries, nil
}
