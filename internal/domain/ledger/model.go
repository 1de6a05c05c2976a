package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a category (and, through it, every transaction linked to
// the category) as income or expense.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	default:
		return "", ErrInvalidKind
	}
}

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	Kind      Kind      `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type Transaction struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	UserID      string          `gorm:"type:uuid;index;not null"`
	CategoryID  string          `gorm:"type:uuid;index;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Description *string         `gorm:"type:text"`
	OccurredOn  time.Time       `gorm:"type:date;not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

// TransactionWithCategory is what list/get operations return: the row plus
// its resolved category, so callers never need a second lookup.
type TransactionWithCategory struct {
	Transaction
	Category Category
}

type CreateCategoryInput struct {
	UserID string
	Name   string
	Kind   string
}

type UpdateCategoryInput struct {
	UserID     string
	CategoryID string
	Name       string
	Kind       string
}

type CreateTransactionInput struct {
	UserID      string
	Amount      decimal.Decimal
	Description *string
	OccurredOn  time.Time
	CategoryID  string
}

type UpdateTransactionInput struct {
	UserID        string
	TransactionID string
	Amount        decimal.Decimal
	Description   *string
	OccurredOn    time.Time
	CategoryID    string
}
