package ledger

import "errors"

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidKind         = errors.New("kind must be income or expense")
	ErrInvalidAmount       = errors.New("amount must have at most 2 decimal places")
	ErrDateRequired        = errors.New("occurred_on is required")
)
