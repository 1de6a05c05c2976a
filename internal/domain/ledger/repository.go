package ledger

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListCategories(ctx context.Context, userID string) ([]Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error)
	// DeleteTransactionsByCategory removes every transaction referencing the
	// category, regardless of the transaction's own owner. The cascade is
	// keyed on the foreign key alone.
	DeleteTransactionsByCategory(ctx context.Context, categoryID string) error

	ListTransactions(ctx context.Context, userID string) ([]Transaction, error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*Transaction, error)
	CreateTransaction(ctx context.Context, transaction *Transaction) error
	UpdateTransaction(ctx context.Context, transaction *Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) (bool, error)
	GetCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]Category, error)
}
