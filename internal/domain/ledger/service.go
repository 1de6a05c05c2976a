package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListCategories(ctx context.Context, userID string) ([]Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	name, kind, err := validateCategoryInput(input.Name, input.Kind)
	if err != nil {
		return nil, err
	}

	category := Category{
		ID:     uuid.NewString(),
		UserID: input.UserID,
		Name:   name,
		Kind:   kind,
	}

	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (s *Service) GetCategory(ctx context.Context, userID, categoryID string) (*Category, error) {
	return s.repo.GetCategoryByID(ctx, userID, categoryID)
}

func (s *Service) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*Category, error) {
	name, kind, err := validateCategoryInput(input.Name, input.Kind)
	if err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategoryByID(ctx, input.UserID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.Kind = kind
	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes the category and every transaction referencing it in
// one storage transaction. There is no window where one exists without the
// other.
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetCategoryByID(ctx, userID, categoryID); err != nil {
			return err
		}

		if err := tx.DeleteTransactionsByCategory(ctx, categoryID); err != nil {
			return err
		}

		deleted, err := tx.DeleteCategory(ctx, userID, categoryID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrCategoryNotFound
		}
		return nil
	})
}

func (s *Service) ListTransactions(ctx context.Context, userID string) ([]TransactionWithCategory, error) {
	transactions, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.resolveCategories(ctx, transactions)
}

// ListTransactionsByKind is a filtered projection of ListTransactions: only
// entries whose linked category carries the given kind.
func (s *Service) ListTransactionsByKind(ctx context.Context, userID string, kind Kind) ([]TransactionWithCategory, error) {
	items, err := s.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := make([]TransactionWithCategory, 0, len(items))
	for _, item := range items {
		if item.Category.Kind == kind {
			filtered = append(filtered, item)
		}
	}

	return filtered, nil
}

func (s *Service) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionWithCategory, error) {
	if err := validateTransactionInput(input.Amount, input.OccurredOn); err != nil {
		return nil, err
	}

	transaction := Transaction{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Description: normalizeDescription(input.Description),
		OccurredOn:  input.OccurredOn,
	}

	var category Category
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		found, err := tx.GetCategoryByID(ctx, input.UserID, input.CategoryID)
		if err != nil {
			return err
		}
		category = *found

		return tx.CreateTransaction(ctx, &transaction)
	})
	if err != nil {
		return nil, err
	}

	return &TransactionWithCategory{Transaction: transaction, Category: category}, nil
}

func (s *Service) GetTransaction(ctx context.Context, userID, transactionID string) (*TransactionWithCategory, error) {
	transaction, err := s.repo.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	categories, err := s.repo.GetCategoriesByIDs(ctx, []string{transaction.CategoryID})
	if err != nil {
		return nil, err
	}

	return &TransactionWithCategory{
		Transaction: *transaction,
		Category:    categories[transaction.CategoryID],
	}, nil
}

func (s *Service) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*TransactionWithCategory, error) {
	if err := validateTransactionInput(input.Amount, input.OccurredOn); err != nil {
		return nil, err
	}

	var (
		updated  Transaction
		category Category
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		transaction, err := tx.GetTransactionByID(ctx, input.UserID, input.TransactionID)
		if err != nil {
			return err
		}

		found, err := tx.GetCategoryByID(ctx, input.UserID, input.CategoryID)
		if err != nil {
			return err
		}
		category = *found

		transaction.Amount = input.Amount
		transaction.Description = normalizeDescription(input.Description)
		transaction.OccurredOn = input.OccurredOn
		transaction.CategoryID = input.CategoryID
		transaction.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateTransaction(ctx, transaction); err != nil {
			return err
		}

		updated = *transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &TransactionWithCategory{Transaction: updated, Category: category}, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	deleted, err := s.repo.DeleteTransaction(ctx, userID, transactionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *Service) resolveCategories(ctx context.Context, transactions []Transaction) ([]TransactionWithCategory, error) {
	if len(transactions) == 0 {
		return []TransactionWithCategory{}, nil
	}

	categoryIDs := make([]string, 0, len(transactions))
	seen := make(map[string]struct{}, len(transactions))
	for _, transaction := range transactions {
		if _, ok := seen[transaction.CategoryID]; ok {
			continue
		}
		seen[transaction.CategoryID] = struct{}{}
		categoryIDs = append(categoryIDs, transaction.CategoryID)
	}

	categories, err := s.repo.GetCategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	items := make([]TransactionWithCategory, 0, len(transactions))
	for _, transaction := range transactions {
		items = append(items, TransactionWithCategory{
			Transaction: transaction,
			Category:    categories[transaction.CategoryID],
		})
	}

	return items, nil
}

func validateCategoryInput(name, kind string) (string, Kind, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ErrNameRequired
	}

	parsed, err := ParseKind(kind)
	if err != nil {
		return "", "", err
	}

	return name, parsed, nil
}

func validateTransactionInput(amount decimal.Decimal, occurredOn time.Time) error {
	if amount.Exponent() < -2 {
		return ErrInvalidAmount
	}
	if occurredOn.IsZero() {
		return ErrDateRequired
	}
	return nil
}

func normalizeDescription(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
