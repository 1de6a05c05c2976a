package ledger

import (
	"context"
	"errors"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListCategories(ctx context.Context, userID string) ([]ledgerdomain.Category, error) {
	var categories []ledgerdomain.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetCategoryByID(ctx context.Context, userID, categoryID string) (*ledgerdomain.Category, error) {
	var category ledgerdomain.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, categoryID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *ledgerdomain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, category *ledgerdomain.Category) error {
	return r.db.WithContext(ctx).
		Model(&ledgerdomain.Category{}).
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Updates(map[string]interface{}{
			"name":       category.Name,
			"kind":       category.Kind,
			"updated_at": category.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ledgerdomain.Category{}, "user_id = ? AND id = ?", userID, categoryID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteTransactionsByCategory(ctx context.Context, categoryID string) error {
	return r.db.WithContext(ctx).
		Delete(&ledgerdomain.Transaction{}, "category_id = ?", categoryID).Error
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, userID string) ([]ledgerdomain.Transaction, error) {
	var transactions []ledgerdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *PostgresRepository) GetTransactionByID(ctx context.Context, userID, transactionID string) (*ledgerdomain.Transaction, error) {
	var transaction ledgerdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, transactionID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *ledgerdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, transaction *ledgerdomain.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("id = ? AND user_id = ?", transaction.ID, transaction.UserID).
		Updates(map[string]interface{}{
			"amount":      transaction.Amount,
			"description": transaction.Description,
			"occurred_on": transaction.OccurredOn,
			"category_id": transaction.CategoryID,
			"updated_at":  transaction.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ledgerdomain.Transaction{}, "user_id = ? AND id = ?", userID, transactionID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) GetCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]ledgerdomain.Category, error) {
	result := make(map[string]ledgerdomain.Category, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return result, nil
	}

	var categories []ledgerdomain.Category
	if err := r.db.WithContext(ctx).
		Where("id IN ?", categoryIDs).
		Find(&categories).Error; err != nil {
		return nil, err
	}

	for _, category := range categories {
		result[category.ID] = category
	}

	return result, nil
}
