package checkout

import (
	"context"

	"go-tindahan-pos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore backs the orchestrator with the MySQL tables.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CashierName(ctx context.Context, userID uint) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return "", err
	}
	if user.FullName == "" {
		return "Unknown", nil
	}
	return user.FullName, nil
}

func (s *GormStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return s.db.WithContext(ctx).Create(txn).Error
}

func (s *GormStore) CreateItem(ctx context.Context, item *models.TransactionItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// DecrementStock locks the product row for the read-clamp-write so two
// concurrent checkouts of the same product cannot lose a decrement.
func (s *GormStore) DecrementStock(ctx context.Context, userID, productID uint, quantity int) (int, error) {
	var prev int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&product, productID).Error
		if err != nil {
			return err
		}

		prev = product.StockQuantity
		newStock := product.StockQuantity - quantity
		if newStock < 0 {
			newStock = 0
		}
		return tx.Model(&product).Update("stock_quantity", newStock).Error
	})
	return prev, err
}

func (s *GormStore) RestoreStock(ctx context.Context, userID, productID uint, stock int) error {
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND user_id = ?", productID, userID).
		Update("stock_quantity", stock).Error
}

func (s *GormStore) DeleteItems(ctx context.Context, userID, transactionID uint) error {
	return s.db.WithContext(ctx).
		Where("transaction_id = ? AND user_id = ?", transactionID, userID).
		Delete(&models.TransactionItem{}).Error
}

func (s *GormStore) DeleteTransaction(ctx context.Context, userID, transactionID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Transaction{}, transactionID).Error
}
