package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/bikezone/internal/models"
)

// GormStore persists orders and payments through the application database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// InsertOrder writes the order and returns its generated identifier.
func (s *GormStore) InsertOrder(ctx context.Context, order *models.Order) (string, error) {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return "", err
	}
	return order.ID.String(), nil
}

// InsertPayment writes the payment record.
func (s *GormStore) InsertPayment(ctx context.Context, payment *models.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}
