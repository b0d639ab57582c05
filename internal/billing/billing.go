// Package billing creates the financial transaction that follows a completed
// appointment. The scheduling engine treats it as a best-effort collaborator.
package billing

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
)

// Creator records a transaction for a completed appointment.
type Creator interface {
	Create(ctx context.Context, tx models.Transaction) error
}

// GormCreator persists transactions through gorm.
type GormCreator struct {
	DB *gorm.DB
}

// NewGormCreator creates a Creator backed by the given connection.
func NewGormCreator(db *gorm.DB) *GormCreator {
	return &GormCreator{DB: db}
}

func (c *GormCreator) Create(ctx context.Context, tx models.Transaction) error {
	if tx.Status == "" {
		tx.Status = models.TransactionPending
	}
	return c.DB.WithContext(ctx).Create(&tx).Error
}
