package repository

import (
	"context"

	"gorm.io/gorm"

	"consignparts/internal/model"
)

// InvoiceInfoRepository manages the singleton billing-entity record.
type InvoiceInfoRepository interface {
	Get(ctx context.Context) (*model.InvoiceInfo, error)
	Upsert(ctx context.Context, info *model.InvoiceInfo) error
}

type invoiceInfoRepository struct {
	db *gorm.DB
}

// NewInvoiceInfoRepository builds a GORM-backed repository.
func NewInvoiceInfoRepository(db *gorm.DB) InvoiceInfoRepository {
	return &invoiceInfoRepository{db: db}
}

// Get returns the first (and only) billing record.
func (r *invoiceInfoRepository) Get(ctx context.Context) (*model.InvoiceInfo, error) {
	var info model.InvoiceInfo
	if err := r.db.WithContext(ctx).First(&info).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

// Upsert replaces the billing record, creating it on first write.
func (r *invoiceInfoRepository) Upsert(ctx context.Context, info *model.InvoiceInfo) error {
	var existing model.InvoiceInfo
	err := r.db.WithContext(ctx).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(info).Error
	}
	if err != nil {
		return err
	}
	info.ID = existing.ID
	return r.db.WithContext(ctx).Save(info).Error
}
