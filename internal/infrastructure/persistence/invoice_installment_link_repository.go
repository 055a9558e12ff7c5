package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormInvoiceInstallmentLinkRepository implements InvoiceInstallmentLinkRepository using GORM
type GormInvoiceInstallmentLinkRepository struct {
	db *gorm.DB
}

// NewGormInvoiceInstallmentLinkRepository creates a new GormInvoiceInstallmentLinkRepository
func NewGormInvoiceInstallmentLinkRepository(db *gorm.DB) *GormInvoiceInstallmentLinkRepository {
	return &GormInvoiceInstallmentLinkRepository{db: db}
}

// FindByInvoice finds all links for an invoice
func (r *GormInvoiceInstallmentLinkRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoiceInstallmentLink, error) {
	var links []billing.InvoiceInstallmentLink
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindByInstallment finds the link for an installment, if it is billed.
// Returns nil when no row matches.
func (r *GormInvoiceInstallmentLinkRepository) FindByInstallment(ctx context.Context, installmentID uuid.UUID) (*billing.InvoiceInstallmentLink, error) {
	var link billing.InvoiceInstallmentLink
	if err := r.db.WithContext(ctx).First(&link, "installment_id = ?", installmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// Save inserts a link row. The unique index on installment_id means an
// installment already billed on any invoice surfaces as a
// CONSTRAINT_VIOLATION domain error.
func (r *GormInvoiceInstallmentLinkRepository) Save(ctx context.Context, link *billing.InvoiceInstallmentLink) error {
	return translateError(r.db.WithContext(ctx).Create(link).Error)
}

var _ billing.InvoiceInstallmentLinkRepository = (*GormInvoiceInstallmentLinkRepository)(nil)
