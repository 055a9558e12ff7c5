package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID. Returns nil when no row matches.
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByInvoiceNumber finds an invoice by its business number
func (r *GormInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "invoice_number = ?", invoiceNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByAccount finds invoices on an account
func (r *GormInvoiceRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("account_id = ?", accountID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	query = applyPagination(query, filter.Filter, InvoiceSortFields)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindDueForOverdueSweep returns Issued and PartiallyPaid invoices created on
// or before the cutoff date
func (r *GormInvoiceRepository) FindDueForOverdueSweep(ctx context.Context, cutoff valueobject.Date) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	// the cutoff is inclusive, so compare against the start of the next day
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?",
			[]billing.InvoiceStatus{billing.InvoiceStatusIssued, billing.InvoiceStatusPartiallyPaid},
			cutoff.AddDays(1).Time()).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return translateError(r.db.WithContext(ctx).Save(invoice).Error)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(invoice).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(map[string]interface{}{
			"status":           invoice.Status,
			"cancelled_on":     invoice.CancelledOn,
			"cancelled_reason": invoice.CancelledReason,
			"version":          invoice.Version,
			"updated_at":       invoice.UpdatedAt,
			"updated_by":       invoice.UpdatedBy,
		})

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
