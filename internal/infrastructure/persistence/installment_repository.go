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

// GormInstallmentRepository implements InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByID finds an installment by its ID. Returns nil when no row matches.
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Installment, error) {
	var installment billing.Installment
	if err := r.db.WithContext(ctx).First(&installment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &installment, nil
}

// FindByAccount finds installments on an account
func (r *GormInstallmentRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter billing.InstallmentFilter) ([]billing.Installment, error) {
	var installments []billing.Installment
	query := r.db.WithContext(ctx).Model(&billing.Installment{}).Where("account_id = ?", accountID)
	query = r.applyFilter(query, filter)
	query = applyPagination(query, filter.Filter, InstallmentSortFields)

	if err := query.Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// FindByEndorsement finds the installments realized from an endorsement.
// Used as the idempotency check when replaying endorsement events.
func (r *GormInstallmentRepository) FindByEndorsement(ctx context.Context, endorsementID uuid.UUID) ([]billing.Installment, error) {
	var installments []billing.Installment
	if err := r.db.WithContext(ctx).
		Where("endorsement_id = ?", endorsementID).
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// FindOverdue finds active installments with a due date strictly before asOf
func (r *GormInstallmentRepository) FindOverdue(ctx context.Context, asOf valueobject.Date) ([]billing.Installment, error) {
	var installments []billing.Installment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", billing.InstallmentStatusActive, asOf.Time()).
		Order("due_date ASC").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// Save creates or updates an installment
func (r *GormInstallmentRepository) Save(ctx context.Context, installment *billing.Installment) error {
	return translateError(r.db.WithContext(ctx).Save(installment).Error)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInstallmentRepository) SaveWithLock(ctx context.Context, installment *billing.Installment) error {
	result := r.db.WithContext(ctx).
		Model(installment).
		Where("id = ? AND version = ?", installment.ID, installment.Version-1).
		Updates(map[string]interface{}{
			"status":     installment.Status,
			"version":    installment.Version,
			"updated_at": installment.UpdatedAt,
			"updated_by": installment.UpdatedBy,
		})

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormInstallmentRepository) applyFilter(query *gorm.DB, filter billing.InstallmentFilter) *gorm.DB {
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", filter.DueBefore.Time())
	}
	if filter.Unbilled {
		query = query.Where("id NOT IN (?)",
			r.db.Model(&billing.InvoiceInstallmentLink{}).Select("installment_id"))
	}
	return query
}

var _ billing.InstallmentRepository = (*GormInstallmentRepository)(nil)
