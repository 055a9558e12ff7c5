package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBillingAccountRepository implements BillingAccountRepository using GORM
type GormBillingAccountRepository struct {
	db *gorm.DB
}

// NewGormBillingAccountRepository creates a new GormBillingAccountRepository
func NewGormBillingAccountRepository(db *gorm.DB) *GormBillingAccountRepository {
	return &GormBillingAccountRepository{db: db}
}

// FindByID finds a billing account by its ID. Returns nil when no row matches.
func (r *GormBillingAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingAccount, error) {
	var account billing.BillingAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByAccountNumber finds a billing account by its business number
func (r *GormBillingAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*billing.BillingAccount, error) {
	var account billing.BillingAccount
	if err := r.db.WithContext(ctx).First(&account, "account_number = ?", accountNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByContract finds the billing account for a contract. There is at most
// one account per contract.
func (r *GormBillingAccountRepository) FindByContract(ctx context.Context, contractID uuid.UUID) (*billing.BillingAccount, error) {
	var account billing.BillingAccount
	if err := r.db.WithContext(ctx).First(&account, "contract_id = ?", contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindAll finds all billing accounts matching the filter
func (r *GormBillingAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.BillingAccount, error) {
	var accounts []billing.BillingAccount
	query := applyPagination(r.db.WithContext(ctx).Model(&billing.BillingAccount{}), filter, AccountSortFields)
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save creates or updates a billing account
func (r *GormBillingAccountRepository) Save(ctx context.Context, account *billing.BillingAccount) error {
	return translateError(r.db.WithContext(ctx).Save(account).Error)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormBillingAccountRepository) SaveWithLock(ctx context.Context, account *billing.BillingAccount) error {
	result := r.db.WithContext(ctx).
		Model(account).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Updates(map[string]interface{}{
			"outstanding_amount":  account.OutstandingAmount,
			"total_billed_amount": account.TotalBilledAmount,
			"status":              account.Status,
			"version":             account.Version,
			"updated_at":          account.UpdatedAt,
			"updated_by":          account.UpdatedBy,
		})

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts billing accounts matching the filter
func (r *GormBillingAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.BillingAccount{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyPagination applies pagination and ordering shared by the list queries
func applyPagination(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

var _ billing.BillingAccountRepository = (*GormBillingAccountRepository)(nil)
