package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its ID. Returns nil when no row matches.
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	var c contract.Contract
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindByNumber finds a contract by its business number
func (r *GormContractRepository) FindByNumber(ctx context.Context, contractNumber string) (*contract.Contract, error) {
	var c contract.Contract
	if err := r.db.WithContext(ctx).First(&c, "contract_number = ?", contractNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindByMasterContract finds contracts under a master contract
func (r *GormContractRepository) FindByMasterContract(ctx context.Context, masterContractID uuid.UUID, filter contract.ContractFilter) ([]contract.Contract, error) {
	var contracts []contract.Contract
	query := r.db.WithContext(ctx).Model(&contract.Contract{}).Where("master_contract_id = ?", masterContractID)
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	query = applyPagination(query, filter.Filter, ContractSortFields)

	if err := query.Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, c *contract.Contract) error {
	return translateError(r.db.WithContext(ctx).Save(c).Error)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormContractRepository) SaveWithLock(ctx context.Context, c *contract.Contract) error {
	result := r.db.WithContext(ctx).
		Model(c).
		Where("id = ? AND version = ?", c.ID, c.Version-1).
		Updates(map[string]interface{}{
			"status":           c.Status,
			"termination_date": c.TerminationDate,
			"version":          c.Version,
			"updated_at":       c.UpdatedAt,
			"updated_by":       c.UpdatedBy,
		})

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ contract.ContractRepository = (*GormContractRepository)(nil)
