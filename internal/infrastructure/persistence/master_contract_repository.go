package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMasterContractRepository implements MasterContractRepository using GORM
type GormMasterContractRepository struct {
	db *gorm.DB
}

// NewGormMasterContractRepository creates a new GormMasterContractRepository
func NewGormMasterContractRepository(db *gorm.DB) *GormMasterContractRepository {
	return &GormMasterContractRepository{db: db}
}

// FindByID finds a master contract by its ID. Returns nil when no row matches.
func (r *GormMasterContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.MasterContract, error) {
	var m contract.MasterContract
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// FindByNumber finds a master contract by its business number
func (r *GormMasterContractRepository) FindByNumber(ctx context.Context, masterContractNumber string) (*contract.MasterContract, error) {
	var m contract.MasterContract
	if err := r.db.WithContext(ctx).First(&m, "master_contract_number = ?", masterContractNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// FindAll finds all master contracts matching the filter
func (r *GormMasterContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contract.MasterContract, error) {
	var masters []contract.MasterContract
	query := applyPagination(r.db.WithContext(ctx).Model(&contract.MasterContract{}), filter, ContractSortFields)
	if err := query.Find(&masters).Error; err != nil {
		return nil, err
	}
	return masters, nil
}

// Save creates or updates a master contract
func (r *GormMasterContractRepository) Save(ctx context.Context, m *contract.MasterContract) error {
	return translateError(r.db.WithContext(ctx).Save(m).Error)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormMasterContractRepository) SaveWithLock(ctx context.Context, m *contract.MasterContract) error {
	result := r.db.WithContext(ctx).
		Model(m).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Updates(map[string]interface{}{
			"status":           m.Status,
			"termination_date": m.TerminationDate,
			"version":          m.Version,
			"updated_at":       m.UpdatedAt,
			"updated_by":       m.UpdatedBy,
		})

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts master contracts matching the filter
func (r *GormMasterContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&contract.MasterContract{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ contract.MasterContractRepository = (*GormMasterContractRepository)(nil)
