package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormEndorsementRepository implements EndorsementRepository using GORM
type GormEndorsementRepository struct {
	db *gorm.DB
}

// NewGormEndorsementRepository creates a new GormEndorsementRepository
func NewGormEndorsementRepository(db *gorm.DB) *GormEndorsementRepository {
	return &GormEndorsementRepository{db: db}
}

// FindByID finds an endorsement by its ID. Returns nil when no row matches.
func (r *GormEndorsementRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.Endorsement, error) {
	var e contract.Endorsement
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// FindByNumber finds an endorsement by its business number
func (r *GormEndorsementRepository) FindByNumber(ctx context.Context, endorsementNumber string) (*contract.Endorsement, error) {
	var e contract.Endorsement
	if err := r.db.WithContext(ctx).First(&e, "endorsement_number = ?", endorsementNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// FindByContract finds endorsements against a contract
func (r *GormEndorsementRepository) FindByContract(ctx context.Context, contractID uuid.UUID, filter contract.EndorsementFilter) ([]contract.Endorsement, error) {
	var endorsements []contract.Endorsement
	query := r.db.WithContext(ctx).Model(&contract.Endorsement{}).Where("contract_id = ?", contractID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	query = applyPagination(query, filter.Filter, EndorsementSortFields)

	if err := query.Find(&endorsements).Error; err != nil {
		return nil, err
	}
	return endorsements, nil
}

// Save creates or updates an endorsement
func (r *GormEndorsementRepository) Save(ctx context.Context, e *contract.Endorsement) error {
	return translateError(r.db.WithContext(ctx).Save(e).Error)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormEndorsementRepository) SaveWithLock(ctx context.Context, e *contract.Endorsement) error {
	result := r.db.WithContext(ctx).
		Model(e).
		Where("id = ? AND version = ?", e.ID, e.Version-1).
		Updates(map[string]interface{}{
			"status":       e.Status,
			"processed_on": e.ProcessedOn,
			"processed_by": e.ProcessedBy,
			"version":      e.Version,
			"updated_at":   e.UpdatedAt,
			"updated_by":   e.UpdatedBy,
		})

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ contract.EndorsementRepository = (*GormEndorsementRepository)(nil)
