package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/member"
	"github.com/insurance/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by its ID. Returns nil when no row matches.
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	var m member.Member
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// FindByMemberNumber finds a member by its business number
func (r *GormMemberRepository) FindByMemberNumber(ctx context.Context, memberNumber string) (*member.Member, error) {
	var m member.Member
	if err := r.db.WithContext(ctx).First(&m, "member_number = ?", memberNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// FindByContract finds members enrolled under a contract
func (r *GormMemberRepository) FindByContract(ctx context.Context, contractID uuid.UUID, filter member.MemberFilter) ([]member.Member, error) {
	var members []member.Member
	query := r.db.WithContext(ctx).Model(&member.Member{}).Where("contract_id = ?", contractID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	query = applyPagination(query, filter.Filter, MemberSortFields)

	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, m *member.Member) error {
	return translateError(r.db.WithContext(ctx).Save(m).Error)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormMemberRepository) SaveWithLock(ctx context.Context, m *member.Member) error {
	result := r.db.WithContext(ctx).
		Model(m).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Updates(map[string]interface{}{
			"status":           m.Status,
			"termination_date": m.TerminationDate,
			"email":            m.Email,
			"phone_number":     m.PhoneNumber,
			"address":          m.Address,
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

// Count counts members matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, filter member.MemberFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&member.Member{})
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ member.MemberRepository = (*GormMemberRepository)(nil)
