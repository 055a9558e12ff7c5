package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/product"
	"github.com/insurance/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID. Returns nil when no row matches.
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FindByProductCode finds a product by its business code
func (r *GormProductRepository) FindByProductCode(ctx context.Context, productCode string) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).First(&p, "product_code = ?", productCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter product.ProductFilter) ([]product.Product, error) {
	var products []product.Product
	query := r.db.WithContext(ctx).Model(&product.Product{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	query = applyPagination(query, filter.Filter, ProductSortFields)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *product.Product) error {
	return translateError(r.db.WithContext(ctx).Save(p).Error)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormProductRepository) SaveWithLock(ctx context.Context, p *product.Product) error {
	result := r.db.WithContext(ctx).
		Model(p).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(map[string]interface{}{
			"status":              p.Status,
			"base_premium":        p.BasePremium,
			"expiration_date":     p.ExpirationDate,
			"max_coverage_amount": p.MaxCoverageAmount,
			"deductible_amount":   p.DeductibleAmount,
			"version":             p.Version,
			"updated_at":          p.UpdatedAt,
			"updated_by":          p.UpdatedBy,
		})

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ product.ProductRepository = (*GormProductRepository)(nil)
