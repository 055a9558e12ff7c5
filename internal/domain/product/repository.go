package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
)

// ProductFilter defines filtering options for product queries
type ProductFilter struct {
	shared.Filter
	Type   *ProductType
	Status *ProductStatus
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByProductCode(ctx context.Context, productCode string) (*Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	SaveWithLock(ctx context.Context, product *Product) error
}
