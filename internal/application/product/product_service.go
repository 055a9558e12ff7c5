package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/product"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles the product catalog lifecycle
type ProductService struct {
	productRepo product.ProductRepository
	clock       shared.Clock
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo product.ProductRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		clock:       clock,
		logger:      logger,
	}
}

// CreateProductRequest represents a request to draft a product
type CreateProductRequest struct {
	ProductCode       string
	Name              string
	Description       string
	Type              product.ProductType
	Currency          valueobject.Currency
	BasePremium       decimal.Decimal
	EffectiveDate     valueobject.Date
	ExpirationDate    *valueobject.Date
	MaxCoverageAmount *decimal.Decimal
	DeductibleAmount  *decimal.Decimal
	Actor             string
}

// CreateProduct drafts a new product. The product code must be unique.
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*product.Product, error) {
	existing, err := s.productRepo.FindByProductCode(ctx, req.ProductCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check product code: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_PRODUCT_CODE", fmt.Sprintf("Product code %s already exists", req.ProductCode))
	}

	p, err := product.NewProduct(
		req.ProductCode,
		req.Name,
		req.Type,
		req.Currency,
		req.BasePremium,
		req.EffectiveDate,
		req.Actor,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}
	p.Description = req.Description
	p.ExpirationDate = req.ExpirationDate
	p.MaxCoverageAmount = req.MaxCoverageAmount
	p.DeductibleAmount = req.DeductibleAmount

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_code", p.ProductCode),
		zap.String("type", string(p.Type)))

	return p, nil
}

// ActivateProduct puts the product on sale
func (s *ProductService) ActivateProduct(ctx context.Context, productID uuid.UUID, actor string) (*product.Product, error) {
	p, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := p.Activate(); err != nil {
		return nil, err
	}
	p.RecordModification(actor, s.clock.Now())

	if err := s.productRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeactivateProduct takes the product off sale; existing contracts stay valid
func (s *ProductService) DeactivateProduct(ctx context.Context, productID uuid.UUID, actor string) (*product.Product, error) {
	p, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	p.Deactivate()
	p.RecordModification(actor, s.clock.Now())

	if err := s.productRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DiscontinueProduct retires the product permanently
func (s *ProductService) DiscontinueProduct(ctx context.Context, productID uuid.UUID, actor string) (*product.Product, error) {
	p, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	p.Discontinue()
	p.RecordModification(actor, s.clock.Now())

	if err := s.productRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct loads a product by ID
func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*product.Product, error) {
	return s.loadProduct(ctx, productID)
}

// ListProducts lists products matching the filter
func (s *ProductService) ListProducts(ctx context.Context, filter product.ProductFilter) ([]product.Product, error) {
	return s.productRepo.FindAll(ctx, filter)
}

func (s *ProductService) loadProduct(ctx context.Context, productID uuid.UUID) (*product.Product, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if p == nil {
		return nil, shared.ErrNotFound
	}
	return p, nil
}
