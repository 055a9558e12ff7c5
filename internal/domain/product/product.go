package product

import (
	"fmt"
	"time"

	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductType represents the line of insurance business
type ProductType string

const (
	ProductTypeHealth     ProductType = "HEALTH"
	ProductTypeLife       ProductType = "LIFE"
	ProductTypeDental     ProductType = "DENTAL"
	ProductTypeVision     ProductType = "VISION"
	ProductTypeDisability ProductType = "DISABILITY"
)

// IsValid checks if the product type is valid
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeHealth, ProductTypeLife, ProductTypeDental, ProductTypeVision, ProductTypeDisability:
		return true
	}
	return false
}

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusDraft        ProductStatus = "DRAFT"
	ProductStatusActive       ProductStatus = "ACTIVE"
	ProductStatusInactive     ProductStatus = "INACTIVE"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// Product is an insurance product sold under contracts. Discontinuation is
// permanent; existing contracts on a discontinued product stay valid.
type Product struct {
	shared.BaseAggregateRoot
	ProductCode       string
	Name              string
	Description       string
	Type              ProductType
	Status            ProductStatus
	Currency          valueobject.Currency
	BasePremium       decimal.Decimal
	EffectiveDate     valueobject.Date
	ExpirationDate    *valueobject.Date
	MaxCoverageAmount *decimal.Decimal
	DeductibleAmount  *decimal.Decimal
}

// NewProduct creates a new product in Draft status
func NewProduct(
	productCode string,
	name string,
	productType ProductType,
	currency valueobject.Currency,
	basePremium decimal.Decimal,
	effectiveDate valueobject.Date,
	actor string,
	at time.Time,
) (*Product, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if !productType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type is not valid")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if basePremium.IsNegative() {
		return nil, shared.NewInvalidAmount("Base premium cannot be negative")
	}
	if effectiveDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EFFECTIVE_DATE", "Effective date is required")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor, at),
		ProductCode:       productCode,
		Name:              name,
		Type:              productType,
		Status:            ProductStatusDraft,
		Currency:          currency,
		BasePremium:       basePremium,
		EffectiveDate:     effectiveDate,
	}, nil
}

// Activate puts the product on sale. Illegal once Discontinued.
func (p *Product) Activate() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewInvalidTransition(fmt.Sprintf("Cannot activate discontinued product %s", p.ProductCode))
	}

	p.Status = ProductStatusActive
	p.IncrementVersion()

	return nil
}

// Deactivate takes the product off sale; existing contracts stay valid
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.IncrementVersion()
}

// Discontinue retires the product permanently
func (p *Product) Discontinue() {
	p.Status = ProductStatusDiscontinued
	p.IncrementVersion()
}

// IsAvailableForSale reports whether new contracts can be sold on this
// product on the given day
func (p *Product) IsAvailableForSale(today valueobject.Date) bool {
	return p.Status == ProductStatusActive &&
		p.EffectiveDate.BeforeOrEqual(today) &&
		(p.ExpirationDate == nil || p.ExpirationDate.After(today))
}

// CalculatePremium applies a rating multiplier to the base premium
func (p *Product) CalculatePremium(multiplier decimal.Decimal) (decimal.Decimal, error) {
	if multiplier.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewInvalidAmount("Premium multiplier must be positive")
	}
	return p.BasePremium.Mul(multiplier), nil
}
