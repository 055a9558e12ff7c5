package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/product"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to draft a product
type CreateProductRequest struct {
	ProductCode       string           `json:"product_code" binding:"required,max=50"`
	Name              string           `json:"name" binding:"required,max=200"`
	Description       string           `json:"description" binding:"omitempty,max=1000"`
	Type              string           `json:"type" binding:"required,oneof=HEALTH LIFE DENTAL VISION DISABILITY"`
	Currency          string           `json:"currency" binding:"required,len=3"`
	BasePremium       decimal.Decimal  `json:"base_premium" binding:"required"`
	EffectiveDate     string           `json:"effective_date" binding:"required,datetime=2006-01-02"`
	ExpirationDate    string           `json:"expiration_date" binding:"omitempty,datetime=2006-01-02"`
	MaxCoverageAmount *decimal.Decimal `json:"max_coverage_amount,omitempty"`
	DeductibleAmount  *decimal.Decimal `json:"deductible_amount,omitempty"`
}

// ListProductsRequest represents product list query parameters
type ListProductsRequest struct {
	ListRequest
	Type   string `form:"type" binding:"omitempty,oneof=HEALTH LIFE DENTAL VISION DISABILITY"`
	Status string `form:"status" binding:"omitempty,oneof=DRAFT ACTIVE INACTIVE DISCONTINUED"`
}

// ProductResponse represents a product
type ProductResponse struct {
	ID                uuid.UUID        `json:"id"`
	ProductCode       string           `json:"product_code"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Type              string           `json:"type"`
	Status            string           `json:"status"`
	Currency          string           `json:"currency"`
	BasePremium       decimal.Decimal  `json:"base_premium"`
	EffectiveDate     string           `json:"effective_date"`
	ExpirationDate    *string          `json:"expiration_date,omitempty"`
	MaxCoverageAmount *decimal.Decimal `json:"max_coverage_amount,omitempty"`
	DeductibleAmount  *decimal.Decimal `json:"deductible_amount,omitempty"`
	Version           int              `json:"version"`
	CreatedAt         time.Time        `json:"created_at"`
	CreatedBy         string           `json:"created_by"`
	UpdatedAt         time.Time        `json:"updated_at"`
	UpdatedBy         string           `json:"updated_by"`
}

// FromProduct maps a product aggregate to its response
func FromProduct(p *product.Product) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID,
		ProductCode:       p.ProductCode,
		Name:              p.Name,
		Description:       p.Description,
		Type:              string(p.Type),
		Status:            string(p.Status),
		Currency:          string(p.Currency),
		BasePremium:       p.BasePremium,
		EffectiveDate:     p.EffectiveDate.String(),
		MaxCoverageAmount: p.MaxCoverageAmount,
		DeductibleAmount:  p.DeductibleAmount,
		Version:           p.Version,
		CreatedAt:         p.CreatedAt,
		CreatedBy:         p.CreatedBy,
		UpdatedAt:         p.UpdatedAt,
		UpdatedBy:         p.UpdatedBy,
	}
	if p.ExpirationDate != nil {
		s := p.ExpirationDate.String()
		resp.ExpirationDate = &s
	}
	return resp
}

// FromProducts maps a slice of products
func FromProducts(products []product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, FromProduct(&products[i]))
	}
	return out
}
