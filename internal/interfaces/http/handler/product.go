package handler

import (
	"github.com/gin-gonic/gin"
	appproduct "github.com/insurance/backend/internal/application/product"
	"github.com/insurance/backend/internal/domain/product"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/insurance/backend/internal/interfaces/http/dto"
)

// ProductHandler exposes product catalog operations
type ProductHandler struct {
	BaseHandler
	service *appproduct.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service *appproduct.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	appReq := appproduct.CreateProductRequest{
		ProductCode:       req.ProductCode,
		Name:              req.Name,
		Description:       req.Description,
		Type:              product.ProductType(req.Type),
		Currency:          valueobject.Currency(req.Currency),
		BasePremium:       req.BasePremium,
		EffectiveDate:     parseDate(req.EffectiveDate),
		MaxCoverageAmount: req.MaxCoverageAmount,
		DeductibleAmount:  req.DeductibleAmount,
		Actor:             getActor(c),
	}
	if req.ExpirationDate != "" {
		exp := parseDate(req.ExpirationDate)
		appReq.ExpirationDate = &exp
	}

	p, err := h.service.CreateProduct(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromProduct(p))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	p, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromProduct(p))
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	filter := product.ProductFilter{Filter: listFilter(req.ListRequest)}
	if req.Type != "" {
		prodType := product.ProductType(req.Type)
		filter.Type = &prodType
	}
	if req.Status != "" {
		status := product.ProductStatus(req.Status)
		filter.Status = &status
	}

	products, err := h.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromProducts(products))
}

// Activate handles POST /products/:id/activate
func (h *ProductHandler) Activate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	p, err := h.service.ActivateProduct(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromProduct(p))
}

// Deactivate handles POST /products/:id/deactivate
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	p, err := h.service.DeactivateProduct(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromProduct(p))
}

// Discontinue handles POST /products/:id/discontinue
func (h *ProductHandler) Discontinue(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	p, err := h.service.DiscontinueProduct(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromProduct(p))
}
