package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/insurance/backend/internal/application/billing"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/interfaces/http/dto"
)

// InvoiceHandler exposes invoice operations
type InvoiceHandler struct {
	BaseHandler
	service *appbilling.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service *appbilling.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateDraftInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	invoice, err := h.service.CreateDraftInvoice(c.Request.Context(), appbilling.CreateDraftInvoiceRequest{
		AccountID:      req.AccountID,
		InvoiceNumber:  req.InvoiceNumber,
		InstallmentIDs: req.InstallmentIDs,
		Actor:          getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromInvoice(invoice))
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	invoice, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromInvoice(invoice))
}

// Issue handles POST /invoices/:id/issue
func (h *InvoiceHandler) Issue(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	invoice, err := h.service.IssueInvoice(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromInvoice(invoice))
}

// Cancel handles POST /invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	invoice, err := h.service.CancelInvoice(c.Request.Context(), id, req.Reason, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromInvoice(invoice))
}

// SweepOverdue handles POST /invoices/sweep-overdue
func (h *InvoiceHandler) SweepOverdue(c *gin.Context) {
	var req dto.SweepOverdueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.service.SweepOverdue(c.Request.Context(), parseDate(req.Cutoff), getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListByAccount handles GET /accounts/:id/invoices
func (h *InvoiceHandler) ListByAccount(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	filter := billing.InvoiceFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := billing.InvoiceStatus(req.Status)
		filter.Status = &status
	}

	invoices, err := h.service.ListInvoices(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromInvoices(invoices))
}
