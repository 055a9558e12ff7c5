package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/insurance/backend/internal/application/billing"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/interfaces/http/dto"
)

// PaymentHandler exposes payment operations
type PaymentHandler struct {
	BaseHandler
	service *appbilling.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *appbilling.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Record handles POST /payments
func (h *PaymentHandler) Record(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	payment, err := h.service.RecordPayment(c.Request.Context(), appbilling.RecordPaymentRequest{
		AccountID:       req.AccountID,
		InvoiceID:       req.InvoiceID,
		Amount:          req.Amount,
		PaymentDate:     parseDate(req.PaymentDate),
		Mode:            billing.PaymentMode(req.Mode),
		ReferenceNumber: req.ReferenceNumber,
		Actor:           getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromPayment(payment))
}

// Get handles GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromPayment(payment))
}

// Complete handles POST /payments/:id/complete. Retried deliveries carrying
// the same Idempotency-Key header are acknowledged without posting twice.
func (h *PaymentHandler) Complete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	result, err := h.service.CompletePayment(c.Request.Context(), appbilling.CompletePaymentRequest{
		PaymentID:      id,
		Actor:          getActor(c),
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel handles POST /payments/:id/cancel
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	payment, err := h.service.CancelPayment(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromPayment(payment))
}

// ListByAccount handles GET /accounts/:id/payments
func (h *PaymentHandler) ListByAccount(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	filter := billing.PaymentFilter{
		Filter:    listFilter(req.ListRequest),
		InvoiceID: req.InvoiceID,
	}
	if req.Status != "" {
		status := billing.PaymentStatus(req.Status)
		filter.Status = &status
	}

	payments, err := h.service.ListPayments(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromPayments(payments))
}
