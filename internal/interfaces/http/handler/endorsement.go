package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcontract "github.com/insurance/backend/internal/application/contract"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/interfaces/http/dto"
)

// EndorsementHandler exposes the endorsement workflow
type EndorsementHandler struct {
	BaseHandler
	service *appcontract.EndorsementService
}

// NewEndorsementHandler creates a new EndorsementHandler
func NewEndorsementHandler(service *appcontract.EndorsementService) *EndorsementHandler {
	return &EndorsementHandler{service: service}
}

// Create handles POST /endorsements
func (h *EndorsementHandler) Create(c *gin.Context) {
	var req dto.CreateEndorsementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	e, err := h.service.CreateEndorsement(c.Request.Context(), appcontract.CreateEndorsementRequest{
		EndorsementNumber: req.EndorsementNumber,
		ContractID:        req.ContractID,
		Type:              contract.EndorsementType(req.Type),
		EffectiveDate:     parseDate(req.EffectiveDate),
		PremiumAdjustment: req.PremiumAdjustment,
		Description:       req.Description,
		Actor:             getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromEndorsement(e))
}

// Get handles GET /endorsements/:id
func (h *EndorsementHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	e, err := h.service.GetEndorsement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromEndorsement(e))
}

// Approve handles POST /endorsements/:id/approve
func (h *EndorsementHandler) Approve(c *gin.Context) {
	h.transition(c, h.service.ApproveEndorsement)
}

// Reject handles POST /endorsements/:id/reject
func (h *EndorsementHandler) Reject(c *gin.Context) {
	h.transition(c, h.service.RejectEndorsement)
}

// Cancel handles POST /endorsements/:id/cancel
func (h *EndorsementHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.CancelEndorsement)
}

// Process handles POST /endorsements/:id/process
func (h *EndorsementHandler) Process(c *gin.Context) {
	h.transition(c, h.service.ProcessEndorsement)
}

// ListByContract handles GET /contracts/:id/endorsements
func (h *EndorsementHandler) ListByContract(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.ListEndorsementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	filter := contract.EndorsementFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := contract.EndorsementStatus(req.Status)
		filter.Status = &status
	}
	if req.Type != "" {
		endType := contract.EndorsementType(req.Type)
		filter.Type = &endType
	}

	endorsements, err := h.service.ListEndorsementsByContract(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromEndorsements(endorsements))
}

// transition runs one of the single-step endorsement state changes
func (h *EndorsementHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID, actor string) (*contract.Endorsement, error),
) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	e, err := op(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromEndorsement(e))
}
