package handler

import (
	"github.com/gin-gonic/gin"
	appmember "github.com/insurance/backend/internal/application/member"
	"github.com/insurance/backend/internal/domain/member"
	"github.com/insurance/backend/internal/interfaces/http/dto"
)

// MemberHandler exposes member enrollment and lifecycle operations
type MemberHandler struct {
	BaseHandler
	service *appmember.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(service *appmember.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// Enroll handles POST /members
func (h *MemberHandler) Enroll(c *gin.Context) {
	var req dto.EnrollMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	m, err := h.service.EnrollMember(c.Request.Context(), appmember.EnrollMemberRequest{
		MemberNumber:  req.MemberNumber,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfBirth:   parseDate(req.DateOfBirth),
		Gender:        member.Gender(req.Gender),
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		ContractID:    req.ContractID,
		EffectiveDate: parseDate(req.EffectiveDate),
		Actor:         getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromMember(m))
}

// Get handles GET /members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	m, err := h.service.GetMember(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromMember(m))
}

// Activate handles POST /members/:id/activate
func (h *MemberHandler) Activate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	m, err := h.service.ActivateMember(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromMember(m))
}

// Suspend handles POST /members/:id/suspend
func (h *MemberHandler) Suspend(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	m, err := h.service.SuspendMember(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromMember(m))
}

// Terminate handles POST /members/:id/terminate
func (h *MemberHandler) Terminate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.TerminateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	m, err := h.service.TerminateMember(c.Request.Context(), id, parseDate(req.TerminationDate), getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromMember(m))
}

// UpdateContactInfo handles PUT /members/:id/contact-info
func (h *MemberHandler) UpdateContactInfo(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateContactInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	m, err := h.service.UpdateContactInfo(c.Request.Context(), appmember.UpdateContactInfoRequest{
		MemberID:    id,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Actor:       getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromMember(m))
}

// ListByContract handles GET /contracts/:id/members
func (h *MemberHandler) ListByContract(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.ListMembersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	filter := member.MemberFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := member.MemberStatus(req.Status)
		filter.Status = &status
	}

	members, total, err := h.service.ListByContract(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.FromMembers(members), total, req.Page, req.PageSize)
}
