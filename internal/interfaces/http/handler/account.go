package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/insurance/backend/internal/application/billing"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/insurance/backend/internal/interfaces/http/dto"
)

// AccountHandler exposes billing account operations
type AccountHandler struct {
	BaseHandler
	service *appbilling.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service *appbilling.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Open handles POST /accounts
func (h *AccountHandler) Open(c *gin.Context) {
	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	account, err := h.service.OpenAccount(c.Request.Context(), appbilling.OpenAccountRequest{
		AccountNumber:    req.AccountNumber,
		MasterContractID: req.MasterContractID,
		ContractID:       req.ContractID,
		Currency:         valueobject.Currency(req.Currency),
		AccountType:      billing.AccountType(req.AccountType),
		BillingCycle:     billing.BillingCycle(req.BillingCycle),
		Actor:            getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromAccount(account))
}

// Get handles GET /accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromAccount(account))
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	accounts, total, err := h.service.ListAccounts(c.Request.Context(), listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.FromAccounts(accounts), total, req.Page, req.PageSize)
}

// Deactivate handles POST /accounts/:id/deactivate
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	account, err := h.service.DeactivateAccount(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromAccount(account))
}

// RecordInstallment handles POST /accounts/:id/installments
func (h *AccountHandler) RecordInstallment(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.RecordInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	installment, err := h.service.RecordInstallment(c.Request.Context(), appbilling.RecordInstallmentRequest{
		AccountID:     id,
		ContractID:    req.ContractID,
		ProductID:     req.ProductID,
		MemberID:      req.MemberID,
		EndorsementID: req.EndorsementID,
		Type:          billing.InstallmentType(req.Type),
		Direction:     billing.TransactionDirection(req.Direction),
		Amount:        req.Amount,
		Tax:           req.Tax,
		DueDate:       parseDate(req.DueDate),
		Actor:         getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromInstallment(installment))
}

// ListInstallments handles GET /accounts/:id/installments
func (h *AccountHandler) ListInstallments(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.ListInstallmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	filter := billing.InstallmentFilter{
		Filter:   listFilter(req.ListRequest),
		Unbilled: req.Unbilled,
	}
	if req.Status != "" {
		status := billing.InstallmentStatus(req.Status)
		filter.Status = &status
	}
	if req.Type != "" {
		instType := billing.InstallmentType(req.Type)
		filter.Type = &instType
	}

	installments, err := h.service.ListInstallments(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromInstallments(installments))
}
