package handler

import (
	"github.com/gin-gonic/gin"
	appcontract "github.com/insurance/backend/internal/application/contract"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/insurance/backend/internal/interfaces/http/dto"
)

// ContractHandler exposes master contract and contract operations
type ContractHandler struct {
	BaseHandler
	service *appcontract.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(service *appcontract.ContractService) *ContractHandler {
	return &ContractHandler{service: service}
}

// CreateMaster handles POST /master-contracts
func (h *ContractHandler) CreateMaster(c *gin.Context) {
	var req dto.CreateMasterContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	m, err := h.service.CreateMasterContract(c.Request.Context(), appcontract.CreateMasterContractRequest{
		MasterContractNumber: req.MasterContractNumber,
		PolicyholderName:     req.PolicyholderName,
		Currency:             valueobject.Currency(req.Currency),
		EffectiveDate:        parseDate(req.EffectiveDate),
		ExpirationDate:       parseDate(req.ExpirationDate),
		Actor:                getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromMasterContract(m))
}

// GetMaster handles GET /master-contracts/:id
func (h *ContractHandler) GetMaster(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	m, err := h.service.GetMasterContract(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromMasterContract(m))
}

// ListMasters handles GET /master-contracts
func (h *ContractHandler) ListMasters(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	masters, total, err := h.service.ListMasterContracts(c.Request.Context(), listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.FromMasterContracts(masters), total, req.Page, req.PageSize)
}

// ActivateMaster handles POST /master-contracts/:id/activate
func (h *ContractHandler) ActivateMaster(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	m, err := h.service.ActivateMasterContract(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromMasterContract(m))
}

// SuspendMaster handles POST /master-contracts/:id/suspend
func (h *ContractHandler) SuspendMaster(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	m, err := h.service.SuspendMasterContract(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromMasterContract(m))
}

// TerminateMaster handles POST /master-contracts/:id/terminate
func (h *ContractHandler) TerminateMaster(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.TerminateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	m, err := h.service.TerminateMasterContract(c.Request.Context(), id, parseDate(req.TerminationDate), getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromMasterContract(m))
}

// ListByMaster handles GET /master-contracts/:id/contracts
func (h *ContractHandler) ListByMaster(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.ListContractsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	filter := contract.ContractFilter{
		Filter:    listFilter(req.ListRequest),
		ProductID: req.ProductID,
	}
	if req.Status != "" {
		status := contract.ContractStatus(req.Status)
		filter.Status = &status
	}

	contracts, err := h.service.ListContractsByMaster(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromContracts(contracts))
}

// Create handles POST /contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	created, err := h.service.CreateContract(c.Request.Context(), appcontract.CreateContractRequest{
		ContractNumber:   req.ContractNumber,
		MasterContractID: req.MasterContractID,
		ProductID:        req.ProductID,
		Currency:         valueobject.Currency(req.Currency),
		PremiumAmount:    req.PremiumAmount,
		EffectiveDate:    parseDate(req.EffectiveDate),
		ExpirationDate:   parseDate(req.ExpirationDate),
		Actor:            getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromContract(created))
}

// Get handles GET /contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	found, err := h.service.GetContract(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromContract(found))
}

// Activate handles POST /contracts/:id/activate
func (h *ContractHandler) Activate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	activated, err := h.service.ActivateContract(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromContract(activated))
}

// Suspend handles POST /contracts/:id/suspend
func (h *ContractHandler) Suspend(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	suspended, err := h.service.SuspendContract(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromContract(suspended))
}

// Terminate handles POST /contracts/:id/terminate
func (h *ContractHandler) Terminate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.TerminateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	terminated, err := h.service.TerminateContract(c.Request.Context(), id, parseDate(req.TerminationDate), getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FromContract(terminated))
}
