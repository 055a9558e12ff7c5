package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/shopspring/decimal"
)

// CreateMasterContractRequest represents a request to draft a master contract
type CreateMasterContractRequest struct {
	MasterContractNumber string `json:"master_contract_number" binding:"required,max=50"`
	PolicyholderName     string `json:"policyholder_name" binding:"required,max=200"`
	Currency             string `json:"currency" binding:"required,len=3"`
	EffectiveDate        string `json:"effective_date" binding:"required,datetime=2006-01-02"`
	ExpirationDate       string `json:"expiration_date" binding:"required,datetime=2006-01-02"`
}

// CreateContractRequest represents a request to draft a contract under a
// master contract
type CreateContractRequest struct {
	ContractNumber   string          `json:"contract_number" binding:"required,max=50"`
	MasterContractID uuid.UUID       `json:"master_contract_id" binding:"required"`
	ProductID        uuid.UUID       `json:"product_id" binding:"required"`
	Currency         string          `json:"currency" binding:"required,len=3"`
	PremiumAmount    decimal.Decimal `json:"premium_amount" binding:"required"`
	EffectiveDate    string          `json:"effective_date" binding:"required,datetime=2006-01-02"`
	ExpirationDate   string          `json:"expiration_date" binding:"required,datetime=2006-01-02"`
}

// TerminateRequest carries the termination date for a lifecycle termination
type TerminateRequest struct {
	TerminationDate string `json:"termination_date" binding:"required,datetime=2006-01-02"`
}

// ListContractsRequest represents contract list query parameters
type ListContractsRequest struct {
	ListRequest
	Status    string     `form:"status" binding:"omitempty,oneof=DRAFT ACTIVE SUSPENDED TERMINATED EXPIRED PENDING_RENEWAL"`
	ProductID *uuid.UUID `form:"product_id"`
}

// CreateEndorsementRequest represents a request to raise a contract amendment
type CreateEndorsementRequest struct {
	EndorsementNumber string          `json:"endorsement_number" binding:"required,max=50"`
	ContractID        uuid.UUID       `json:"contract_id" binding:"required"`
	Type              string          `json:"type" binding:"required,oneof=ADDITION DELETION MODIFICATION RENEWAL CANCELLATION"`
	EffectiveDate     string          `json:"effective_date" binding:"required,datetime=2006-01-02"`
	PremiumAdjustment decimal.Decimal `json:"premium_adjustment"`
	Description       string          `json:"description" binding:"max=500"`
}

// ListEndorsementsRequest represents endorsement list query parameters
type ListEndorsementsRequest struct {
	ListRequest
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED PROCESSED CANCELLED"`
	Type   string `form:"type" binding:"omitempty,oneof=ADDITION DELETION MODIFICATION RENEWAL CANCELLATION"`
}

// MasterContractResponse represents a master contract
type MasterContractResponse struct {
	ID                   uuid.UUID `json:"id"`
	MasterContractNumber string    `json:"master_contract_number"`
	PolicyholderName     string    `json:"policyholder_name"`
	Status               string    `json:"status"`
	Currency             string    `json:"currency"`
	EffectiveDate        string    `json:"effective_date"`
	ExpirationDate       string    `json:"expiration_date"`
	TerminationDate      *string   `json:"termination_date,omitempty"`
	Version              int       `json:"version"`
	CreatedAt            time.Time `json:"created_at"`
	CreatedBy            string    `json:"created_by"`
	UpdatedAt            time.Time `json:"updated_at"`
	UpdatedBy            string    `json:"updated_by"`
}

// FromMasterContract maps a master contract aggregate to its response
func FromMasterContract(m *contract.MasterContract) MasterContractResponse {
	resp := MasterContractResponse{
		ID:                   m.ID,
		MasterContractNumber: m.MasterContractNumber,
		PolicyholderName:     m.PolicyholderName,
		Status:               string(m.Status),
		Currency:             string(m.Currency),
		EffectiveDate:        m.EffectiveDate.String(),
		ExpirationDate:       m.ExpirationDate.String(),
		Version:              m.Version,
		CreatedAt:            m.CreatedAt,
		CreatedBy:            m.CreatedBy,
		UpdatedAt:            m.UpdatedAt,
		UpdatedBy:            m.UpdatedBy,
	}
	if m.TerminationDate != nil {
		s := m.TerminationDate.String()
		resp.TerminationDate = &s
	}
	return resp
}

// FromMasterContracts maps a slice of master contracts
func FromMasterContracts(masters []contract.MasterContract) []MasterContractResponse {
	out := make([]MasterContractResponse, 0, len(masters))
	for i := range masters {
		out = append(out, FromMasterContract(&masters[i]))
	}
	return out
}

// ContractResponse represents a contract
type ContractResponse struct {
	ID               uuid.UUID       `json:"id"`
	ContractNumber   string          `json:"contract_number"`
	MasterContractID uuid.UUID       `json:"master_contract_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Status           string          `json:"status"`
	Currency         string          `json:"currency"`
	PremiumAmount    decimal.Decimal `json:"premium_amount"`
	EffectiveDate    string          `json:"effective_date"`
	ExpirationDate   string          `json:"expiration_date"`
	TerminationDate  *string         `json:"termination_date,omitempty"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	CreatedBy        string          `json:"created_by"`
	UpdatedAt        time.Time       `json:"updated_at"`
	UpdatedBy        string          `json:"updated_by"`
}

// FromContract maps a contract aggregate to its response
func FromContract(c *contract.Contract) ContractResponse {
	resp := ContractResponse{
		ID:               c.ID,
		ContractNumber:   c.ContractNumber,
		MasterContractID: c.MasterContractID,
		ProductID:        c.ProductID,
		Status:           string(c.Status),
		Currency:         string(c.Currency),
		PremiumAmount:    c.PremiumAmount,
		EffectiveDate:    c.EffectiveDate.String(),
		ExpirationDate:   c.ExpirationDate.String(),
		Version:          c.Version,
		CreatedAt:        c.CreatedAt,
		CreatedBy:        c.CreatedBy,
		UpdatedAt:        c.UpdatedAt,
		UpdatedBy:        c.UpdatedBy,
	}
	if c.TerminationDate != nil {
		s := c.TerminationDate.String()
		resp.TerminationDate = &s
	}
	return resp
}

// FromContracts maps a slice of contracts
func FromContracts(contracts []contract.Contract) []ContractResponse {
	out := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		out = append(out, FromContract(&contracts[i]))
	}
	return out
}

// EndorsementResponse represents an endorsement
type EndorsementResponse struct {
	ID                uuid.UUID       `json:"id"`
	EndorsementNumber string          `json:"endorsement_number"`
	ContractID        uuid.UUID       `json:"contract_id"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	EffectiveDate     string          `json:"effective_date"`
	PremiumAdjustment decimal.Decimal `json:"premium_adjustment"`
	Description       string          `json:"description,omitempty"`
	ProcessedOn       *time.Time      `json:"processed_on,omitempty"`
	ProcessedBy       string          `json:"processed_by,omitempty"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	CreatedBy         string          `json:"created_by"`
	UpdatedAt         time.Time       `json:"updated_at"`
	UpdatedBy         string          `json:"updated_by"`
}

// FromEndorsement maps an endorsement aggregate to its response
func FromEndorsement(e *contract.Endorsement) EndorsementResponse {
	return EndorsementResponse{
		ID:                e.ID,
		EndorsementNumber: e.EndorsementNumber,
		ContractID:        e.ContractID,
		Type:              string(e.Type),
		Status:            string(e.Status),
		EffectiveDate:     e.EffectiveDate.String(),
		PremiumAdjustment: e.PremiumAdjustment,
		Description:       e.Description,
		ProcessedOn:       e.ProcessedOn,
		ProcessedBy:       e.ProcessedBy,
		Version:           e.Version,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		UpdatedAt:         e.UpdatedAt,
		UpdatedBy:         e.UpdatedBy,
	}
}

// FromEndorsements maps a slice of endorsements
func FromEndorsements(endorsements []contract.Endorsement) []EndorsementResponse {
	out := make([]EndorsementResponse, 0, len(endorsements))
	for i := range endorsements {
		out = append(out, FromEndorsement(&endorsements[i]))
	}
	return out
}
