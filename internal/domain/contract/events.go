package contract

import (
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MasterContractCreatedEvent is raised when a master contract is drafted
type MasterContractCreatedEvent struct {
	shared.BaseDomainEvent
	MasterContractID     uuid.UUID `json:"master_contract_id"`
	MasterContractNumber string    `json:"master_contract_number"`
	PolicyholderName     string    `json:"policyholder_name"`
}

// EventType returns the event type name
func (e *MasterContractCreatedEvent) EventType() string {
	return "MasterContractCreated"
}

// NewMasterContractCreatedEvent creates a new MasterContractCreatedEvent
func NewMasterContractCreatedEvent(m *MasterContract, at time.Time) *MasterContractCreatedEvent {
	return &MasterContractCreatedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent("MasterContractCreated", "MasterContract", m.ID, at),
		MasterContractID:     m.ID,
		MasterContractNumber: m.MasterContractNumber,
		PolicyholderName:     m.PolicyholderName,
	}
}

// ContractCreatedEvent is raised when a contract is drafted
type ContractCreatedEvent struct {
	shared.BaseDomainEvent
	ContractID       uuid.UUID       `json:"contract_id"`
	ContractNumber   string          `json:"contract_number"`
	MasterContractID uuid.UUID       `json:"master_contract_id"`
	PremiumAmount    decimal.Decimal `json:"premium_amount"`
}

// EventType returns the event type name
func (e *ContractCreatedEvent) EventType() string {
	return "ContractCreated"
}

// NewContractCreatedEvent creates a new ContractCreatedEvent
func NewContractCreatedEvent(c *Contract, at time.Time) *ContractCreatedEvent {
	return &ContractCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("ContractCreated", "Contract", c.ID, at),
		ContractID:       c.ID,
		ContractNumber:   c.ContractNumber,
		MasterContractID: c.MasterContractID,
		PremiumAmount:    c.PremiumAmount,
	}
}

// ContractTerminatedEvent is raised when a contract is terminated
type ContractTerminatedEvent struct {
	shared.BaseDomainEvent
	ContractID      uuid.UUID        `json:"contract_id"`
	ContractNumber  string           `json:"contract_number"`
	TerminationDate valueobject.Date `json:"termination_date"`
}

// EventType returns the event type name
func (e *ContractTerminatedEvent) EventType() string {
	return "ContractTerminated"
}

// NewContractTerminatedEvent creates a new ContractTerminatedEvent
func NewContractTerminatedEvent(c *Contract, terminationDate valueobject.Date, at time.Time) *ContractTerminatedEvent {
	return &ContractTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ContractTerminated", "Contract", c.ID, at),
		ContractID:      c.ID,
		ContractNumber:  c.ContractNumber,
		TerminationDate: terminationDate,
	}
}

// EndorsementProcessedEvent is raised when an endorsement is applied; billing
// listens to realize the premium adjustment
type EndorsementProcessedEvent struct {
	shared.BaseDomainEvent
	EndorsementID     uuid.UUID        `json:"endorsement_id"`
	EndorsementNumber string           `json:"endorsement_number"`
	ContractID        uuid.UUID        `json:"contract_id"`
	Type              EndorsementType  `json:"type"`
	EffectiveDate     valueobject.Date `json:"effective_date"`
	PremiumAdjustment decimal.Decimal  `json:"premium_adjustment"`
	ProcessedBy       string           `json:"processed_by"`
}

// EventType returns the event type name
func (e *EndorsementProcessedEvent) EventType() string {
	return "EndorsementProcessed"
}

// NewEndorsementProcessedEvent creates a new EndorsementProcessedEvent
func NewEndorsementProcessedEvent(e *Endorsement, at time.Time) *EndorsementProcessedEvent {
	return &EndorsementProcessedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("EndorsementProcessed", "Endorsement", e.ID, at),
		EndorsementID:     e.ID,
		EndorsementNumber: e.EndorsementNumber,
		ContractID:        e.ContractID,
		Type:              e.Type,
		EffectiveDate:     e.EffectiveDate,
		PremiumAdjustment: e.PremiumAdjustment,
		ProcessedBy:       e.ProcessedBy,
	}
}
