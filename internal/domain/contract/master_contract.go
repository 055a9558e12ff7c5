package contract

import (
	"fmt"
	"time"

	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
)

// MasterContract is a group policy agreement with a policyholder. Contracts
// hang off it; its lifecycle gates theirs at the application layer.
type MasterContract struct {
	shared.BaseAggregateRoot
	MasterContractNumber string
	PolicyholderName     string
	Status               ContractStatus
	Currency             valueobject.Currency
	EffectiveDate        valueobject.Date
	ExpirationDate       valueobject.Date
	TerminationDate      *valueobject.Date
}

// NewMasterContract creates a new master contract in Draft status
func NewMasterContract(
	masterContractNumber string,
	policyholderName string,
	currency valueobject.Currency,
	effectiveDate valueobject.Date,
	expirationDate valueobject.Date,
	actor string,
	at time.Time,
) (*MasterContract, error) {
	if masterContractNumber == "" {
		return nil, shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Master contract number cannot be empty")
	}
	if policyholderName == "" {
		return nil, shared.NewDomainError("INVALID_POLICYHOLDER", "Policyholder name cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if effectiveDate.IsZero() || expirationDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Effective and expiration dates are required")
	}
	if !expirationDate.After(effectiveDate) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Expiration date must be after effective date")
	}

	m := &MasterContract{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(actor, at),
		MasterContractNumber: masterContractNumber,
		PolicyholderName:     policyholderName,
		Status:               ContractStatusDraft,
		Currency:             currency,
		EffectiveDate:        effectiveDate,
		ExpirationDate:       expirationDate,
	}

	m.AddDomainEvent(NewMasterContractCreatedEvent(m, at))

	return m, nil
}

// Activate moves the master contract to Active. Terminated and Expired are
// terminal for activation.
func (m *MasterContract) Activate() error {
	if !m.Status.CanActivate() {
		return shared.NewInvalidTransition(fmt.Sprintf("Cannot activate master contract %s from %s", m.MasterContractNumber, m.Status))
	}

	m.Status = ContractStatusActive
	m.IncrementVersion()

	return nil
}

// Suspend moves an Active master contract to Suspended
func (m *MasterContract) Suspend() error {
	if m.Status != ContractStatusActive {
		return shared.NewInvalidTransition(fmt.Sprintf("Only active master contracts can be suspended, %s is %s", m.MasterContractNumber, m.Status))
	}

	m.Status = ContractStatusSuspended
	m.IncrementVersion()

	return nil
}

// Terminate ends the master contract and records the termination date.
// Unconditional, termination wins from any state.
func (m *MasterContract) Terminate(terminationDate valueobject.Date) {
	m.Status = ContractStatusTerminated
	m.TerminationDate = &terminationDate
	m.IncrementVersion()
}

// IsActive reports whether the master contract is in force on the given day.
// The effective date is inclusive, the expiration date exclusive.
func (m *MasterContract) IsActive(today valueobject.Date) bool {
	return m.Status == ContractStatusActive &&
		m.EffectiveDate.BeforeOrEqual(today) &&
		m.ExpirationDate.After(today)
}
