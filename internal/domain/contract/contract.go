package contract

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Contract is an individual policy under a master contract, covering one
// product for a coverage period.
type Contract struct {
	shared.BaseAggregateRoot
	ContractNumber   string
	MasterContractID uuid.UUID
	ProductID        uuid.UUID
	Status           ContractStatus
	Currency         valueobject.Currency
	PremiumAmount    decimal.Decimal
	EffectiveDate    valueobject.Date
	ExpirationDate   valueobject.Date
	TerminationDate  *valueobject.Date
}

// NewContract creates a new contract in Draft status
func NewContract(
	contractNumber string,
	masterContractID uuid.UUID,
	productID uuid.UUID,
	currency valueobject.Currency,
	premiumAmount decimal.Decimal,
	effectiveDate valueobject.Date,
	expirationDate valueobject.Date,
	actor string,
	at time.Time,
) (*Contract, error) {
	if contractNumber == "" {
		return nil, shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot be empty")
	}
	if masterContractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MASTER_CONTRACT", "Master contract ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if premiumAmount.IsNegative() {
		return nil, shared.NewInvalidAmount("Premium amount cannot be negative")
	}
	if effectiveDate.IsZero() || expirationDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Effective and expiration dates are required")
	}
	if !expirationDate.After(effectiveDate) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Expiration date must be after effective date")
	}

	c := &Contract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor, at),
		ContractNumber:    contractNumber,
		MasterContractID:  masterContractID,
		ProductID:         productID,
		Status:            ContractStatusDraft,
		Currency:          currency,
		PremiumAmount:     premiumAmount,
		EffectiveDate:     effectiveDate,
		ExpirationDate:    expirationDate,
	}

	c.AddDomainEvent(NewContractCreatedEvent(c, at))

	return c, nil
}

// Activate moves the contract to Active. Terminated and Expired are terminal
// for activation.
func (c *Contract) Activate() error {
	if !c.Status.CanActivate() {
		return shared.NewInvalidTransition(fmt.Sprintf("Cannot activate contract %s from %s", c.ContractNumber, c.Status))
	}

	c.Status = ContractStatusActive
	c.IncrementVersion()

	return nil
}

// Suspend moves an Active contract to Suspended
func (c *Contract) Suspend() error {
	if c.Status != ContractStatusActive {
		return shared.NewInvalidTransition(fmt.Sprintf("Only active contracts can be suspended, %s is %s", c.ContractNumber, c.Status))
	}

	c.Status = ContractStatusSuspended
	c.IncrementVersion()

	return nil
}

// Terminate ends the contract and records the termination date.
// Unconditional, termination wins from any state.
func (c *Contract) Terminate(terminationDate valueobject.Date, at time.Time) {
	c.Status = ContractStatusTerminated
	c.TerminationDate = &terminationDate
	c.IncrementVersion()

	c.AddDomainEvent(NewContractTerminatedEvent(c, terminationDate, at))
}

// IsActive reports whether the contract is in force on the given day. The
// effective date is inclusive, the expiration date exclusive.
func (c *Contract) IsActive(today valueobject.Date) bool {
	return c.Status == ContractStatusActive &&
		c.EffectiveDate.BeforeOrEqual(today) &&
		c.ExpirationDate.After(today)
}

// RemainingDays returns the number of coverage days left until expiration,
// never negative.
func (c *Contract) RemainingDays(today valueobject.Date) int {
	if c.ExpirationDate.BeforeOrEqual(today) {
		return 0
	}
	return c.ExpirationDate.DayNumber() - today.DayNumber()
}
