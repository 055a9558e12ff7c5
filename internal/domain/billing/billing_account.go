package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of party billed through an account
type AccountType string

const (
	AccountTypeEmployer   AccountType = "EMPLOYER"
	AccountTypeIndividual AccountType = "INDIVIDUAL"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	return t == AccountTypeEmployer || t == AccountTypeIndividual
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// BillingCycle represents how often an account is billed
type BillingCycle string

const (
	BillingCycleAnnual    BillingCycle = "ANNUAL"
	BillingCycleQuarterly BillingCycle = "QUARTERLY"
	BillingCycleMonthly   BillingCycle = "MONTHLY"
)

// IsValid checks if the billing cycle is valid
func (c BillingCycle) IsValid() bool {
	switch c {
	case BillingCycleAnnual, BillingCycleQuarterly, BillingCycleMonthly:
		return true
	}
	return false
}

// String returns the string representation of BillingCycle
func (c BillingCycle) String() string {
	return string(c)
}

// AccountStatus represents the status of a billing account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// IsValid checks if the status is a valid AccountStatus
func (s AccountStatus) IsValid() bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

// String returns the string representation of AccountStatus
func (s AccountStatus) String() string {
	return string(s)
}

// BillingAccount is the ledger aggregate root for a contract's financial
// activity. OutstandingAmount is tracked incrementally: it equals the sum of
// all applied charges minus all applied payments since creation, and is never
// recomputed from history. TotalBilledAmount never decreases.
type BillingAccount struct {
	shared.BaseAggregateRoot
	AccountNumber     string
	MasterContractID  uuid.UUID
	ContractID        uuid.UUID
	Currency          valueobject.Currency
	AccountType       AccountType
	BillingCycle      BillingCycle
	OutstandingAmount decimal.Decimal
	TotalBilledAmount decimal.Decimal
	Status            AccountStatus
}

// NewBillingAccount creates a new billing account in Active status with a
// zero ledger
func NewBillingAccount(
	accountNumber string,
	masterContractID uuid.UUID,
	contractID uuid.UUID,
	currency valueobject.Currency,
	accountType AccountType,
	billingCycle BillingCycle,
	actor string,
	at time.Time,
) (*BillingAccount, error) {
	if accountNumber == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if len(accountNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot exceed 50 characters")
	}
	if masterContractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MASTER_CONTRACT", "Master contract ID cannot be empty")
	}
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}
	if !billingCycle.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_CYCLE", "Billing cycle is not valid")
	}

	a := &BillingAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor, at),
		AccountNumber:     accountNumber,
		MasterContractID:  masterContractID,
		ContractID:        contractID,
		Currency:          currency,
		AccountType:       accountType,
		BillingCycle:      billingCycle,
		OutstandingAmount: decimal.Zero,
		TotalBilledAmount: decimal.Zero,
		Status:            AccountStatusActive,
	}

	a.AddDomainEvent(NewBillingAccountCreatedEvent(a, at))

	return a, nil
}

// ApplyPayment decrements the outstanding balance by amount. The amount must
// be positive. The balance may go negative; an overpayment is a credit, not
// an error. Verifying the payment itself is Completed is the caller's job.
func (a *BillingAccount) ApplyPayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidAmount(fmt.Sprintf("Payment amount must be positive, got %s", amount))
	}

	a.OutstandingAmount = a.OutstandingAmount.Sub(amount)
	a.IncrementVersion()

	return nil
}

// AddCharge increments both the outstanding balance and the total billed
// amount. The amount must be positive.
func (a *BillingAccount) AddCharge(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidAmount(fmt.Sprintf("Charge amount must be positive, got %s", amount))
	}

	a.OutstandingAmount = a.OutstandingAmount.Add(amount)
	a.TotalBilledAmount = a.TotalBilledAmount.Add(amount)
	a.IncrementVersion()

	return nil
}

// Activate sets the account status to Active; idempotent
func (a *BillingAccount) Activate() {
	a.Status = AccountStatusActive
	a.IncrementVersion()
}

// Deactivate sets the account status to Inactive; idempotent
func (a *BillingAccount) Deactivate() {
	a.Status = AccountStatusInactive
	a.IncrementVersion()
}

// IsActive returns true if the account status is Active
func (a *BillingAccount) IsActive() bool {
	return a.Status == AccountStatusActive
}

// GetOutstandingMoney returns the outstanding balance as Money
func (a *BillingAccount) GetOutstandingMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(a.OutstandingAmount, a.Currency)
	return m
}

// GetTotalBilledMoney returns the total billed amount as Money
func (a *BillingAccount) GetTotalBilledMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(a.TotalBilledAmount, a.Currency)
	return m
}
