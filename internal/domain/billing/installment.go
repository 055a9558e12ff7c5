package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InstallmentType represents the kind of scheduled line item
type InstallmentType string

const (
	InstallmentTypePremium    InstallmentType = "PREMIUM"
	InstallmentTypeFee        InstallmentType = "FEE"
	InstallmentTypeAdjustment InstallmentType = "ADJUSTMENT"
	InstallmentTypeRefund     InstallmentType = "REFUND"
)

// IsValid checks if the installment type is valid
func (t InstallmentType) IsValid() bool {
	switch t {
	case InstallmentTypePremium, InstallmentTypeFee, InstallmentTypeAdjustment, InstallmentTypeRefund:
		return true
	}
	return false
}

// String returns the string representation of InstallmentType
func (t InstallmentType) String() string {
	return string(t)
}

// TransactionDirection represents whether money moves toward or away from the insurer
type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "CREDIT"
	DirectionDebit  TransactionDirection = "DEBIT"
)

// IsValid checks if the direction is valid
func (d TransactionDirection) IsValid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// String returns the string representation of TransactionDirection
func (d TransactionDirection) String() string {
	return string(d)
}

// InstallmentStatus represents the status of an installment
type InstallmentStatus string

const (
	InstallmentStatusActive   InstallmentStatus = "ACTIVE"
	InstallmentStatusInactive InstallmentStatus = "INACTIVE"
)

// IsValid checks if the status is valid
func (s InstallmentStatus) IsValid() bool {
	return s == InstallmentStatusActive || s == InstallmentStatusInactive
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// Installment is one scheduled charge or credit line item against a billing
// account. Member and endorsement references are optional weak references
// into other bounded contexts.
type Installment struct {
	shared.BaseAggregateRoot
	AccountID     uuid.UUID
	ContractID    uuid.UUID
	ProductID     uuid.UUID
	MemberID      *uuid.UUID
	EndorsementID *uuid.UUID
	Type          InstallmentType
	Direction     TransactionDirection
	Amount        decimal.Decimal
	Tax           decimal.Decimal
	DueDate       valueobject.Date
	Status        InstallmentStatus
}

// NewInstallment creates a new active installment
func NewInstallment(
	accountID uuid.UUID,
	contractID uuid.UUID,
	productID uuid.UUID,
	installmentType InstallmentType,
	direction TransactionDirection,
	amount decimal.Decimal,
	tax decimal.Decimal,
	dueDate valueobject.Date,
	actor string,
	at time.Time,
) (*Installment, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !installmentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT_TYPE", "Installment type is not valid")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Transaction direction is not valid")
	}
	if amount.IsNegative() {
		return nil, shared.NewInvalidAmount("Installment amount cannot be negative")
	}
	if tax.IsNegative() {
		return nil, shared.NewInvalidAmount("Installment tax cannot be negative")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	return &Installment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor, at),
		AccountID:         accountID,
		ContractID:        contractID,
		ProductID:         productID,
		Type:              installmentType,
		Direction:         direction,
		Amount:            amount,
		Tax:               tax,
		DueDate:           dueDate,
		Status:            InstallmentStatusActive,
	}, nil
}

// WithMember attaches the covered member reference
func (i *Installment) WithMember(memberID uuid.UUID) *Installment {
	i.MemberID = &memberID
	return i
}

// WithEndorsement attaches the originating endorsement reference
func (i *Installment) WithEndorsement(endorsementID uuid.UUID) *Installment {
	i.EndorsementID = &endorsementID
	return i
}

// TotalWithTax returns amount plus tax
func (i *Installment) TotalWithTax() decimal.Decimal {
	return i.Amount.Add(i.Tax)
}

// IsOverdue returns true if the installment is active and its due date is
// strictly before today. Inactive or future-dated installments are never
// overdue.
func (i *Installment) IsOverdue(today valueobject.Date) bool {
	return i.Status == InstallmentStatusActive && i.DueDate.Before(today)
}

// Deactivate logically removes the installment
func (i *Installment) Deactivate() {
	i.Status = InstallmentStatusInactive
	i.IncrementVersion()
}
