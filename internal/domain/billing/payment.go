package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMode represents the method of payment
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeCard   PaymentMode = "CARD"
	PaymentModeCheque PaymentMode = "CHEQUE"
)

// IsValid checks if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCard, PaymentModeCheque:
		return true
	}
	return false
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the payment is in a terminal state
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled
}

// Payment is a money-movement record against a billing account, optionally
// targeting a specific invoice. Completing a payment transitions only the
// payment itself; propagating it to the invoice status and the account ledger
// is the transaction boundary's job in the application layer.
type Payment struct {
	shared.BaseAggregateRoot
	AccountID       uuid.UUID
	InvoiceID       *uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     valueobject.Date
	Mode            PaymentMode
	ReferenceNumber string
	Status          PaymentStatus
	Direction       TransactionDirection
}

// NewPayment creates a new payment in Pending status
func NewPayment(
	accountID uuid.UUID,
	amount decimal.Decimal,
	paymentDate valueobject.Date,
	mode PaymentMode,
	referenceNumber string,
	direction TransactionDirection,
	actor string,
	at time.Time,
) (*Payment, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmount(fmt.Sprintf("Payment amount must be positive, got %s", amount))
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_MODE", "Payment mode is not valid")
	}
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference number cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Transaction direction is not valid")
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor, at),
		AccountID:         accountID,
		Amount:            amount,
		PaymentDate:       paymentDate,
		Mode:              mode,
		ReferenceNumber:   referenceNumber,
		Status:            PaymentStatusPending,
		Direction:         direction,
	}

	p.AddDomainEvent(NewPaymentCreatedEvent(p, at))

	return p, nil
}

// WithInvoice targets the payment at a specific invoice
func (p *Payment) WithInvoice(invoiceID uuid.UUID) *Payment {
	p.InvoiceID = &invoiceID
	return p
}

// Complete marks the payment as Completed. Illegal only from Cancelled.
// Callers must then recompute the target invoice's payment status and apply
// the amount to the owning account within the same transaction.
func (p *Payment) Complete() error {
	if p.Status == PaymentStatusCancelled {
		return shared.NewInvalidTransition("Cannot complete a cancelled payment")
	}

	p.Status = PaymentStatusCompleted
	p.IncrementVersion()

	return nil
}

// Cancel marks the payment as Cancelled. A Completed payment can never be
// cancelled; reversal is done with an offsetting entry, never in place.
func (p *Payment) Cancel() error {
	if p.Status == PaymentStatusCompleted {
		return shared.NewInvalidTransition("Cannot cancel a completed payment")
	}

	p.Status = PaymentStatusCancelled
	p.IncrementVersion()

	return nil
}

// IsPending returns true if the payment is pending
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// IsCompleted returns true if the payment is completed
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
