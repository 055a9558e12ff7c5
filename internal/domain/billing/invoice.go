package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusIssued        InvoiceStatus = "ISSUED"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanMarkOverdue returns true if a scheduled sweep may move this status to Overdue
func (s InvoiceStatus) CanMarkOverdue() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusPartiallyPaid
}

// Invoice is a billed bundle of installments. Amount and Tax are aggregates
// fixed at issue time; they are not recomputed from linked installments after
// issuance. Once Cancelled an invoice is immutable.
type Invoice struct {
	shared.BaseAggregateRoot
	AccountID       uuid.UUID
	InvoiceNumber   string
	Amount          decimal.Decimal
	Tax             decimal.Decimal
	Status          InvoiceStatus
	CancelledOn     *time.Time
	CancelledReason string
}

// NewInvoice creates a new invoice in Draft status
func NewInvoice(
	accountID uuid.UUID,
	invoiceNumber string,
	amount decimal.Decimal,
	tax decimal.Decimal,
	actor string,
	at time.Time,
) (*Invoice, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if amount.IsNegative() {
		return nil, shared.NewInvalidAmount("Invoice amount cannot be negative")
	}
	if tax.IsNegative() {
		return nil, shared.NewInvalidAmount("Invoice tax cannot be negative")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor, at),
		AccountID:         accountID,
		InvoiceNumber:     invoiceNumber,
		Amount:            amount,
		Tax:               tax,
		Status:            InvoiceStatusDraft,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv, at))

	return inv, nil
}

// Issue moves the invoice from Draft to Issued
func (inv *Invoice) Issue() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewInvalidTransition(fmt.Sprintf("Only draft invoices can be issued, invoice %s is %s", inv.InvoiceNumber, inv.Status))
	}

	inv.Status = InvoiceStatusIssued
	inv.IncrementVersion()

	return nil
}

// Cancel cancels the invoice and records the reason. Legal from any state
// except Cancelled itself; cancelling a Paid invoice is permitted by the
// model and does not reverse its payments.
func (inv *Invoice) Cancel(reason string, at time.Time) error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewInvalidTransition(fmt.Sprintf("Invoice %s is already cancelled", inv.InvoiceNumber))
	}

	inv.Status = InvoiceStatusCancelled
	inv.CancelledOn = &at
	inv.CancelledReason = reason
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv, reason, at))

	return nil
}

// MarkOverdue moves an Issued or PartiallyPaid invoice to Overdue. This
// transition is driven only by an explicit scheduled sweep, never by payment
// recomputation.
func (inv *Invoice) MarkOverdue() error {
	if !inv.Status.CanMarkOverdue() {
		return shared.NewInvalidTransition(fmt.Sprintf("Cannot mark invoice %s overdue from %s", inv.InvoiceNumber, inv.Status))
	}

	inv.Status = InvoiceStatusOverdue
	inv.IncrementVersion()

	return nil
}

// RecomputePaymentStatus derives the payment status from the total of
// Completed payments against this invoice. It never regresses the status
// when totalPaid is zero, and never touches a Cancelled invoice.
func (inv *Invoice) RecomputePaymentStatus(totalPaid decimal.Decimal) error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewInvalidTransition(fmt.Sprintf("Invoice %s is cancelled", inv.InvoiceNumber))
	}

	switch {
	case totalPaid.GreaterThanOrEqual(inv.TotalWithTax()):
		inv.Status = InvoiceStatusPaid
	case totalPaid.GreaterThan(decimal.Zero):
		inv.Status = InvoiceStatusPartiallyPaid
	}
	inv.IncrementVersion()

	return nil
}

// TotalWithTax returns amount plus tax
func (inv *Invoice) TotalWithTax() decimal.Decimal {
	return inv.Amount.Add(inv.Tax)
}

// TotalPaid sums the Completed payments that target this invoice. Pure
// derivation, recomputed on demand.
func (inv *Invoice) TotalPaid(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for i := range payments {
		p := &payments[i]
		if p.InvoiceID == nil || *p.InvoiceID != inv.ID {
			continue
		}
		if p.Status == PaymentStatusCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// Balance returns the remaining amount due given the payments against this
// invoice. Pure derivation, recomputed on demand.
func (inv *Invoice) Balance(payments []Payment) decimal.Decimal {
	return inv.TotalWithTax().Sub(inv.TotalPaid(payments))
}

// IsCancelled returns true if the invoice is cancelled
func (inv *Invoice) IsCancelled() bool {
	return inv.Status == InvoiceStatusCancelled
}

// IsPaid returns true if the invoice is fully paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}
