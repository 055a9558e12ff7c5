package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BillingAccountCreatedEvent is raised when a new billing account is opened
type BillingAccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID     uuid.UUID `json:"account_id"`
	AccountNumber string    `json:"account_number"`
	ContractID    uuid.UUID `json:"contract_id"`
}

// EventType returns the event type name
func (e *BillingAccountCreatedEvent) EventType() string {
	return "BillingAccountCreated"
}

// NewBillingAccountCreatedEvent creates a new BillingAccountCreatedEvent
func NewBillingAccountCreatedEvent(a *BillingAccount, at time.Time) *BillingAccountCreatedEvent {
	return &BillingAccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillingAccountCreated", "BillingAccount", a.ID, at),
		AccountID:       a.ID,
		AccountNumber:   a.AccountNumber,
		ContractID:      a.ContractID,
	}
}

// InvoiceCreatedEvent is raised when a draft invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	AccountID     uuid.UUID       `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Tax           decimal.Decimal `json:"tax"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice, at time.Time) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID, at),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		AccountID:       inv.AccountID,
		Amount:          inv.Amount,
		Tax:             inv.Tax,
	}
}

// InvoiceCancelledEvent is raised when an invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *InvoiceCancelledEvent) EventType() string {
	return "InvoiceCancelled"
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice, reason string, at time.Time) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCancelled", "Invoice", inv.ID, at),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          reason,
	}
}

// PaymentCreatedEvent is raised when a payment is recorded
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	AccountID uuid.UUID       `json:"account_id"`
	InvoiceID *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *PaymentCreatedEvent) EventType() string {
	return "PaymentCreated"
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(p *Payment, at time.Time) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentCreated", "Payment", p.ID, at),
		PaymentID:       p.ID,
		AccountID:       p.AccountID,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
	}
}

// PaymentCompletedEvent is raised after a payment posting commits
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	InvoiceID     *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceStatus InvoiceStatus   `json:"invoice_status,omitempty"`
}

// EventType returns the event type name
func (e *PaymentCompletedEvent) EventType() string {
	return "PaymentCompleted"
}

// NewPaymentCompletedEvent creates a new PaymentCompletedEvent
func NewPaymentCompletedEvent(p *Payment, invoiceStatus InvoiceStatus, at time.Time) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentCompleted", "Payment", p.ID, at),
		PaymentID:       p.ID,
		AccountID:       p.AccountID,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
		InvoiceStatus:   invoiceStatus,
	}
}
