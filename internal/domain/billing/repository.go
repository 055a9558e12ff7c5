package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
)

// Repositories expose no hard delete for ledger aggregates: removal is a
// logical status transition, the audit trail is permanent.

// InstallmentFilter defines filtering options for installment queries
type InstallmentFilter struct {
	shared.Filter
	AccountID  *uuid.UUID
	ContractID *uuid.UUID
	Status     *InstallmentStatus
	Type       *InstallmentType
	DueBefore  *valueobject.Date
	Unbilled   bool // only installments not yet linked to an invoice
}

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	AccountID *uuid.UUID
	Status    *InvoiceStatus
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	AccountID *uuid.UUID
	InvoiceID *uuid.UUID
	Status    *PaymentStatus
}

// BillingAccountRepository defines the interface for billing account persistence
type BillingAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BillingAccount, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*BillingAccount, error)
	FindByContract(ctx context.Context, contractID uuid.UUID) (*BillingAccount, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BillingAccount, error)
	Save(ctx context.Context, account *BillingAccount) error
	// SaveWithLock saves with optimistic locking (version check); returns
	// a CONCURRENCY_CONFLICT domain error on a lost update
	SaveWithLock(ctx context.Context, account *BillingAccount) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// InstallmentRepository defines the interface for installment persistence
type InstallmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Installment, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter InstallmentFilter) ([]Installment, error)
	FindByEndorsement(ctx context.Context, endorsementID uuid.UUID) ([]Installment, error)
	FindOverdue(ctx context.Context, asOf valueobject.Date) ([]Installment, error)
	Save(ctx context.Context, installment *Installment) error
	SaveWithLock(ctx context.Context, installment *Installment) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)
	// FindDueForOverdueSweep returns Issued and PartiallyPaid invoices
	// created on or before the cutoff, for the scheduled overdue transition
	FindDueForOverdueSweep(ctx context.Context, cutoff valueobject.Date) ([]Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}

// InvoiceInstallmentLinkRepository defines the interface for invoice-installment links.
// Save reports a CONSTRAINT_VIOLATION domain error when the
// (invoice_id, installment_id) pair already exists, and when the installment
// is already billed on another invoice.
type InvoiceInstallmentLinkRepository interface {
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceInstallmentLink, error)
	FindByInstallment(ctx context.Context, installmentID uuid.UUID) (*InvoiceInstallmentLink, error)
	Save(ctx context.Context, link *InvoiceInstallmentLink) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter PaymentFilter) ([]Payment, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
	SaveWithLock(ctx context.Context, payment *Payment) error
}
