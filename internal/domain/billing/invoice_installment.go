package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
)

// InvoiceInstallmentLink associates one installment with the invoice it is
// billed on. The (InvoiceID, InstallmentID) pair is unique system-wide and is
// enforced as a store-level constraint: an installment appears on at most one
// invoice.
type InvoiceInstallmentLink struct {
	shared.BaseEntity
	InvoiceID     uuid.UUID
	InstallmentID uuid.UUID
}

// NewInvoiceInstallmentLink creates a new link between an invoice and an installment
func NewInvoiceInstallmentLink(invoiceID, installmentID uuid.UUID, actor string, at time.Time) (*InvoiceInstallmentLink, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if installmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT", "Installment ID cannot be empty")
	}

	return &InvoiceInstallmentLink{
		BaseEntity:    shared.NewBaseEntity(actor, at),
		InvoiceID:     invoiceID,
		InstallmentID: installmentID,
	}, nil
}
