package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest represents a request to open a billing account
type OpenAccountRequest struct {
	AccountNumber    string    `json:"account_number" binding:"required,max=50"`
	MasterContractID uuid.UUID `json:"master_contract_id" binding:"required"`
	ContractID       uuid.UUID `json:"contract_id" binding:"required"`
	Currency         string    `json:"currency" binding:"required,len=3"`
	AccountType      string    `json:"account_type" binding:"required,oneof=EMPLOYER INDIVIDUAL"`
	BillingCycle     string    `json:"billing_cycle" binding:"required,oneof=ANNUAL QUARTERLY MONTHLY"`
}

// RecordInstallmentRequest represents a request to record a charge or credit
// line item on an account
type RecordInstallmentRequest struct {
	ContractID    uuid.UUID       `json:"contract_id" binding:"required"`
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	MemberID      *uuid.UUID      `json:"member_id,omitempty"`
	EndorsementID *uuid.UUID      `json:"endorsement_id,omitempty"`
	Type          string          `json:"type" binding:"required,oneof=PREMIUM FEE ADJUSTMENT REFUND"`
	Direction     string          `json:"direction" binding:"required,oneof=CREDIT DEBIT"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Tax           decimal.Decimal `json:"tax"`
	DueDate       string          `json:"due_date" binding:"required,datetime=2006-01-02"`
}

// ListInstallmentsRequest represents installment list query parameters
type ListInstallmentsRequest struct {
	ListRequest
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	Type     string `form:"type" binding:"omitempty,oneof=PREMIUM FEE ADJUSTMENT REFUND"`
	Unbilled bool   `form:"unbilled"`
}

// CreateDraftInvoiceRequest represents a request to draft an invoice from
// unbilled installments
type CreateDraftInvoiceRequest struct {
	AccountID      uuid.UUID   `json:"account_id" binding:"required"`
	InvoiceNumber  string      `json:"invoice_number" binding:"required,max=50"`
	InstallmentIDs []uuid.UUID `json:"installment_ids" binding:"required,min=1"`
}

// CancelInvoiceRequest represents a request to cancel an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SweepOverdueRequest represents a request to run the overdue sweep
type SweepOverdueRequest struct {
	Cutoff string `json:"cutoff" binding:"required,datetime=2006-01-02"`
}

// ListInvoicesRequest represents invoice list query parameters
type ListInvoicesRequest struct {
	ListRequest
	Status string `form:"status" binding:"omitempty,oneof=DRAFT ISSUED PARTIALLY_PAID PAID CANCELLED OVERDUE"`
}

// RecordPaymentRequest represents a request to record a pending payment
type RecordPaymentRequest struct {
	AccountID       uuid.UUID       `json:"account_id" binding:"required"`
	InvoiceID       *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate     string          `json:"payment_date" binding:"required,datetime=2006-01-02"`
	Mode            string          `json:"mode" binding:"required,oneof=CASH CARD CHEQUE"`
	ReferenceNumber string          `json:"reference_number" binding:"required,max=100"`
}

// ListPaymentsRequest represents payment list query parameters
type ListPaymentsRequest struct {
	ListRequest
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	InvoiceID *uuid.UUID `form:"invoice_id"`
}

// AccountResponse represents a billing account
type AccountResponse struct {
	ID                uuid.UUID       `json:"id"`
	AccountNumber     string          `json:"account_number"`
	MasterContractID  uuid.UUID       `json:"master_contract_id"`
	ContractID        uuid.UUID       `json:"contract_id"`
	Currency          string          `json:"currency"`
	AccountType       string          `json:"account_type"`
	BillingCycle      string          `json:"billing_cycle"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	TotalBilledAmount decimal.Decimal `json:"total_billed_amount"`
	Status            string          `json:"status"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	CreatedBy         string          `json:"created_by"`
	UpdatedAt         time.Time       `json:"updated_at"`
	UpdatedBy         string          `json:"updated_by"`
}

// FromAccount maps a billing account aggregate to its response
func FromAccount(a *billing.BillingAccount) AccountResponse {
	return AccountResponse{
		ID:                a.ID,
		AccountNumber:     a.AccountNumber,
		MasterContractID:  a.MasterContractID,
		ContractID:        a.ContractID,
		Currency:          string(a.Currency),
		AccountType:       string(a.AccountType),
		BillingCycle:      string(a.BillingCycle),
		OutstandingAmount: a.OutstandingAmount,
		TotalBilledAmount: a.TotalBilledAmount,
		Status:            string(a.Status),
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
		CreatedBy:         a.CreatedBy,
		UpdatedAt:         a.UpdatedAt,
		UpdatedBy:         a.UpdatedBy,
	}
}

// FromAccounts maps a slice of billing accounts
func FromAccounts(accounts []billing.BillingAccount) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, FromAccount(&accounts[i]))
	}
	return out
}

// InstallmentResponse represents an installment
type InstallmentResponse struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	ContractID    uuid.UUID       `json:"contract_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	MemberID      *uuid.UUID      `json:"member_id,omitempty"`
	EndorsementID *uuid.UUID      `json:"endorsement_id,omitempty"`
	Type          string          `json:"type"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	Tax           decimal.Decimal `json:"tax"`
	DueDate       string          `json:"due_date"`
	Status        string          `json:"status"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by"`
	UpdatedAt     time.Time       `json:"updated_at"`
	UpdatedBy     string          `json:"updated_by"`
}

// FromInstallment maps an installment aggregate to its response
func FromInstallment(i *billing.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:            i.ID,
		AccountID:     i.AccountID,
		ContractID:    i.ContractID,
		ProductID:     i.ProductID,
		MemberID:      i.MemberID,
		EndorsementID: i.EndorsementID,
		Type:          string(i.Type),
		Direction:     string(i.Direction),
		Amount:        i.Amount,
		Tax:           i.Tax,
		DueDate:       i.DueDate.String(),
		Status:        string(i.Status),
		Version:       i.Version,
		CreatedAt:     i.CreatedAt,
		CreatedBy:     i.CreatedBy,
		UpdatedAt:     i.UpdatedAt,
		UpdatedBy:     i.UpdatedBy,
	}
}

// FromInstallments maps a slice of installments
func FromInstallments(installments []billing.Installment) []InstallmentResponse {
	out := make([]InstallmentResponse, 0, len(installments))
	for i := range installments {
		out = append(out, FromInstallment(&installments[i]))
	}
	return out
}

// InvoiceResponse represents an invoice
type InvoiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"account_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	Amount          decimal.Decimal `json:"amount"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	CancelledOn     *time.Time      `json:"cancelled_on,omitempty"`
	CancelledReason string          `json:"cancelled_reason,omitempty"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	CreatedBy       string          `json:"created_by"`
	UpdatedAt       time.Time       `json:"updated_at"`
	UpdatedBy       string          `json:"updated_by"`
}

// FromInvoice maps an invoice aggregate to its response
func FromInvoice(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              inv.ID,
		AccountID:       inv.AccountID,
		InvoiceNumber:   inv.InvoiceNumber,
		Amount:          inv.Amount,
		Tax:             inv.Tax,
		Total:           inv.Amount.Add(inv.Tax),
		Status:          string(inv.Status),
		CancelledOn:     inv.CancelledOn,
		CancelledReason: inv.CancelledReason,
		Version:         inv.Version,
		CreatedAt:       inv.CreatedAt,
		CreatedBy:       inv.CreatedBy,
		UpdatedAt:       inv.UpdatedAt,
		UpdatedBy:       inv.UpdatedBy,
	}
}

// FromInvoices maps a slice of invoices
func FromInvoices(invoices []billing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, FromInvoice(&invoices[i]))
	}
	return out
}

// PaymentResponse represents a payment
type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"account_id"`
	InvoiceID       *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     string          `json:"payment_date"`
	Mode            string          `json:"mode"`
	ReferenceNumber string          `json:"reference_number"`
	Status          string          `json:"status"`
	Direction       string          `json:"direction"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	CreatedBy       string          `json:"created_by"`
	UpdatedAt       time.Time       `json:"updated_at"`
	UpdatedBy       string          `json:"updated_by"`
}

// FromPayment maps a payment aggregate to its response
func FromPayment(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		AccountID:       p.AccountID,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate.String(),
		Mode:            string(p.Mode),
		ReferenceNumber: p.ReferenceNumber,
		Status:          string(p.Status),
		Direction:       string(p.Direction),
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		CreatedBy:       p.CreatedBy,
		UpdatedAt:       p.UpdatedAt,
		UpdatedBy:       p.UpdatedBy,
	}
}

// FromPayments maps a slice of payments
func FromPayments(payments []billing.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, FromPayment(&payments[i]))
	}
	return out
}
