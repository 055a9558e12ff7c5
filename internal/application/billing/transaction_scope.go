package billing

import (
	"context"

	"github.com/insurance/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to billing repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all billing repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
//
// Aggregate boundary notes:
//   - AccountRepo: the ledger aggregate; all outstanding/billed balance
//     changes go through it.
//   - InvoiceRepo and PaymentRepo: separate aggregates linked to the account
//     by ID. Posting a payment touches all three; the fixed write order is
//     account, then invoice, then payment, so concurrent postings contend on
//     the account row first.
//   - LinkRepo: association rows between invoices and installments with a
//     store-level uniqueness guarantee.
type TransactionalRepositories interface {
	// AccountRepo returns the billing account repository scoped to the current transaction
	AccountRepo() billing.BillingAccountRepository
	// InstallmentRepo returns the installment repository scoped to the current transaction
	InstallmentRepo() billing.InstallmentRepository
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
	// LinkRepo returns the invoice-installment link repository scoped to the current transaction
	LinkRepo() billing.InvoiceInstallmentLinkRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() billing.PaymentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	accountRepo     billing.BillingAccountRepository
	installmentRepo billing.InstallmentRepository
	invoiceRepo     billing.InvoiceRepository
	linkRepo        billing.InvoiceInstallmentLinkRepository
	paymentRepo     billing.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	accountRepo billing.BillingAccountRepository,
	installmentRepo billing.InstallmentRepository,
	invoiceRepo billing.InvoiceRepository,
	linkRepo billing.InvoiceInstallmentLinkRepository,
	paymentRepo billing.PaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		accountRepo:     accountRepo,
		installmentRepo: installmentRepo,
		invoiceRepo:     invoiceRepo,
		linkRepo:        linkRepo,
		paymentRepo:     paymentRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// AccountRepo returns the billing account repository.
func (s *NoOpTransactionScope) AccountRepo() billing.BillingAccountRepository {
	return s.accountRepo
}

// InstallmentRepo returns the installment repository.
func (s *NoOpTransactionScope) InstallmentRepo() billing.InstallmentRepository {
	return s.installmentRepo
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

// LinkRepo returns the invoice-installment link repository.
func (s *NoOpTransactionScope) LinkRepo() billing.InvoiceInstallmentLinkRepository {
	return s.linkRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository {
	return s.paymentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
