package persistence

import (
	"context"

	appbilling "github.com/insurance/backend/internal/application/billing"
	"github.com/insurance/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormTransactionScope implements the billing TransactionScope using GORM
// transactions. It provides atomic execution of multiple repository
// operations; completing a payment writes the account, the invoice and the
// payment in one transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to the billing repositories
// scoped to the current transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) AccountRepo() billing.BillingAccountRepository {
	return NewGormBillingAccountRepository(r.tx)
}

func (r *gormTransactionalRepositories) InstallmentRepo() billing.InstallmentRepository {
	return NewGormInstallmentRepository(r.tx)
}

func (r *gormTransactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) LinkRepo() billing.InvoiceInstallmentLinkRepository {
	return NewGormInvoiceInstallmentLinkRepository(r.tx)
}

func (r *gormTransactionalRepositories) PaymentRepo() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
