package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService handles invoice drafting, issuance, cancellation and the
// scheduled overdue sweep
type InvoiceService struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	clock     shared.Clock
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	scope TransactionScope,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		scope:     scope,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// CreateDraftInvoiceRequest represents a request to draft an invoice from
// unbilled installments
type CreateDraftInvoiceRequest struct {
	AccountID      uuid.UUID
	InvoiceNumber  string
	InstallmentIDs []uuid.UUID
	Actor          string
}

// CreateDraftInvoice bundles the given installments into a new draft invoice.
// Amount and tax are fixed from the installment totals at drafting time. Each
// installment is linked to the invoice; an installment already billed
// elsewhere fails the whole draft with a constraint violation.
func (s *InvoiceService) CreateDraftInvoice(ctx context.Context, req CreateDraftInvoiceRequest) (*billing.Invoice, error) {
	if len(req.InstallmentIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_INVOICE", "An invoice needs at least one installment")
	}

	var invoice *billing.Invoice

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.AccountRepo().FindByID(ctx, req.AccountID)
		if err != nil {
			return fmt.Errorf("failed to load account: %w", err)
		}
		if account == nil {
			return shared.ErrNotFound
		}

		amount := decimal.Zero
		tax := decimal.Zero
		installments := make([]*billing.Installment, 0, len(req.InstallmentIDs))
		for _, id := range req.InstallmentIDs {
			inst, err := repos.InstallmentRepo().FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load installment %s: %w", id, err)
			}
			if inst == nil {
				return shared.ErrNotFound
			}
			if inst.AccountID != req.AccountID {
				return shared.NewDomainError("INSTALLMENT_ACCOUNT_MISMATCH", "Installment belongs to a different account")
			}
			if inst.Status != billing.InstallmentStatusActive {
				return shared.NewInvalidTransition(fmt.Sprintf("Installment %s is not active", id))
			}
			amount = amount.Add(inst.Amount)
			tax = tax.Add(inst.Tax)
			installments = append(installments, inst)
		}

		now := s.clock.Now()
		invoice, err = billing.NewInvoice(req.AccountID, req.InvoiceNumber, amount, tax, req.Actor, now)
		if err != nil {
			return err
		}

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}

		for _, inst := range installments {
			link, err := billing.NewInvoiceInstallmentLink(invoice.ID, inst.ID, req.Actor, now)
			if err != nil {
				return err
			}
			if err := repos.LinkRepo().Save(ctx, link); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	return invoice, nil
}

// IssueInvoice moves a draft invoice to Issued
func (s *InvoiceService) IssueInvoice(ctx context.Context, invoiceID uuid.UUID, actor string) (*billing.Invoice, error) {
	var invoice *billing.Invoice

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to load invoice: %w", err)
		}
		if invoice == nil {
			return shared.ErrNotFound
		}

		if err := invoice.Issue(); err != nil {
			return err
		}
		invoice.RecordModification(actor, s.clock.Now())

		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// CancelInvoice cancels an invoice with a reason. The installments billed on
// it become billable again only through an explicit re-draft; their links are
// retained for the audit trail.
func (s *InvoiceService) CancelInvoice(ctx context.Context, invoiceID uuid.UUID, reason string, actor string) (*billing.Invoice, error) {
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Cancellation reason cannot be empty")
	}

	var invoice *billing.Invoice

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to load invoice: %w", err)
		}
		if invoice == nil {
			return shared.ErrNotFound
		}

		now := s.clock.Now()
		if err := invoice.Cancel(reason, now); err != nil {
			return err
		}
		invoice.RecordModification(actor, now)

		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	return invoice, nil
}

// OverdueSweepResult summarizes one scheduled overdue sweep run
type OverdueSweepResult struct {
	Examined int `json:"examined"`
	Marked   int `json:"marked"`
	Skipped  int `json:"skipped"`
}

// SweepOverdue marks Issued and PartiallyPaid invoices past the cutoff as
// Overdue. Invoices that lose an optimistic-lock race are skipped; the next
// scheduled run picks them up again.
func (s *InvoiceService) SweepOverdue(ctx context.Context, cutoff valueobject.Date, actor string) (*OverdueSweepResult, error) {
	result := &OverdueSweepResult{}

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		due, err := repos.InvoiceRepo().FindDueForOverdueSweep(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to query overdue candidates: %w", err)
		}
		result.Examined = len(due)

		for i := range due {
			inv := &due[i]
			if err := inv.MarkOverdue(); err != nil {
				result.Skipped++
				continue
			}
			inv.RecordModification(actor, s.clock.Now())

			if err := repos.InvoiceRepo().SaveWithLock(ctx, inv); err != nil {
				if shared.IsDomainError(err, shared.CodeConcurrencyConflict) {
					s.logger.Warn("Invoice changed during overdue sweep, skipping",
						zap.String("invoice_id", inv.ID.String()))
					result.Skipped++
					continue
				}
				return err
			}
			result.Marked++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetInvoice loads an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*billing.Invoice, error) {
	var invoice *billing.Invoice

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// ListInvoices lists invoices on an account
func (s *InvoiceService) ListInvoices(ctx context.Context, accountID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoices, err = repos.InvoiceRepo().FindByAccount(ctx, accountID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

// publishEvents drains and publishes an aggregate's pending domain events
func (s *InvoiceService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 || s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Error(err))
	}
	aggregate.ClearDomainEvents()
}
