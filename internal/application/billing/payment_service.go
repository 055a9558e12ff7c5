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

// Optimistic-lock retry bounds for payment posting. Each attempt re-reads
// every aggregate fresh inside a new transaction. A keyed posting can be
// safely re-driven by the client, so more attempts are spent on it; an
// unkeyed posting gets a single retry.
const (
	completeMaxAttempts        = 3
	completeMaxAttemptsUnkeyed = 2
)

// PaymentService handles payment recording and posting against the ledger
type PaymentService struct {
	scope          TransactionScope
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
	publisher      shared.EventPublisher
	clock          shared.Clock
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	scope TransactionScope,
	idempotency shared.IdempotencyStore,
	idempotencyCfg shared.IdempotencyConfig,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		scope:          scope,
		idempotency:    idempotency,
		idempotencyCfg: idempotencyCfg,
		publisher:      publisher,
		clock:          clock,
		logger:         logger,
	}
}

// RecordPaymentRequest represents a request to record a pending payment
type RecordPaymentRequest struct {
	AccountID       uuid.UUID
	InvoiceID       *uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     valueobject.Date
	Mode            billing.PaymentMode
	ReferenceNumber string
	Actor           string
}

// RecordPayment records a new pending payment against an account. The
// payment does not touch the ledger until it is completed.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*billing.Payment, error) {
	var payment *billing.Payment

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.AccountRepo().FindByID(ctx, req.AccountID)
		if err != nil {
			return fmt.Errorf("failed to load account: %w", err)
		}
		if account == nil {
			return shared.ErrNotFound
		}
		if !account.IsActive() {
			return shared.NewDomainError("ACCOUNT_INACTIVE", "Cannot record a payment on an inactive account")
		}

		payment, err = billing.NewPayment(
			req.AccountID,
			req.Amount,
			req.PaymentDate,
			req.Mode,
			req.ReferenceNumber,
			billing.DirectionCredit,
			req.Actor,
			s.clock.Now(),
		)
		if err != nil {
			return err
		}

		if req.InvoiceID != nil {
			invoice, err := repos.InvoiceRepo().FindByID(ctx, *req.InvoiceID)
			if err != nil {
				return fmt.Errorf("failed to load invoice: %w", err)
			}
			if invoice == nil {
				return shared.ErrNotFound
			}
			if invoice.AccountID != req.AccountID {
				return shared.NewDomainError("INVOICE_ACCOUNT_MISMATCH", "Invoice belongs to a different account")
			}
			if invoice.IsCancelled() {
				return shared.NewInvalidTransition("Cannot pay against a cancelled invoice")
			}
			payment.WithInvoice(*req.InvoiceID)
		}

		return repos.PaymentRepo().Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payment)

	return payment, nil
}

// CompletePaymentRequest represents a request to post a payment
type CompletePaymentRequest struct {
	PaymentID uuid.UUID
	Actor     string
	// IdempotencyKey deduplicates client retries of the same posting.
	// Optional; when empty no deduplication is performed.
	IdempotencyKey string
}

// CompletePaymentResult represents the outcome of a payment posting
type CompletePaymentResult struct {
	PaymentID          uuid.UUID             `json:"payment_id"`
	AccountID          uuid.UUID             `json:"account_id"`
	InvoiceID          *uuid.UUID            `json:"invoice_id,omitempty"`
	InvoiceStatus      billing.InvoiceStatus `json:"invoice_status,omitempty"`
	AccountOutstanding decimal.Decimal       `json:"account_outstanding"`
	AlreadyCompleted   bool                  `json:"already_completed"`
}

// CompletePayment posts a pending payment: the payment moves to Completed,
// the target invoice's payment status is recomputed and the amount is applied
// to the owning account, all in one transaction. On a lost optimistic-lock
// race the whole attempt is retried from a fresh read. The idempotency key is
// marked only after the posting commits, so a failed posting never consumes
// the client's key.
func (s *PaymentService) CompletePayment(ctx context.Context, req CompletePaymentRequest) (*CompletePaymentResult, error) {
	keyed := req.IdempotencyKey != "" && s.idempotency != nil && s.idempotencyCfg.Enabled
	if keyed {
		processed, err := s.idempotency.IsProcessed(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if processed {
			payment, err := s.GetPayment(ctx, req.PaymentID)
			if err != nil {
				return nil, err
			}
			if payment.IsCompleted() {
				return &CompletePaymentResult{
					PaymentID:        payment.ID,
					AccountID:        payment.AccountID,
					InvoiceID:        payment.InvoiceID,
					AlreadyCompleted: true,
				}, nil
			}
			// key marked but the payment never posted; post it now
		}
	}

	maxAttempts := completeMaxAttemptsUnkeyed
	if keyed {
		maxAttempts = completeMaxAttempts
	}

	var result *CompletePaymentResult
	var completed *billing.Payment
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, completed, lastErr = s.tryCompletePayment(ctx, req)
		if lastErr == nil {
			break
		}
		if !shared.IsDomainError(lastErr, shared.CodeConcurrencyConflict) {
			return nil, lastErr
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	if keyed {
		if _, err := s.idempotency.MarkProcessed(ctx, req.IdempotencyKey, s.idempotencyCfg.TTL); err != nil {
			// The posting is committed; a duplicate resolves against the
			// payment's stored state.
			s.logger.Warn("Failed to mark idempotency key after posting",
				zap.String("payment_id", req.PaymentID.String()),
				zap.Error(err))
		}
	}

	if completed != nil && s.publisher != nil {
		event := billing.NewPaymentCompletedEvent(completed, result.InvoiceStatus, s.clock.Now())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish payment completed event",
				zap.String("payment_id", completed.ID.String()),
				zap.Error(err))
			// The posting is committed; event delivery is best effort
		}
	}

	return result, nil
}

// tryCompletePayment runs a single posting attempt in one transaction.
// Writes follow the fixed order account, invoice, payment so concurrent
// postings serialize on the account row.
func (s *PaymentService) tryCompletePayment(ctx context.Context, req CompletePaymentRequest) (*CompletePaymentResult, *billing.Payment, error) {
	var result *CompletePaymentResult
	var completed *billing.Payment

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, req.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to load payment: %w", err)
		}
		if payment == nil {
			return shared.ErrNotFound
		}

		if payment.IsCompleted() {
			result = &CompletePaymentResult{
				PaymentID:        payment.ID,
				AccountID:        payment.AccountID,
				InvoiceID:        payment.InvoiceID,
				AlreadyCompleted: true,
			}
			return nil
		}

		account, err := repos.AccountRepo().FindByID(ctx, payment.AccountID)
		if err != nil {
			return fmt.Errorf("failed to load account: %w", err)
		}
		if account == nil {
			return shared.ErrNotFound
		}

		var invoice *billing.Invoice
		totalPaid := decimal.Zero
		if payment.InvoiceID != nil {
			invoice, err = repos.InvoiceRepo().FindByID(ctx, *payment.InvoiceID)
			if err != nil {
				return fmt.Errorf("failed to load invoice: %w", err)
			}
			if invoice == nil {
				return shared.ErrNotFound
			}

			settled, err := repos.PaymentRepo().FindByInvoice(ctx, invoice.ID)
			if err != nil {
				return fmt.Errorf("failed to load invoice payments: %w", err)
			}
			// this payment is still Pending in the fetched set
			totalPaid = invoice.TotalPaid(settled).Add(payment.Amount)
		}

		if err := payment.Complete(); err != nil {
			return err
		}
		payment.RecordModification(req.Actor, s.clock.Now())

		if err := account.ApplyPayment(payment.Amount); err != nil {
			return err
		}
		account.RecordModification(req.Actor, s.clock.Now())

		if invoice != nil {
			if err := invoice.RecomputePaymentStatus(totalPaid); err != nil {
				return err
			}
			invoice.RecordModification(req.Actor, s.clock.Now())
		}

		if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
			return err
		}
		if invoice != nil {
			if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
				return err
			}
		}
		if err := repos.PaymentRepo().SaveWithLock(ctx, payment); err != nil {
			return err
		}

		result = &CompletePaymentResult{
			PaymentID:          payment.ID,
			AccountID:          payment.AccountID,
			InvoiceID:          payment.InvoiceID,
			AccountOutstanding: account.OutstandingAmount,
		}
		if invoice != nil {
			result.InvoiceStatus = invoice.Status
		}
		completed = payment

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return result, completed, nil
}

// CancelPayment cancels a pending payment. Completed payments are refused by
// the aggregate; a posted amount is reversed with an offsetting entry, never
// in place.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID uuid.UUID, actor string) (*billing.Payment, error) {
	var payment *billing.Payment

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("failed to load payment: %w", err)
		}
		if payment == nil {
			return shared.ErrNotFound
		}

		if err := payment.Cancel(); err != nil {
			return err
		}
		payment.RecordModification(actor, s.clock.Now())

		return repos.PaymentRepo().SaveWithLock(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// GetPayment loads a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*billing.Payment, error) {
	var payment *billing.Payment

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// ListPayments lists payments on an account
func (s *PaymentService) ListPayments(ctx context.Context, accountID uuid.UUID, filter billing.PaymentFilter) ([]billing.Payment, error) {
	var payments []billing.Payment

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payments, err = repos.PaymentRepo().FindByAccount(ctx, accountID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	return payments, nil
}

// publishEvents drains and publishes an aggregate's pending domain events
func (s *PaymentService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
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
