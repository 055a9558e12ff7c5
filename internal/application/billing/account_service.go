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

// AccountService handles billing account lifecycle and charge recording
type AccountService struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	clock     shared.Clock
	logger    *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	scope TransactionScope,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		scope:     scope,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// OpenAccountRequest represents a request to open a billing account for a
// contract
type OpenAccountRequest struct {
	AccountNumber    string
	MasterContractID uuid.UUID
	ContractID       uuid.UUID
	Currency         valueobject.Currency
	AccountType      billing.AccountType
	BillingCycle     billing.BillingCycle
	Actor            string
}

// OpenAccount opens a new billing account. Account numbers are unique; a
// duplicate surfaces as a constraint violation from the store.
func (s *AccountService) OpenAccount(ctx context.Context, req OpenAccountRequest) (*billing.BillingAccount, error) {
	var account *billing.BillingAccount

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.AccountRepo().FindByContract(ctx, req.ContractID)
		if err != nil {
			return fmt.Errorf("failed to check existing account: %w", err)
		}
		if existing != nil {
			return shared.NewDomainError("ACCOUNT_EXISTS", "Contract already has a billing account")
		}

		account, err = billing.NewBillingAccount(
			req.AccountNumber,
			req.MasterContractID,
			req.ContractID,
			req.Currency,
			req.AccountType,
			req.BillingCycle,
			req.Actor,
			s.clock.Now(),
		)
		if err != nil {
			return err
		}

		return repos.AccountRepo().Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account)

	return account, nil
}

// RecordInstallmentRequest represents a request to schedule a charge or
// credit line item on an account
type RecordInstallmentRequest struct {
	AccountID     uuid.UUID
	ContractID    uuid.UUID
	ProductID     uuid.UUID
	MemberID      *uuid.UUID
	EndorsementID *uuid.UUID
	Type          billing.InstallmentType
	Direction     billing.TransactionDirection
	Amount        decimal.Decimal
	Tax           decimal.Decimal
	DueDate       valueobject.Date
	Actor         string
}

// RecordInstallment creates the installment and posts its total to the
// account ledger in one transaction: debits add a charge, credits apply as a
// payment-side reduction.
func (s *AccountService) RecordInstallment(ctx context.Context, req RecordInstallmentRequest) (*billing.Installment, error) {
	var installment *billing.Installment

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.AccountRepo().FindByID(ctx, req.AccountID)
		if err != nil {
			return fmt.Errorf("failed to load account: %w", err)
		}
		if account == nil {
			return shared.ErrNotFound
		}
		if !account.IsActive() {
			return shared.NewDomainError("ACCOUNT_INACTIVE", "Cannot record an installment on an inactive account")
		}

		now := s.clock.Now()
		installment, err = billing.NewInstallment(
			req.AccountID,
			req.ContractID,
			req.ProductID,
			req.Type,
			req.Direction,
			req.Amount,
			req.Tax,
			req.DueDate,
			req.Actor,
			now,
		)
		if err != nil {
			return err
		}
		if req.MemberID != nil {
			installment.WithMember(*req.MemberID)
		}
		if req.EndorsementID != nil {
			installment.WithEndorsement(*req.EndorsementID)
		}

		total := installment.TotalWithTax()
		if total.IsPositive() {
			switch req.Direction {
			case billing.DirectionDebit:
				if err := account.AddCharge(total); err != nil {
					return err
				}
			case billing.DirectionCredit:
				if err := account.ApplyPayment(total); err != nil {
					return err
				}
			}
			account.RecordModification(req.Actor, now)

			if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
				return err
			}
		}

		return repos.InstallmentRepo().Save(ctx, installment)
	})
	if err != nil {
		return nil, err
	}

	return installment, nil
}

// DeactivateAccount logically closes a billing account
func (s *AccountService) DeactivateAccount(ctx context.Context, accountID uuid.UUID, actor string) (*billing.BillingAccount, error) {
	var account *billing.BillingAccount

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		account, err = repos.AccountRepo().FindByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to load account: %w", err)
		}
		if account == nil {
			return shared.ErrNotFound
		}

		account.Deactivate()
		account.RecordModification(actor, s.clock.Now())

		return repos.AccountRepo().SaveWithLock(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount loads a billing account by ID
func (s *AccountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*billing.BillingAccount, error) {
	var account *billing.BillingAccount

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		account, err = repos.AccountRepo().FindByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// ListAccounts lists billing accounts matching the filter
func (s *AccountService) ListAccounts(ctx context.Context, filter shared.Filter) ([]billing.BillingAccount, int64, error) {
	var accounts []billing.BillingAccount
	var total int64

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		accounts, err = repos.AccountRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.AccountRepo().Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// ListInstallments lists installments on an account
func (s *AccountService) ListInstallments(ctx context.Context, accountID uuid.UUID, filter billing.InstallmentFilter) ([]billing.Installment, error) {
	var installments []billing.Installment

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		installments, err = repos.InstallmentRepo().FindByAccount(ctx, accountID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	return installments, nil
}

// publishEvents drains and publishes an aggregate's pending domain events
func (s *AccountService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
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
