package billing

import (
	"context"
	"fmt"

	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EndorsementProcessedHandler handles EndorsementProcessedEvent and realizes
// the premium adjustment as an installment on the contract's billing account
type EndorsementProcessedHandler struct {
	scope        TransactionScope
	contractRepo contract.ContractRepository
	clock        shared.Clock
	logger       *zap.Logger
}

// NewEndorsementProcessedHandler creates a new handler for endorsement processed events
func NewEndorsementProcessedHandler(
	scope TransactionScope,
	contractRepo contract.ContractRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *EndorsementProcessedHandler {
	return &EndorsementProcessedHandler{
		scope:        scope,
		contractRepo: contractRepo,
		clock:        clock,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *EndorsementProcessedHandler) EventTypes() []string {
	return []string{"EndorsementProcessed"}
}

// Handle realizes a processed endorsement's premium adjustment. A positive
// adjustment is a debit charge on the account; a negative one is a credit for
// its absolute value. Already-realized endorsements are skipped.
func (h *EndorsementProcessedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	processed, ok := event.(*contract.EndorsementProcessedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", "EndorsementProcessed"),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected EndorsementProcessed, got %s", event.EventType())
	}

	h.logger.Info("realizing endorsement premium adjustment",
		zap.String("endorsement_id", processed.EndorsementID.String()),
		zap.String("endorsement_number", processed.EndorsementNumber),
		zap.String("contract_id", processed.ContractID.String()),
		zap.String("premium_adjustment", processed.PremiumAdjustment.String()),
	)

	if processed.PremiumAdjustment.IsZero() {
		h.logger.Info("skipping realization, adjustment is zero",
			zap.String("endorsement_number", processed.EndorsementNumber))
		return nil
	}

	c, err := h.contractRepo.FindByID(ctx, processed.ContractID)
	if err != nil {
		return fmt.Errorf("failed to load contract: %w", err)
	}
	if c == nil {
		return fmt.Errorf("contract %s not found for endorsement %s", processed.ContractID, processed.EndorsementNumber)
	}

	return h.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// replays of the same event must not double-charge
		existing, err := repos.InstallmentRepo().FindByEndorsement(ctx, processed.EndorsementID)
		if err != nil {
			return fmt.Errorf("failed to check existing installments: %w", err)
		}
		if len(existing) > 0 {
			h.logger.Warn("endorsement already realized, skipping",
				zap.String("endorsement_number", processed.EndorsementNumber))
			return nil
		}

		account, err := repos.AccountRepo().FindByContract(ctx, processed.ContractID)
		if err != nil {
			return fmt.Errorf("failed to load billing account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("no billing account for contract %s", processed.ContractID)
		}

		direction := billing.DirectionDebit
		amount := processed.PremiumAdjustment
		if amount.IsNegative() {
			direction = billing.DirectionCredit
			amount = amount.Abs()
		}

		now := h.clock.Now()
		installment, err := billing.NewInstallment(
			account.ID,
			processed.ContractID,
			c.ProductID,
			billing.InstallmentTypeAdjustment,
			direction,
			amount,
			decimal.Zero,
			processed.EffectiveDate,
			processed.ProcessedBy,
			now,
		)
		if err != nil {
			return err
		}
		installment.WithEndorsement(processed.EndorsementID)

		switch direction {
		case billing.DirectionDebit:
			err = account.AddCharge(amount)
		case billing.DirectionCredit:
			err = account.ApplyPayment(amount)
		}
		if err != nil {
			return err
		}
		account.RecordModification(processed.ProcessedBy, now)

		if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
			return err
		}

		return repos.InstallmentRepo().Save(ctx, installment)
	})
}
