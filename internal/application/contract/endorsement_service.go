package contract

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EndorsementService drives the endorsement workflow. Processing publishes an
// event; the billing context listens and realizes the premium adjustment as
// an installment.
type EndorsementService struct {
	endorsementRepo contract.EndorsementRepository
	contractRepo    contract.ContractRepository
	publisher       shared.EventPublisher
	clock           shared.Clock
	logger          *zap.Logger
}

// NewEndorsementService creates a new EndorsementService
func NewEndorsementService(
	endorsementRepo contract.EndorsementRepository,
	contractRepo contract.ContractRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *EndorsementService {
	return &EndorsementService{
		endorsementRepo: endorsementRepo,
		contractRepo:    contractRepo,
		publisher:       publisher,
		clock:           clock,
		logger:          logger,
	}
}

// CreateEndorsementRequest represents a request to raise a contract amendment
type CreateEndorsementRequest struct {
	EndorsementNumber string
	ContractID        uuid.UUID
	Type              contract.EndorsementType
	EffectiveDate     valueobject.Date
	PremiumAdjustment decimal.Decimal
	Description       string
	Actor             string
}

// CreateEndorsement raises a new pending endorsement against a contract
func (s *EndorsementService) CreateEndorsement(ctx context.Context, req CreateEndorsementRequest) (*contract.Endorsement, error) {
	c, err := s.contractRepo.FindByID(ctx, req.ContractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	if c == nil {
		return nil, shared.ErrNotFound
	}
	if c.Status == contract.ContractStatusTerminated || c.Status == contract.ContractStatusExpired {
		return nil, shared.NewInvalidTransition(fmt.Sprintf("Cannot endorse contract %s in %s", c.ContractNumber, c.Status))
	}

	e, err := contract.NewEndorsement(
		req.EndorsementNumber,
		req.ContractID,
		req.Type,
		req.EffectiveDate,
		req.PremiumAdjustment,
		req.Description,
		req.Actor,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.endorsementRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// ApproveEndorsement approves a pending endorsement
func (s *EndorsementService) ApproveEndorsement(ctx context.Context, endorsementID uuid.UUID, actor string) (*contract.Endorsement, error) {
	return s.transition(ctx, endorsementID, actor, (*contract.Endorsement).Approve)
}

// RejectEndorsement rejects a pending endorsement
func (s *EndorsementService) RejectEndorsement(ctx context.Context, endorsementID uuid.UUID, actor string) (*contract.Endorsement, error) {
	return s.transition(ctx, endorsementID, actor, (*contract.Endorsement).Reject)
}

// CancelEndorsement withdraws an endorsement that has not been processed
func (s *EndorsementService) CancelEndorsement(ctx context.Context, endorsementID uuid.UUID, actor string) (*contract.Endorsement, error) {
	return s.transition(ctx, endorsementID, actor, (*contract.Endorsement).Cancel)
}

// ProcessEndorsement applies an approved endorsement and announces it. The
// billing realization happens in the billing context off the published event.
func (s *EndorsementService) ProcessEndorsement(ctx context.Context, endorsementID uuid.UUID, actor string) (*contract.Endorsement, error) {
	e, err := s.endorsementRepo.FindByID(ctx, endorsementID)
	if err != nil {
		return nil, fmt.Errorf("failed to load endorsement: %w", err)
	}
	if e == nil {
		return nil, shared.ErrNotFound
	}

	now := s.clock.Now()
	if err := e.Process(actor, now); err != nil {
		return nil, err
	}
	e.RecordModification(actor, now)

	if err := s.endorsementRepo.SaveWithLock(ctx, e); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, e)

	return e, nil
}

// GetEndorsement loads an endorsement by ID
func (s *EndorsementService) GetEndorsement(ctx context.Context, endorsementID uuid.UUID) (*contract.Endorsement, error) {
	e, err := s.endorsementRepo.FindByID(ctx, endorsementID)
	if err != nil {
		return nil, fmt.Errorf("failed to load endorsement: %w", err)
	}
	if e == nil {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

// ListEndorsementsByContract lists endorsements raised against a contract
func (s *EndorsementService) ListEndorsementsByContract(ctx context.Context, contractID uuid.UUID, filter contract.EndorsementFilter) ([]contract.Endorsement, error) {
	return s.endorsementRepo.FindByContract(ctx, contractID, filter)
}

// transition loads an endorsement, applies a state change and saves it
func (s *EndorsementService) transition(
	ctx context.Context,
	endorsementID uuid.UUID,
	actor string,
	op func(*contract.Endorsement) error,
) (*contract.Endorsement, error) {
	e, err := s.endorsementRepo.FindByID(ctx, endorsementID)
	if err != nil {
		return nil, fmt.Errorf("failed to load endorsement: %w", err)
	}
	if e == nil {
		return nil, shared.ErrNotFound
	}

	if err := op(e); err != nil {
		return nil, err
	}
	e.RecordModification(actor, s.clock.Now())

	if err := s.endorsementRepo.SaveWithLock(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// publishEvents drains and publishes an aggregate's pending domain events
func (s *EndorsementService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
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
