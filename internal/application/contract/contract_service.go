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

// ContractService handles master contract and contract lifecycle
type ContractService struct {
	masterRepo   contract.MasterContractRepository
	contractRepo contract.ContractRepository
	publisher    shared.EventPublisher
	clock        shared.Clock
	logger       *zap.Logger
}

// NewContractService creates a new ContractService
func NewContractService(
	masterRepo contract.MasterContractRepository,
	contractRepo contract.ContractRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		masterRepo:   masterRepo,
		contractRepo: contractRepo,
		publisher:    publisher,
		clock:        clock,
		logger:       logger,
	}
}

// CreateMasterContractRequest represents a request to draft a master contract
type CreateMasterContractRequest struct {
	MasterContractNumber string
	PolicyholderName     string
	Currency             valueobject.Currency
	EffectiveDate        valueobject.Date
	ExpirationDate       valueobject.Date
	Actor                string
}

// CreateMasterContract drafts a new master contract
func (s *ContractService) CreateMasterContract(ctx context.Context, req CreateMasterContractRequest) (*contract.MasterContract, error) {
	m, err := contract.NewMasterContract(
		req.MasterContractNumber,
		req.PolicyholderName,
		req.Currency,
		req.EffectiveDate,
		req.ExpirationDate,
		req.Actor,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.masterRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, m)

	return m, nil
}

// CreateContractRequest represents a request to draft a contract under a
// master contract
type CreateContractRequest struct {
	ContractNumber   string
	MasterContractID uuid.UUID
	ProductID        uuid.UUID
	Currency         valueobject.Currency
	PremiumAmount    decimal.Decimal
	EffectiveDate    valueobject.Date
	ExpirationDate   valueobject.Date
	Actor            string
}

// CreateContract drafts a new contract under an existing master contract.
// The contract's currency must match the master's.
func (s *ContractService) CreateContract(ctx context.Context, req CreateContractRequest) (*contract.Contract, error) {
	m, err := s.masterRepo.FindByID(ctx, req.MasterContractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load master contract: %w", err)
	}
	if m == nil {
		return nil, shared.ErrNotFound
	}
	if m.Status == contract.ContractStatusTerminated || m.Status == contract.ContractStatusExpired {
		return nil, shared.NewInvalidTransition(fmt.Sprintf("Cannot add contracts to master contract %s in %s", m.MasterContractNumber, m.Status))
	}
	if m.Currency != req.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH", "Contract currency must match the master contract")
	}

	c, err := contract.NewContract(
		req.ContractNumber,
		req.MasterContractID,
		req.ProductID,
		req.Currency,
		req.PremiumAmount,
		req.EffectiveDate,
		req.ExpirationDate,
		req.Actor,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.contractRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, c)

	return c, nil
}

// ActivateMasterContract puts a master contract in force
func (s *ContractService) ActivateMasterContract(ctx context.Context, masterID uuid.UUID, actor string) (*contract.MasterContract, error) {
	m, err := s.loadMaster(ctx, masterID)
	if err != nil {
		return nil, err
	}

	if err := m.Activate(); err != nil {
		return nil, err
	}
	m.RecordModification(actor, s.clock.Now())

	if err := s.masterRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// SuspendMasterContract suspends an active master contract
func (s *ContractService) SuspendMasterContract(ctx context.Context, masterID uuid.UUID, actor string) (*contract.MasterContract, error) {
	m, err := s.loadMaster(ctx, masterID)
	if err != nil {
		return nil, err
	}

	if err := m.Suspend(); err != nil {
		return nil, err
	}
	m.RecordModification(actor, s.clock.Now())

	if err := s.masterRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// TerminateMasterContract ends a master contract as of the given date.
// Contracts under it are not cascaded; they are terminated individually.
func (s *ContractService) TerminateMasterContract(ctx context.Context, masterID uuid.UUID, terminationDate valueobject.Date, actor string) (*contract.MasterContract, error) {
	m, err := s.loadMaster(ctx, masterID)
	if err != nil {
		return nil, err
	}

	m.Terminate(terminationDate)
	m.RecordModification(actor, s.clock.Now())

	if err := s.masterRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// GetMasterContract loads a master contract by ID
func (s *ContractService) GetMasterContract(ctx context.Context, masterID uuid.UUID) (*contract.MasterContract, error) {
	return s.loadMaster(ctx, masterID)
}

// ListMasterContracts lists master contracts matching the filter
func (s *ContractService) ListMasterContracts(ctx context.Context, filter shared.Filter) ([]contract.MasterContract, int64, error) {
	masters, err := s.masterRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.masterRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return masters, total, nil
}

// GetContract loads a contract by ID
func (s *ContractService) GetContract(ctx context.Context, contractID uuid.UUID) (*contract.Contract, error) {
	return s.loadContract(ctx, contractID)
}

// ListContractsByMaster lists contracts under a master contract
func (s *ContractService) ListContractsByMaster(ctx context.Context, masterID uuid.UUID, filter contract.ContractFilter) ([]contract.Contract, error) {
	return s.contractRepo.FindByMasterContract(ctx, masterID, filter)
}

// ActivateContract puts a contract in force
func (s *ContractService) ActivateContract(ctx context.Context, contractID uuid.UUID, actor string) (*contract.Contract, error) {
	c, err := s.loadContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if err := c.Activate(); err != nil {
		return nil, err
	}
	c.RecordModification(actor, s.clock.Now())

	if err := s.contractRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// SuspendContract suspends an active contract
func (s *ContractService) SuspendContract(ctx context.Context, contractID uuid.UUID, actor string) (*contract.Contract, error) {
	c, err := s.loadContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if err := c.Suspend(); err != nil {
		return nil, err
	}
	c.RecordModification(actor, s.clock.Now())

	if err := s.contractRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// TerminateContract ends a contract as of the given date
func (s *ContractService) TerminateContract(ctx context.Context, contractID uuid.UUID, terminationDate valueobject.Date, actor string) (*contract.Contract, error) {
	c, err := s.loadContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	c.Terminate(terminationDate, now)
	c.RecordModification(actor, now)

	if err := s.contractRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, c)

	return c, nil
}

func (s *ContractService) loadMaster(ctx context.Context, masterID uuid.UUID) (*contract.MasterContract, error) {
	m, err := s.masterRepo.FindByID(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load master contract: %w", err)
	}
	if m == nil {
		return nil, shared.ErrNotFound
	}
	return m, nil
}

func (s *ContractService) loadContract(ctx context.Context, contractID uuid.UUID) (*contract.Contract, error) {
	c, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	if c == nil {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

// publishEvents drains and publishes an aggregate's pending domain events
func (s *ContractService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
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
