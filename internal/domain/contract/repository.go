package contract

import (
	"context"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
)

// ContractFilter defines filtering options for contract queries
type ContractFilter struct {
	shared.Filter
	MasterContractID *uuid.UUID
	ProductID        *uuid.UUID
	Status           *ContractStatus
}

// EndorsementFilter defines filtering options for endorsement queries
type EndorsementFilter struct {
	shared.Filter
	ContractID *uuid.UUID
	Status     *EndorsementStatus
	Type       *EndorsementType
}

// MasterContractRepository defines the interface for master contract persistence
type MasterContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MasterContract, error)
	FindByNumber(ctx context.Context, masterContractNumber string) (*MasterContract, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]MasterContract, error)
	Save(ctx context.Context, masterContract *MasterContract) error
	SaveWithLock(ctx context.Context, masterContract *MasterContract) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ContractRepository defines the interface for contract persistence
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindByNumber(ctx context.Context, contractNumber string) (*Contract, error)
	FindByMasterContract(ctx context.Context, masterContractID uuid.UUID, filter ContractFilter) ([]Contract, error)
	Save(ctx context.Context, contract *Contract) error
	SaveWithLock(ctx context.Context, contract *Contract) error
}

// EndorsementRepository defines the interface for endorsement persistence
type EndorsementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Endorsement, error)
	FindByNumber(ctx context.Context, endorsementNumber string) (*Endorsement, error)
	FindByContract(ctx context.Context, contractID uuid.UUID, filter EndorsementFilter) ([]Endorsement, error)
	Save(ctx context.Context, endorsement *Endorsement) error
	SaveWithLock(ctx context.Context, endorsement *Endorsement) error
}
