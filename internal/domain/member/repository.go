package member

import (
	"context"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
)

// MemberFilter defines filtering options for member queries
type MemberFilter struct {
	shared.Filter
	ContractID *uuid.UUID
	Status     *MemberStatus
}

// MemberRepository defines the interface for member persistence
type MemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	FindByMemberNumber(ctx context.Context, memberNumber string) (*Member, error)
	FindByContract(ctx context.Context, contractID uuid.UUID, filter MemberFilter) ([]Member, error)
	Save(ctx context.Context, member *Member) error
	SaveWithLock(ctx context.Context, member *Member) error
	Count(ctx context.Context, filter MemberFilter) (int64, error)
}
