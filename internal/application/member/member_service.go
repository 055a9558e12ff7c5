package member

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/member"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// MemberService handles member enrollment and coverage lifecycle
type MemberService struct {
	memberRepo   member.MemberRepository
	contractRepo contract.ContractRepository
	clock        shared.Clock
	logger       *zap.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(
	memberRepo member.MemberRepository,
	contractRepo contract.ContractRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *MemberService {
	return &MemberService{
		memberRepo:   memberRepo,
		contractRepo: contractRepo,
		clock:        clock,
		logger:       logger,
	}
}

// EnrollMemberRequest represents a request to enroll a member under a contract
type EnrollMemberRequest struct {
	MemberNumber  string
	FirstName     string
	LastName      string
	DateOfBirth   valueobject.Date
	Gender        member.Gender
	Email         string
	PhoneNumber   string
	Address       string
	ContractID    uuid.UUID
	EffectiveDate valueobject.Date
	Actor         string
}

// EnrollMember enrolls a new member in Pending status. The target contract
// must exist and not be terminated.
func (s *MemberService) EnrollMember(ctx context.Context, req EnrollMemberRequest) (*member.Member, error) {
	c, err := s.contractRepo.FindByID(ctx, req.ContractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	if c == nil {
		return nil, shared.ErrNotFound
	}
	if c.Status == contract.ContractStatusTerminated {
		return nil, shared.NewInvalidTransition(fmt.Sprintf("Cannot enroll members under terminated contract %s", c.ContractNumber))
	}

	existing, err := s.memberRepo.FindByMemberNumber(ctx, req.MemberNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check member number: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_MEMBER_NUMBER", fmt.Sprintf("Member number %s already exists", req.MemberNumber))
	}

	m, err := member.NewMember(
		req.MemberNumber,
		req.FirstName,
		req.LastName,
		req.DateOfBirth,
		req.Gender,
		req.ContractID,
		req.EffectiveDate,
		req.Actor,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}
	m.Email = req.Email
	m.PhoneNumber = req.PhoneNumber
	m.Address = req.Address

	if err := s.memberRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Member enrolled",
		zap.String("member_number", m.MemberNumber),
		zap.String("contract_id", m.ContractID.String()))

	return m, nil
}

// ActivateMember puts the member on cover
func (s *MemberService) ActivateMember(ctx context.Context, memberID uuid.UUID, actor string) (*member.Member, error) {
	m, err := s.loadMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	m.Activate()
	m.RecordModification(actor, s.clock.Now())

	if err := s.memberRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SuspendMember takes the member off cover without ending enrollment
func (s *MemberService) SuspendMember(ctx context.Context, memberID uuid.UUID, actor string) (*member.Member, error) {
	m, err := s.loadMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	m.Suspend()
	m.RecordModification(actor, s.clock.Now())

	if err := s.memberRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// TerminateMember ends the member's coverage as of the given date
func (s *MemberService) TerminateMember(ctx context.Context, memberID uuid.UUID, terminationDate valueobject.Date, actor string) (*member.Member, error) {
	m, err := s.loadMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	m.Terminate(terminationDate)
	m.RecordModification(actor, s.clock.Now())

	if err := s.memberRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateContactInfoRequest represents a contact details change
type UpdateContactInfoRequest struct {
	MemberID    uuid.UUID
	Email       string
	PhoneNumber string
	Address     string
	Actor       string
}

// UpdateContactInfo replaces the member's contact details
func (s *MemberService) UpdateContactInfo(ctx context.Context, req UpdateContactInfoRequest) (*member.Member, error) {
	m, err := s.loadMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	m.UpdateContactInfo(req.Email, req.PhoneNumber, req.Address)
	m.RecordModification(req.Actor, s.clock.Now())

	if err := s.memberRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMember loads a member by ID
func (s *MemberService) GetMember(ctx context.Context, memberID uuid.UUID) (*member.Member, error) {
	return s.loadMember(ctx, memberID)
}

// ListByContract lists members enrolled under a contract
func (s *MemberService) ListByContract(ctx context.Context, contractID uuid.UUID, filter member.MemberFilter) ([]member.Member, int64, error) {
	members, err := s.memberRepo.FindByContract(ctx, contractID, filter)
	if err != nil {
		return nil, 0, err
	}

	countFilter := member.MemberFilter{ContractID: &contractID, Status: filter.Status}
	total, err := s.memberRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

func (s *MemberService) loadMember(ctx context.Context, memberID uuid.UUID) (*member.Member, error) {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if m == nil {
		return nil, shared.ErrNotFound
	}
	return m, nil
}
