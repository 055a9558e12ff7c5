package member

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
)

// Gender of an insured member
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// IsValid checks if the gender value is valid
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// MemberStatus represents the status of a member
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusInactive  MemberStatus = "INACTIVE"
	MemberStatusSuspended MemberStatus = "SUSPENDED"
	MemberStatusPending   MemberStatus = "PENDING"
)

// IsValid checks if the status is a valid MemberStatus
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusSuspended, MemberStatusPending:
		return true
	}
	return false
}

// String returns the string representation of MemberStatus
func (s MemberStatus) String() string {
	return string(s)
}

// Member is an insured person covered under a contract
type Member struct {
	shared.BaseAggregateRoot
	MemberNumber    string
	FirstName       string
	LastName        string
	DateOfBirth     valueobject.Date
	Gender          Gender
	Email           string
	PhoneNumber     string
	Address         string
	ContractID      uuid.UUID
	Status          MemberStatus
	EffectiveDate   valueobject.Date
	TerminationDate *valueobject.Date
}

// NewMember enrolls a new member in Pending status
func NewMember(
	memberNumber string,
	firstName string,
	lastName string,
	dateOfBirth valueobject.Date,
	gender Gender,
	contractID uuid.UUID,
	effectiveDate valueobject.Date,
	actor string,
	at time.Time,
) (*Member, error) {
	if memberNumber == "" {
		return nil, shared.NewDomainError("INVALID_MEMBER_NUMBER", "Member number cannot be empty")
	}
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if dateOfBirth.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE_OF_BIRTH", "Date of birth is required")
	}
	if !gender.IsValid() {
		return nil, shared.NewDomainError("INVALID_GENDER", "Gender is not valid")
	}
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if effectiveDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EFFECTIVE_DATE", "Effective date is required")
	}

	return &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor, at),
		MemberNumber:      memberNumber,
		FirstName:         firstName,
		LastName:          lastName,
		DateOfBirth:       dateOfBirth,
		Gender:            gender,
		ContractID:        contractID,
		Status:            MemberStatusPending,
		EffectiveDate:     effectiveDate,
	}, nil
}

// FullName returns the member's display name
func (m *Member) FullName() string {
	return fmt.Sprintf("%s %s", m.FirstName, m.LastName)
}

// Age returns the member's age in whole years on the given day
func (m *Member) Age(today valueobject.Date) int {
	age := today.Year() - m.DateOfBirth.Year()
	if m.DateOfBirth.After(today.AddYears(-age)) {
		age--
	}
	return age
}

// Activate puts the member on cover
func (m *Member) Activate() {
	m.Status = MemberStatusActive
	m.IncrementVersion()
}

// Suspend takes the member off cover without ending enrollment
func (m *Member) Suspend() {
	m.Status = MemberStatusSuspended
	m.IncrementVersion()
}

// Terminate ends the member's coverage as of the given date
func (m *Member) Terminate(terminationDate valueobject.Date) {
	m.Status = MemberStatusInactive
	m.TerminationDate = &terminationDate
	m.IncrementVersion()
}

// UpdateContactInfo replaces the member's contact details
func (m *Member) UpdateContactInfo(email, phoneNumber, address string) {
	m.Email = email
	m.PhoneNumber = phoneNumber
	m.Address = address
	m.IncrementVersion()
}

// IsCoverageActive reports whether the member is covered on the given day.
// An open-ended enrollment (nil termination date) stays covered.
func (m *Member) IsCoverageActive(today valueobject.Date) bool {
	return m.Status == MemberStatusActive &&
		m.EffectiveDate.BeforeOrEqual(today) &&
		(m.TerminationDate == nil || m.TerminationDate.After(today))
}
