package contract

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// EndorsementType represents the kind of contract amendment
type EndorsementType string

const (
	EndorsementTypeAddition     EndorsementType = "ADDITION"
	EndorsementTypeDeletion     EndorsementType = "DELETION"
	EndorsementTypeModification EndorsementType = "MODIFICATION"
	EndorsementTypeRenewal      EndorsementType = "RENEWAL"
	EndorsementTypeCancellation EndorsementType = "CANCELLATION"
)

// IsValid checks if the endorsement type is valid
func (t EndorsementType) IsValid() bool {
	switch t {
	case EndorsementTypeAddition, EndorsementTypeDeletion, EndorsementTypeModification,
		EndorsementTypeRenewal, EndorsementTypeCancellation:
		return true
	}
	return false
}

// String returns the string representation of EndorsementType
func (t EndorsementType) String() string {
	return string(t)
}

// EndorsementStatus represents the status of an endorsement
type EndorsementStatus string

const (
	EndorsementStatusPending   EndorsementStatus = "PENDING"
	EndorsementStatusApproved  EndorsementStatus = "APPROVED"
	EndorsementStatusRejected  EndorsementStatus = "REJECTED"
	EndorsementStatusProcessed EndorsementStatus = "PROCESSED"
	EndorsementStatusCancelled EndorsementStatus = "CANCELLED"
)

// IsValid checks if the status is a valid EndorsementStatus
func (s EndorsementStatus) IsValid() bool {
	switch s {
	case EndorsementStatusPending, EndorsementStatusApproved, EndorsementStatusRejected,
		EndorsementStatusProcessed, EndorsementStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of EndorsementStatus
func (s EndorsementStatus) String() string {
	return string(s)
}

// Endorsement is an amendment to a contract. PremiumAdjustment may be
// positive or negative; realizing it as a billing line item happens in the
// application layer when the endorsement is processed, Processed is terminal.
type Endorsement struct {
	shared.BaseAggregateRoot
	EndorsementNumber string
	ContractID        uuid.UUID
	Type              EndorsementType
	Status            EndorsementStatus
	EffectiveDate     valueobject.Date
	PremiumAdjustment decimal.Decimal
	Description       string
	ProcessedOn       *time.Time
	ProcessedBy       string
}

// NewEndorsement creates a new endorsement in Pending status
func NewEndorsement(
	endorsementNumber string,
	contractID uuid.UUID,
	endorsementType EndorsementType,
	effectiveDate valueobject.Date,
	premiumAdjustment decimal.Decimal,
	description string,
	actor string,
	at time.Time,
) (*Endorsement, error) {
	if endorsementNumber == "" {
		return nil, shared.NewDomainError("INVALID_ENDORSEMENT_NUMBER", "Endorsement number cannot be empty")
	}
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if !endorsementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENDORSEMENT_TYPE", "Endorsement type is not valid")
	}
	if effectiveDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EFFECTIVE_DATE", "Effective date is required")
	}

	return &Endorsement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(actor, at),
		EndorsementNumber: endorsementNumber,
		ContractID:        contractID,
		Type:              endorsementType,
		Status:            EndorsementStatusPending,
		EffectiveDate:     effectiveDate,
		PremiumAdjustment: premiumAdjustment,
		Description:       description,
	}, nil
}

// Approve moves a Pending endorsement to Approved
func (e *Endorsement) Approve() error {
	if e.Status != EndorsementStatusPending {
		return shared.NewInvalidTransition(fmt.Sprintf("Only pending endorsements can be approved, %s is %s", e.EndorsementNumber, e.Status))
	}

	e.Status = EndorsementStatusApproved
	e.IncrementVersion()

	return nil
}

// Reject moves a Pending endorsement to Rejected
func (e *Endorsement) Reject() error {
	if e.Status != EndorsementStatusPending {
		return shared.NewInvalidTransition(fmt.Sprintf("Only pending endorsements can be rejected, %s is %s", e.EndorsementNumber, e.Status))
	}

	e.Status = EndorsementStatusRejected
	e.IncrementVersion()

	return nil
}

// Process applies an Approved endorsement, stamping who processed it and
// when. The caller supplies both; the entity keeps no clock.
func (e *Endorsement) Process(processedBy string, at time.Time) error {
	if e.Status != EndorsementStatusApproved {
		return shared.NewInvalidTransition(fmt.Sprintf("Only approved endorsements can be processed, %s is %s", e.EndorsementNumber, e.Status))
	}
	if processedBy == "" {
		return shared.NewDomainError("INVALID_PROCESSOR", "Processed-by actor cannot be empty")
	}

	e.Status = EndorsementStatusProcessed
	e.ProcessedOn = &at
	e.ProcessedBy = processedBy
	e.IncrementVersion()

	e.AddDomainEvent(NewEndorsementProcessedEvent(e, at))

	return nil
}

// Cancel withdraws the endorsement. Illegal once Processed, the amendment
// has already taken effect.
func (e *Endorsement) Cancel() error {
	if e.Status == EndorsementStatusProcessed {
		return shared.NewInvalidTransition(fmt.Sprintf("Cannot cancel processed endorsement %s", e.EndorsementNumber))
	}

	e.Status = EndorsementStatusCancelled
	e.IncrementVersion()

	return nil
}

// IsProcessed returns true if the endorsement has been processed
func (e *Endorsement) IsProcessed() bool {
	return e.Status == EndorsementStatusProcessed
}
