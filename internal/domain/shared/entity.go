package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common identity and audit fields for all entities.
// Actor and timestamp are supplied by the caller, never derived internally,
// so every mutation stays attributable and deterministic under test.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// RecordCreation stamps the creation audit fields
func (e *BaseEntity) RecordCreation(actor string, at time.Time) {
	e.CreatedAt = at
	e.CreatedBy = actor
	e.UpdatedAt = at
	e.UpdatedBy = actor
}

// RecordModification stamps the modification audit fields
func (e *BaseEntity) RecordModification(actor string, at time.Time) {
	e.UpdatedAt = at
	e.UpdatedBy = actor
}

// NewBaseEntity creates a new base entity with generated ID and creation audit
func NewBaseEntity(actor string, at time.Time) BaseEntity {
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: at,
		CreatedBy: actor,
		UpdatedAt: at,
		UpdatedBy: actor,
	}
}
