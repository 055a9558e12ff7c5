package shared

import (
	"testing"
	"time"

	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
)

func TestFixedClock(t *testing.T) {
	moment := time.Date(2026, time.April, 10, 15, 30, 0, 0, time.UTC)
	clock := NewFixedClock(moment)

	assert.Equal(t, moment, clock.Now())
	assert.Equal(t, valueobject.NewDate(2026, time.April, 10), clock.Today())
}

func TestSystemClock_IsUTC(t *testing.T) {
	clock := SystemClock{}
	_, offset := clock.Now().Zone()
	assert.Equal(t, 0, offset)
}

func TestRecordCreationAndModification(t *testing.T) {
	created := time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	entity := NewBaseEntity("system", created)

	assert.Equal(t, "system", entity.CreatedBy)
	assert.Equal(t, "system", entity.UpdatedBy)
	assert.Equal(t, created, entity.CreatedAt)
	assert.NotEqual(t, [16]byte{}, [16]byte(entity.ID))

	modified := created.Add(2 * time.Hour)
	entity.RecordModification("auditor", modified)

	assert.Equal(t, "system", entity.CreatedBy)
	assert.Equal(t, created, entity.CreatedAt)
	assert.Equal(t, "auditor", entity.UpdatedBy)
	assert.Equal(t, modified, entity.UpdatedAt)
}

func TestIsDomainError(t *testing.T) {
	err := NewInvalidAmount("amount must be positive")
	assert.True(t, IsDomainError(err, CodeInvalidAmount))
	assert.False(t, IsDomainError(err, CodeInvalidTransition))
	assert.False(t, IsDomainError(nil, CodeInvalidAmount))
	assert.True(t, IsDomainError(ErrConcurrencyConflict, CodeConcurrencyConflict))
}
