package contract

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newContractService(f *testFixture) *ContractService {
	return NewContractService(f.masterRepo, f.contractRepo, f.publisher, f.clock, zap.NewNop())
}

func seedMasterContract(t *testing.T, f *testFixture) *contract.MasterContract {
	m, err := contract.NewMasterContract(
		"MC-2026-001",
		"Acme Manufacturing",
		valueobject.USD,
		valueobject.NewDate(2026, time.January, 1),
		valueobject.NewDate(2027, time.January, 1),
		"system",
		fixedNow,
	)
	require.NoError(t, err)
	m.ClearDomainEvents()
	require.NoError(t, f.masterRepo.Save(context.Background(), m))
	return m
}

func seedContract(t *testing.T, f *testFixture, masterID uuid.UUID) *contract.Contract {
	c, err := contract.NewContract(
		"CNT-2026-001",
		masterID,
		uuid.New(),
		valueobject.USD,
		decimal.NewFromInt(12000),
		valueobject.NewDate(2026, time.January, 1),
		valueobject.NewDate(2027, time.January, 1),
		"system",
		fixedNow,
	)
	require.NoError(t, err)
	c.ClearDomainEvents()
	require.NoError(t, f.contractRepo.Save(context.Background(), c))
	return c
}

func TestCreateMasterContract(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)

	m, err := svc.CreateMasterContract(context.Background(), CreateMasterContractRequest{
		MasterContractNumber: "MC-2026-010",
		PolicyholderName:     "Acme Manufacturing",
		Currency:             valueobject.USD,
		EffectiveDate:        valueobject.NewDate(2026, time.January, 1),
		ExpirationDate:       valueobject.NewDate(2027, time.January, 1),
		Actor:                "underwriter-1",
	})
	require.NoError(t, err)

	assert.Equal(t, contract.ContractStatusDraft, m.Status)
	assert.Equal(t, "underwriter-1", m.CreatedBy)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "MasterContractCreated", events[0].EventType())
}

func TestCreateContract(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)
	ctx := context.Background()

	master := seedMasterContract(t, f)

	c, err := svc.CreateContract(ctx, CreateContractRequest{
		ContractNumber:   "CNT-2026-010",
		MasterContractID: master.ID,
		ProductID:        uuid.New(),
		Currency:         valueobject.USD,
		PremiumAmount:    decimal.NewFromInt(9000),
		EffectiveDate:    valueobject.NewDate(2026, time.February, 1),
		ExpirationDate:   valueobject.NewDate(2027, time.February, 1),
		Actor:            "underwriter-1",
	})
	require.NoError(t, err)

	assert.Equal(t, contract.ContractStatusDraft, c.Status)
	assert.Equal(t, master.ID, c.MasterContractID)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "ContractCreated", events[0].EventType())
}

func TestCreateContract_MasterNotFound(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)

	_, err := svc.CreateContract(context.Background(), CreateContractRequest{
		ContractNumber:   "CNT-2026-011",
		MasterContractID: uuid.New(),
		ProductID:        uuid.New(),
		Currency:         valueobject.USD,
		PremiumAmount:    decimal.NewFromInt(9000),
		EffectiveDate:    valueobject.NewDate(2026, time.February, 1),
		ExpirationDate:   valueobject.NewDate(2027, time.February, 1),
		Actor:            "underwriter-1",
	})
	assert.True(t, shared.IsDomainError(err, shared.CodeNotFound))
}

func TestCreateContract_TerminatedMasterRefused(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)
	ctx := context.Background()

	master := seedMasterContract(t, f)
	m, _ := f.masterRepo.FindByID(ctx, master.ID)
	m.Terminate(valueobject.NewDate(2026, time.February, 15))
	require.NoError(t, f.masterRepo.SaveWithLock(ctx, m))

	_, err := svc.CreateContract(ctx, CreateContractRequest{
		ContractNumber:   "CNT-2026-012",
		MasterContractID: master.ID,
		ProductID:        uuid.New(),
		Currency:         valueobject.USD,
		PremiumAmount:    decimal.NewFromInt(9000),
		EffectiveDate:    valueobject.NewDate(2026, time.February, 1),
		ExpirationDate:   valueobject.NewDate(2027, time.February, 1),
		Actor:            "underwriter-1",
	})
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
}

func TestCreateContract_CurrencyMismatch(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)

	master := seedMasterContract(t, f)

	_, err := svc.CreateContract(context.Background(), CreateContractRequest{
		ContractNumber:   "CNT-2026-013",
		MasterContractID: master.ID,
		ProductID:        uuid.New(),
		Currency:         valueobject.EUR,
		PremiumAmount:    decimal.NewFromInt(9000),
		EffectiveDate:    valueobject.NewDate(2026, time.February, 1),
		ExpirationDate:   valueobject.NewDate(2027, time.February, 1),
		Actor:            "underwriter-1",
	})
	assert.True(t, shared.IsDomainError(err, "CURRENCY_MISMATCH"))
}

func TestContractLifecycle(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)
	ctx := context.Background()

	master := seedMasterContract(t, f)
	c := seedContract(t, f, master.ID)

	activated, err := svc.ActivateContract(ctx, c.ID, "ops")
	require.NoError(t, err)
	assert.Equal(t, contract.ContractStatusActive, activated.Status)
	assert.Equal(t, "ops", activated.UpdatedBy)

	suspended, err := svc.SuspendContract(ctx, c.ID, "ops")
	require.NoError(t, err)
	assert.Equal(t, contract.ContractStatusSuspended, suspended.Status)

	terminated, err := svc.TerminateContract(ctx, c.ID, valueobject.NewDate(2026, time.June, 30), "ops")
	require.NoError(t, err)
	assert.Equal(t, contract.ContractStatusTerminated, terminated.Status)
	require.NotNil(t, terminated.TerminationDate)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "ContractTerminated", events[0].EventType())

	// terminated contracts stay terminated
	_, err = svc.ActivateContract(ctx, c.ID, "ops")
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
}

func TestSuspendContract_RequiresActive(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)
	ctx := context.Background()

	master := seedMasterContract(t, f)
	c := seedContract(t, f, master.ID)

	_, err := svc.SuspendContract(ctx, c.ID, "ops")
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
}

func TestActivateContract_NotFound(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)

	_, err := svc.ActivateContract(context.Background(), uuid.New(), "ops")
	assert.True(t, shared.IsDomainError(err, shared.CodeNotFound))
}

func TestMasterContractLifecycle(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)
	m := seedMasterContract(t, f)

	activated, err := svc.ActivateMasterContract(context.Background(), m.ID, "underwriter-1")
	require.NoError(t, err)
	assert.Equal(t, contract.ContractStatusActive, activated.Status)

	suspended, err := svc.SuspendMasterContract(context.Background(), m.ID, "underwriter-1")
	require.NoError(t, err)
	assert.Equal(t, contract.ContractStatusSuspended, suspended.Status)

	terminated, err := svc.TerminateMasterContract(context.Background(), m.ID, valueobject.NewDate(2026, time.June, 30), "underwriter-1")
	require.NoError(t, err)
	assert.Equal(t, contract.ContractStatusTerminated, terminated.Status)
	require.NotNil(t, terminated.TerminationDate)

	_, err = svc.ActivateMasterContract(context.Background(), m.ID, "underwriter-1")
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
}

func TestListMasterContracts(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)
	seedMasterContract(t, f)

	masters, total, err := svc.ListMasterContracts(context.Background(), shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, masters, 1)
	assert.Equal(t, int64(1), total)
}

func TestListContractsByMaster(t *testing.T) {
	f := newTestFixture()
	svc := newContractService(f)
	m := seedMasterContract(t, f)
	seedContract(t, f, m.ID)

	contracts, err := svc.ListContractsByMaster(context.Background(), m.ID, contract.ContractFilter{})
	require.NoError(t, err)
	assert.Len(t, contracts, 1)
}
