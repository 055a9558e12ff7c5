package billing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memContractRepo struct {
	mu        sync.Mutex
	contracts map[uuid.UUID]contract.Contract
}

func newMemContractRepo() *memContractRepo {
	return &memContractRepo{contracts: make(map[uuid.UUID]contract.Contract)}
}

func (r *memContractRepo) FindByID(_ context.Context, id uuid.UUID) (*contract.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.contracts[id]; ok {
		found := c
		return &found, nil
	}
	return nil, nil
}

func (r *memContractRepo) FindByNumber(_ context.Context, _ string) (*contract.Contract, error) {
	return nil, nil
}

func (r *memContractRepo) FindByMasterContract(_ context.Context, _ uuid.UUID, _ contract.ContractFilter) ([]contract.Contract, error) {
	return nil, nil
}

func (r *memContractRepo) Save(_ context.Context, c *contract.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[c.ID] = *c
	return nil
}

func (r *memContractRepo) SaveWithLock(_ context.Context, c *contract.Contract) error {
	return r.Save(context.Background(), c)
}

func seedContractForAccount(t *testing.T, repo *memContractRepo, account *billing.BillingAccount) *contract.Contract {
	c, err := contract.NewContract(
		"CNT-2026-500",
		account.MasterContractID,
		uuid.New(),
		valueobject.USD,
		decimal.NewFromInt(12000),
		valueobject.NewDate(2026, time.January, 1),
		valueobject.NewDate(2027, time.January, 1),
		"system",
		fixedNow,
	)
	require.NoError(t, err)
	c.ID = account.ContractID // the billing account references this contract
	require.NoError(t, repo.Save(context.Background(), c))
	return c
}

func processedEvent(t *testing.T, c *contract.Contract, adjustment int64) *contract.EndorsementProcessedEvent {
	e, err := contract.NewEndorsement(
		"END-2026-500",
		c.ID,
		contract.EndorsementTypeAddition,
		valueobject.NewDate(2026, time.April, 1),
		decimal.NewFromInt(adjustment),
		"mid-term change",
		"system",
		fixedNow,
	)
	require.NoError(t, err)
	require.NoError(t, e.Approve())
	require.NoError(t, e.Process("underwriter-3", fixedNow))
	return contract.NewEndorsementProcessedEvent(e, fixedNow)
}

func TestEndorsementProcessedHandler_PositiveAdjustmentDebits(t *testing.T) {
	f := newTestFixture()
	contractRepo := newMemContractRepo()
	handler := NewEndorsementProcessedHandler(f.scope, contractRepo, f.clock, zap.NewNop())
	ctx := context.Background()

	account := seedAccount(t, f)
	c := seedContractForAccount(t, contractRepo, account)
	event := processedEvent(t, c, 300)

	require.NoError(t, handler.Handle(ctx, event))

	installments, err := f.installmentRepo.FindByEndorsement(ctx, event.EndorsementID)
	require.NoError(t, err)
	require.Len(t, installments, 1)
	assert.Equal(t, billing.DirectionDebit, installments[0].Direction)
	assert.Equal(t, billing.InstallmentTypeAdjustment, installments[0].Type)
	assert.True(t, installments[0].Amount.Equal(decimal.NewFromInt(300)))

	stored, _ := f.accountRepo.FindByID(ctx, account.ID)
	assert.True(t, stored.OutstandingAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, stored.TotalBilledAmount.Equal(decimal.NewFromInt(300)))
}

func TestEndorsementProcessedHandler_NegativeAdjustmentCredits(t *testing.T) {
	f := newTestFixture()
	contractRepo := newMemContractRepo()
	handler := NewEndorsementProcessedHandler(f.scope, contractRepo, f.clock, zap.NewNop())
	ctx := context.Background()

	account := seedAccount(t, f)
	a, _ := f.accountRepo.FindByID(ctx, account.ID)
	require.NoError(t, a.AddCharge(decimal.NewFromInt(500)))
	require.NoError(t, f.accountRepo.SaveWithLock(ctx, a))

	c := seedContractForAccount(t, contractRepo, account)
	event := processedEvent(t, c, -150)

	require.NoError(t, handler.Handle(ctx, event))

	installments, _ := f.installmentRepo.FindByEndorsement(ctx, event.EndorsementID)
	require.Len(t, installments, 1)
	assert.Equal(t, billing.DirectionCredit, installments[0].Direction)
	assert.True(t, installments[0].Amount.Equal(decimal.NewFromInt(150)))

	stored, _ := f.accountRepo.FindByID(ctx, account.ID)
	assert.True(t, stored.OutstandingAmount.Equal(decimal.NewFromInt(350)))
}

func TestEndorsementProcessedHandler_ReplayDoesNotDoubleCharge(t *testing.T) {
	f := newTestFixture()
	contractRepo := newMemContractRepo()
	handler := NewEndorsementProcessedHandler(f.scope, contractRepo, f.clock, zap.NewNop())
	ctx := context.Background()

	account := seedAccount(t, f)
	c := seedContractForAccount(t, contractRepo, account)
	event := processedEvent(t, c, 300)

	require.NoError(t, handler.Handle(ctx, event))
	require.NoError(t, handler.Handle(ctx, event))

	installments, _ := f.installmentRepo.FindByEndorsement(ctx, event.EndorsementID)
	assert.Len(t, installments, 1)

	stored, _ := f.accountRepo.FindByID(ctx, account.ID)
	assert.True(t, stored.OutstandingAmount.Equal(decimal.NewFromInt(300)))
}

func TestEndorsementProcessedHandler_ZeroAdjustmentSkips(t *testing.T) {
	f := newTestFixture()
	contractRepo := newMemContractRepo()
	handler := NewEndorsementProcessedHandler(f.scope, contractRepo, f.clock, zap.NewNop())
	ctx := context.Background()

	account := seedAccount(t, f)
	c := seedContractForAccount(t, contractRepo, account)
	event := processedEvent(t, c, 0)

	require.NoError(t, handler.Handle(ctx, event))

	installments, _ := f.installmentRepo.FindByEndorsement(ctx, event.EndorsementID)
	assert.Empty(t, installments)
}

func TestEndorsementProcessedHandler_WrongEventType(t *testing.T) {
	f := newTestFixture()
	handler := NewEndorsementProcessedHandler(f.scope, newMemContractRepo(), f.clock, zap.NewNop())

	account := seedAccount(t, f)
	err := handler.Handle(context.Background(), billing.NewBillingAccountCreatedEvent(account, fixedNow))
	assert.Error(t, err)
}
