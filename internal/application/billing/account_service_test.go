package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAccountService(f *testFixture) *AccountService {
	return NewAccountService(f.scope, f.publisher, f.clock, zap.NewNop())
}

func TestOpenAccount(t *testing.T) {
	f := newTestFixture()
	svc := newAccountService(f)
	ctx := context.Background()

	account, err := svc.OpenAccount(ctx, OpenAccountRequest{
		AccountNumber:    "ACC-2026-300",
		MasterContractID: uuid.New(),
		ContractID:       uuid.New(),
		Currency:         valueobject.USD,
		AccountType:      billing.AccountTypeEmployer,
		BillingCycle:     billing.BillingCycleMonthly,
		Actor:            "onboarding",
	})
	require.NoError(t, err)

	assert.Equal(t, billing.AccountStatusActive, account.Status)
	assert.Equal(t, "onboarding", account.CreatedBy)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "BillingAccountCreated", events[0].EventType())
}

func TestOpenAccount_OnePerContract(t *testing.T) {
	f := newTestFixture()
	svc := newAccountService(f)
	ctx := context.Background()

	contractID := uuid.New()

	_, err := svc.OpenAccount(ctx, OpenAccountRequest{
		AccountNumber:    "ACC-2026-301",
		MasterContractID: uuid.New(),
		ContractID:       contractID,
		Currency:         valueobject.USD,
		AccountType:      billing.AccountTypeEmployer,
		BillingCycle:     billing.BillingCycleMonthly,
		Actor:            "onboarding",
	})
	require.NoError(t, err)

	_, err = svc.OpenAccount(ctx, OpenAccountRequest{
		AccountNumber:    "ACC-2026-302",
		MasterContractID: uuid.New(),
		ContractID:       contractID,
		Currency:         valueobject.USD,
		AccountType:      billing.AccountTypeEmployer,
		BillingCycle:     billing.BillingCycleMonthly,
		Actor:            "onboarding",
	})
	assert.Error(t, err)
}

func TestRecordInstallment_DebitAddsCharge(t *testing.T) {
	f := newTestFixture()
	svc := newAccountService(f)
	ctx := context.Background()

	account := seedAccount(t, f)

	inst, err := svc.RecordInstallment(ctx, RecordInstallmentRequest{
		AccountID:  account.ID,
		ContractID: account.ContractID,
		ProductID:  uuid.New(),
		Type:       billing.InstallmentTypePremium,
		Direction:  billing.DirectionDebit,
		Amount:     decimal.NewFromInt(250),
		Tax:        decimal.NewFromInt(25),
		DueDate:    valueobject.NewDate(2026, time.April, 1),
		Actor:      "biller",
	})
	require.NoError(t, err)
	assert.Equal(t, billing.InstallmentStatusActive, inst.Status)

	stored, _ := f.accountRepo.FindByID(ctx, account.ID)
	assert.True(t, stored.OutstandingAmount.Equal(decimal.NewFromInt(275)))
	assert.True(t, stored.TotalBilledAmount.Equal(decimal.NewFromInt(275)))
}

func TestRecordInstallment_CreditReducesOutstanding(t *testing.T) {
	f := newTestFixture()
	svc := newAccountService(f)
	ctx := context.Background()

	account := seedAccount(t, f)
	a, _ := f.accountRepo.FindByID(ctx, account.ID)
	require.NoError(t, a.AddCharge(decimal.NewFromInt(500)))
	require.NoError(t, f.accountRepo.SaveWithLock(ctx, a))

	_, err := svc.RecordInstallment(ctx, RecordInstallmentRequest{
		AccountID:  account.ID,
		ContractID: account.ContractID,
		ProductID:  uuid.New(),
		Type:       billing.InstallmentTypeRefund,
		Direction:  billing.DirectionCredit,
		Amount:     decimal.NewFromInt(200),
		Tax:        decimal.Zero,
		DueDate:    valueobject.NewDate(2026, time.April, 1),
		Actor:      "biller",
	})
	require.NoError(t, err)

	stored, _ := f.accountRepo.FindByID(ctx, account.ID)
	assert.True(t, stored.OutstandingAmount.Equal(decimal.NewFromInt(300)))
	// credits never count as billed
	assert.True(t, stored.TotalBilledAmount.Equal(decimal.NewFromInt(500)))
}

func TestRecordInstallment_InactiveAccountRefused(t *testing.T) {
	f := newTestFixture()
	svc := newAccountService(f)
	ctx := context.Background()

	account := seedAccount(t, f)
	_, err := svc.DeactivateAccount(ctx, account.ID, "onboarding")
	require.NoError(t, err)

	_, err = svc.RecordInstallment(ctx, RecordInstallmentRequest{
		AccountID:  account.ID,
		ContractID: account.ContractID,
		ProductID:  uuid.New(),
		Type:       billing.InstallmentTypePremium,
		Direction:  billing.DirectionDebit,
		Amount:     decimal.NewFromInt(100),
		Tax:        decimal.Zero,
		DueDate:    valueobject.NewDate(2026, time.April, 1),
		Actor:      "biller",
	})
	assert.Error(t, err)
	assert.False(t, shared.IsDomainError(err, shared.CodeNotFound))
}
