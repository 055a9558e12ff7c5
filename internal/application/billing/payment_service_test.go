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

var fixedNow = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

func newPaymentService(f *testFixture, store shared.IdempotencyStore) *PaymentService {
	return NewPaymentService(f.scope, store, shared.DefaultIdempotencyConfig(), f.publisher, f.clock, zap.NewNop())
}

func seedAccount(t *testing.T, f *testFixture) *billing.BillingAccount {
	account, err := billing.NewBillingAccount(
		"ACC-2026-100",
		uuid.New(),
		uuid.New(),
		valueobject.USD,
		billing.AccountTypeEmployer,
		billing.BillingCycleMonthly,
		"system",
		fixedNow,
	)
	require.NoError(t, err)
	account.ClearDomainEvents()
	require.NoError(t, f.accountRepo.Save(context.Background(), account))
	return account
}

func seedIssuedInvoice(t *testing.T, f *testFixture, account *billing.BillingAccount, amount, tax int64) *billing.Invoice {
	invoice, err := billing.NewInvoice(account.ID, "INV-2026-100", decimal.NewFromInt(amount), decimal.NewFromInt(tax), "system", fixedNow)
	require.NoError(t, err)
	require.NoError(t, invoice.Issue())
	invoice.ClearDomainEvents()
	require.NoError(t, f.invoiceRepo.Save(context.Background(), invoice))
	return invoice
}

func seedPendingPayment(t *testing.T, f *testFixture, account *billing.BillingAccount, invoiceID *uuid.UUID, amount int64) *billing.Payment {
	payment, err := billing.NewPayment(
		account.ID,
		decimal.NewFromInt(amount),
		valueobject.NewDate(2026, time.March, 1),
		billing.PaymentModeCard,
		"REF-500",
		billing.DirectionCredit,
		"system",
		fixedNow,
	)
	require.NoError(t, err)
	if invoiceID != nil {
		payment.WithInvoice(*invoiceID)
	}
	payment.ClearDomainEvents()
	require.NoError(t, f.paymentRepo.Save(context.Background(), payment))
	return payment
}

func TestCompletePayment_FullSettlement(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	require.NoError(t, func() error {
		a, _ := f.accountRepo.FindByID(ctx, account.ID)
		if err := a.AddCharge(decimal.NewFromInt(1100)); err != nil {
			return err
		}
		return f.accountRepo.SaveWithLock(ctx, a)
	}())
	invoice := seedIssuedInvoice(t, f, account, 1000, 100)
	payment := seedPendingPayment(t, f, account, &invoice.ID, 1100)

	result, err := svc.CompletePayment(ctx, CompletePaymentRequest{PaymentID: payment.ID, Actor: "cashier"})
	require.NoError(t, err)

	assert.False(t, result.AlreadyCompleted)
	assert.Equal(t, billing.InvoiceStatusPaid, result.InvoiceStatus)
	assert.True(t, result.AccountOutstanding.IsZero())

	storedPayment, _ := f.paymentRepo.FindByID(ctx, payment.ID)
	assert.Equal(t, billing.PaymentStatusCompleted, storedPayment.Status)
	assert.Equal(t, "cashier", storedPayment.UpdatedBy)

	storedInvoice, _ := f.invoiceRepo.FindByID(ctx, invoice.ID)
	assert.Equal(t, billing.InvoiceStatusPaid, storedInvoice.Status)

	storedAccount, _ := f.accountRepo.FindByID(ctx, account.ID)
	assert.True(t, storedAccount.OutstandingAmount.IsZero())

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "PaymentCompleted", events[0].EventType())
}

func TestCompletePayment_PartialSettlement(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	invoice := seedIssuedInvoice(t, f, account, 1000, 100)
	payment := seedPendingPayment(t, f, account, &invoice.ID, 400)

	a, _ := f.accountRepo.FindByID(ctx, account.ID)
	require.NoError(t, a.AddCharge(decimal.NewFromInt(1100)))
	require.NoError(t, f.accountRepo.SaveWithLock(ctx, a))

	result, err := svc.CompletePayment(ctx, CompletePaymentRequest{PaymentID: payment.ID, Actor: "cashier"})
	require.NoError(t, err)

	assert.Equal(t, billing.InvoiceStatusPartiallyPaid, result.InvoiceStatus)
	assert.True(t, result.AccountOutstanding.Equal(decimal.NewFromInt(700)))
}

func TestCompletePayment_WithoutInvoice(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	a, _ := f.accountRepo.FindByID(ctx, account.ID)
	require.NoError(t, a.AddCharge(decimal.NewFromInt(500)))
	require.NoError(t, f.accountRepo.SaveWithLock(ctx, a))

	payment := seedPendingPayment(t, f, account, nil, 200)

	result, err := svc.CompletePayment(ctx, CompletePaymentRequest{PaymentID: payment.ID, Actor: "cashier"})
	require.NoError(t, err)

	assert.Nil(t, result.InvoiceID)
	assert.True(t, result.AccountOutstanding.Equal(decimal.NewFromInt(300)))
}

func TestCompletePayment_AlreadyCompletedIsNoOp(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	payment := seedPendingPayment(t, f, account, nil, 200)

	_, err := svc.CompletePayment(ctx, CompletePaymentRequest{PaymentID: payment.ID, Actor: "cashier"})
	require.NoError(t, err)

	outstandingAfterFirst := func() decimal.Decimal {
		a, _ := f.accountRepo.FindByID(ctx, account.ID)
		return a.OutstandingAmount
	}()

	result, err := svc.CompletePayment(ctx, CompletePaymentRequest{PaymentID: payment.ID, Actor: "cashier"})
	require.NoError(t, err)

	assert.True(t, result.AlreadyCompleted)
	a, _ := f.accountRepo.FindByID(ctx, account.ID)
	// the ledger is not touched twice
	assert.True(t, a.OutstandingAmount.Equal(outstandingAfterFirst))
}

func TestCompletePayment_CancelledPaymentFails(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	payment := seedPendingPayment(t, f, account, nil, 200)

	_, err := svc.CancelPayment(ctx, payment.ID, "cashier")
	require.NoError(t, err)

	_, err = svc.CompletePayment(ctx, CompletePaymentRequest{PaymentID: payment.ID, Actor: "cashier"})
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
}

func TestCompletePayment_NotFound(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)

	_, err := svc.CompletePayment(context.Background(), CompletePaymentRequest{PaymentID: uuid.New(), Actor: "cashier"})
	assert.True(t, shared.IsDomainError(err, shared.CodeNotFound))
}

func TestCompletePayment_RetriesOnConcurrencyConflict(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	payment := seedPendingPayment(t, f, account, nil, 200)

	// the first attempt loses the optimistic lock race, the retry wins
	f.accountRepo.conflictsLeft = 1

	result, err := svc.CompletePayment(ctx, CompletePaymentRequest{PaymentID: payment.ID, Actor: "cashier"})
	require.NoError(t, err)

	assert.False(t, result.AlreadyCompleted)
	storedPayment, _ := f.paymentRepo.FindByID(ctx, payment.ID)
	assert.Equal(t, billing.PaymentStatusCompleted, storedPayment.Status)
}

func TestCompletePayment_UnkeyedGetsSingleRetry(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	payment := seedPendingPayment(t, f, account, nil, 200)

	f.accountRepo.conflictsLeft = completeMaxAttempts

	_, err := svc.CompletePayment(ctx, CompletePaymentRequest{PaymentID: payment.ID, Actor: "cashier"})
	assert.True(t, shared.IsDomainError(err, shared.CodeConcurrencyConflict))

	// exactly two attempts were made and nothing was posted
	assert.Equal(t, completeMaxAttempts-completeMaxAttemptsUnkeyed, f.accountRepo.conflictsLeft)
	storedPayment, _ := f.paymentRepo.FindByID(ctx, payment.ID)
	assert.Equal(t, billing.PaymentStatusPending, storedPayment.Status)
}

func TestCompletePayment_KeyedSurvivesTwoConflicts(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, newMemIdempotencyStore())
	ctx := context.Background()

	account := seedAccount(t, f)
	payment := seedPendingPayment(t, f, account, nil, 200)

	// two lost races would exhaust an unkeyed posting; the key buys a third
	f.accountRepo.conflictsLeft = 2

	result, err := svc.CompletePayment(ctx, CompletePaymentRequest{
		PaymentID:      payment.ID,
		Actor:          "cashier",
		IdempotencyKey: "post-200-keyed",
	})
	require.NoError(t, err)

	assert.False(t, result.AlreadyCompleted)
	storedPayment, _ := f.paymentRepo.FindByID(ctx, payment.ID)
	assert.Equal(t, billing.PaymentStatusCompleted, storedPayment.Status)
}

func TestCompletePayment_KeyNotConsumedByFailedPosting(t *testing.T) {
	f := newTestFixture()
	store := newMemIdempotencyStore()
	svc := newPaymentService(f, store)
	ctx := context.Background()

	account := seedAccount(t, f)
	payment := seedPendingPayment(t, f, account, nil, 200)

	// every attempt of the first posting loses the optimistic lock race
	f.accountRepo.conflictsLeft = completeMaxAttempts

	_, err := svc.CompletePayment(ctx, CompletePaymentRequest{
		PaymentID:      payment.ID,
		Actor:          "cashier",
		IdempotencyKey: "post-200-retry",
	})
	require.True(t, shared.IsDomainError(err, shared.CodeConcurrencyConflict))

	storedPayment, _ := f.paymentRepo.FindByID(ctx, payment.ID)
	require.Equal(t, billing.PaymentStatusPending, storedPayment.Status)

	// the client's retry with the same key must actually post, not report a
	// success that never happened
	result, err := svc.CompletePayment(ctx, CompletePaymentRequest{
		PaymentID:      payment.ID,
		Actor:          "cashier",
		IdempotencyKey: "post-200-retry",
	})
	require.NoError(t, err)

	assert.False(t, result.AlreadyCompleted)
	storedPayment, _ = f.paymentRepo.FindByID(ctx, payment.ID)
	assert.Equal(t, billing.PaymentStatusCompleted, storedPayment.Status)
	storedAccount, _ := f.accountRepo.FindByID(ctx, account.ID)
	assert.True(t, storedAccount.OutstandingAmount.Equal(decimal.NewFromInt(-200)))
}

func TestCompletePayment_IdempotencyKeyDeduplicates(t *testing.T) {
	f := newTestFixture()
	store := newMemIdempotencyStore()
	svc := newPaymentService(f, store)
	ctx := context.Background()

	account := seedAccount(t, f)
	payment := seedPendingPayment(t, f, account, nil, 200)

	first, err := svc.CompletePayment(ctx, CompletePaymentRequest{
		PaymentID:      payment.ID,
		Actor:          "cashier",
		IdempotencyKey: "post-200-once",
	})
	require.NoError(t, err)
	assert.False(t, first.AlreadyCompleted)

	second, err := svc.CompletePayment(ctx, CompletePaymentRequest{
		PaymentID:      payment.ID,
		Actor:          "cashier",
		IdempotencyKey: "post-200-once",
	})
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	// the deduplicated response carries the payment's stored state
	assert.Equal(t, account.ID, second.AccountID)
}

func TestRecordPayment(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	invoice := seedIssuedInvoice(t, f, account, 1000, 100)

	payment, err := svc.RecordPayment(ctx, RecordPaymentRequest{
		AccountID:       account.ID,
		InvoiceID:       &invoice.ID,
		Amount:          decimal.NewFromInt(400),
		PaymentDate:     valueobject.NewDate(2026, time.March, 1),
		Mode:            billing.PaymentModeCheque,
		ReferenceNumber: "CHQ-9",
		Actor:           "cashier",
	})
	require.NoError(t, err)

	assert.Equal(t, billing.PaymentStatusPending, payment.Status)
	stored, _ := f.paymentRepo.FindByID(ctx, payment.ID)
	require.NotNil(t, stored)
	assert.Equal(t, invoice.ID, *stored.InvoiceID)
}

func TestRecordPayment_CancelledInvoiceRefused(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	invoice := seedIssuedInvoice(t, f, account, 1000, 100)

	inv, _ := f.invoiceRepo.FindByID(ctx, invoice.ID)
	require.NoError(t, inv.Cancel("lapsed", fixedNow))
	require.NoError(t, f.invoiceRepo.SaveWithLock(ctx, inv))

	_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
		AccountID:       account.ID,
		InvoiceID:       &invoice.ID,
		Amount:          decimal.NewFromInt(400),
		PaymentDate:     valueobject.NewDate(2026, time.March, 1),
		Mode:            billing.PaymentModeCash,
		ReferenceNumber: "R-1",
		Actor:           "cashier",
	})
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
}

func TestCancelPayment_CompletedRefused(t *testing.T) {
	f := newTestFixture()
	svc := newPaymentService(f, nil)
	ctx := context.Background()

	account := seedAccount(t, f)
	payment := seedPendingPayment(t, f, account, nil, 200)

	_, err := svc.CompletePayment(ctx, CompletePaymentRequest{PaymentID: payment.ID, Actor: "cashier"})
	require.NoError(t, err)

	_, err = svc.CancelPayment(ctx, payment.ID, "cashier")
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
}
