package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPayment(t *testing.T) *Payment {
	p, err := NewPayment(
		uuid.New(),
		decimal.NewFromInt(500),
		valueobject.NewDate(2026, time.March, 10),
		PaymentModeCard,
		"REF-100",
		DirectionCredit,
		"system",
		testTime,
	)
	require.NoError(t, err)
	return p
}

func TestPaymentMode_IsValid(t *testing.T) {
	tests := []struct {
		mode    PaymentMode
		isValid bool
	}{
		{PaymentModeCash, true},
		{PaymentModeCard, true},
		{PaymentModeCheque, true},
		{PaymentMode("CRYPTO"), false},
		{PaymentMode(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.mode.IsValid())
		})
	}
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.True(t, PaymentStatusCompleted.IsTerminal())
	assert.True(t, PaymentStatusCancelled.IsTerminal())
}

func TestNewPayment(t *testing.T) {
	p := createTestPayment(t)

	assert.Equal(t, PaymentStatusPending, p.Status)
	assert.Nil(t, p.InvoiceID)
	assert.Equal(t, 1, p.Version)
	assert.Len(t, p.GetDomainEvents(), 1)
}

func TestNewPayment_Validation(t *testing.T) {
	paymentDate := valueobject.NewDate(2026, time.March, 10)

	tests := []struct {
		name      string
		accountID uuid.UUID
		amount    decimal.Decimal
		date      valueobject.Date
		mode      PaymentMode
		reference string
	}{
		{"nil account", uuid.Nil, decimal.NewFromInt(100), paymentDate, PaymentModeCash, "R-1"},
		{"zero amount", uuid.New(), decimal.Zero, paymentDate, PaymentModeCash, "R-1"},
		{"negative amount", uuid.New(), decimal.NewFromInt(-100), paymentDate, PaymentModeCash, "R-1"},
		{"zero date", uuid.New(), decimal.NewFromInt(100), valueobject.Date{}, PaymentModeCash, "R-1"},
		{"bad mode", uuid.New(), decimal.NewFromInt(100), paymentDate, PaymentMode("X"), "R-1"},
		{"empty reference", uuid.New(), decimal.NewFromInt(100), paymentDate, PaymentModeCash, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPayment(tt.accountID, tt.amount, tt.date, tt.mode, tt.reference, DirectionCredit, "system", testTime)
			assert.Error(t, err)
		})
	}
}

func TestNewPayment_NonPositiveIsInvalidAmount(t *testing.T) {
	_, err := NewPayment(uuid.New(), decimal.Zero, valueobject.NewDate(2026, time.March, 10),
		PaymentModeCash, "R-1", DirectionCredit, "system", testTime)
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidAmount))
}

func TestPayment_Complete(t *testing.T) {
	p := createTestPayment(t)

	require.NoError(t, p.Complete())

	assert.Equal(t, PaymentStatusCompleted, p.Status)
	assert.True(t, p.IsCompleted())
}

func TestPayment_Complete_IsIdempotentFromCompleted(t *testing.T) {
	p := createTestPayment(t)
	require.NoError(t, p.Complete())

	assert.NoError(t, p.Complete())
	assert.Equal(t, PaymentStatusCompleted, p.Status)
}

func TestPayment_Complete_FromCancelledFails(t *testing.T) {
	p := createTestPayment(t)
	require.NoError(t, p.Cancel())

	err := p.Complete()

	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
	assert.Equal(t, PaymentStatusCancelled, p.Status)
}

func TestPayment_Cancel(t *testing.T) {
	p := createTestPayment(t)

	require.NoError(t, p.Cancel())

	assert.Equal(t, PaymentStatusCancelled, p.Status)
	assert.False(t, p.IsPending())
}

func TestPayment_CompletedIsNeverCancellable(t *testing.T) {
	// whatever sequence of legal transitions ends in Completed, Cancel fails
	sequences := []struct {
		name  string
		setup func(t *testing.T, p *Payment)
	}{
		{"complete once", func(t *testing.T, p *Payment) {
			require.NoError(t, p.Complete())
		}},
		{"complete repeatedly", func(t *testing.T, p *Payment) {
			require.NoError(t, p.Complete())
			require.NoError(t, p.Complete())
			require.NoError(t, p.Complete())
		}},
	}

	for _, tt := range sequences {
		t.Run(tt.name, func(t *testing.T) {
			p := createTestPayment(t)
			tt.setup(t, p)

			err := p.Cancel()

			assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
			assert.Equal(t, PaymentStatusCompleted, p.Status)
		})
	}
}

func TestPayment_WithInvoice(t *testing.T) {
	p := createTestPayment(t)
	invoiceID := uuid.New()

	p.WithInvoice(invoiceID)

	require.NotNil(t, p.InvoiceID)
	assert.Equal(t, invoiceID, *p.InvoiceID)
}
