package product

import (
	"testing"
	"time"

	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

func createTestProduct(t *testing.T) *Product {
	p, err := NewProduct(
		"HLTH-GOLD",
		"Gold Health Plan",
		ProductTypeHealth,
		valueobject.USD,
		decimal.NewFromInt(450),
		valueobject.NewDate(2026, time.January, 1),
		"system",
		testTime,
	)
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	p := createTestProduct(t)

	assert.Equal(t, ProductStatusDraft, p.Status)
	assert.Nil(t, p.ExpirationDate)
	assert.Equal(t, 1, p.Version)
}

func TestNewProduct_Validation(t *testing.T) {
	effective := valueobject.NewDate(2026, time.January, 1)

	tests := []struct {
		name        string
		code        string
		productName string
		productType ProductType
		currency    valueobject.Currency
		premium     decimal.Decimal
		effective   valueobject.Date
	}{
		{"empty code", "", "Plan", ProductTypeHealth, valueobject.USD, decimal.NewFromInt(100), effective},
		{"empty name", "P-1", "", ProductTypeHealth, valueobject.USD, decimal.NewFromInt(100), effective},
		{"bad type", "P-1", "Plan", ProductType("PET"), valueobject.USD, decimal.NewFromInt(100), effective},
		{"empty currency", "P-1", "Plan", ProductTypeHealth, "", decimal.NewFromInt(100), effective},
		{"negative premium", "P-1", "Plan", ProductTypeHealth, valueobject.USD, decimal.NewFromInt(-1), effective},
		{"zero effective", "P-1", "Plan", ProductTypeHealth, valueobject.USD, decimal.NewFromInt(100), valueobject.Date{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.code, tt.productName, tt.productType, tt.currency, tt.premium, tt.effective, "system", testTime)
			assert.Error(t, err)
		})
	}
}

func TestProduct_ActivateDeactivate(t *testing.T) {
	p := createTestProduct(t)

	require.NoError(t, p.Activate())
	assert.Equal(t, ProductStatusActive, p.Status)

	p.Deactivate()
	assert.Equal(t, ProductStatusInactive, p.Status)

	// inactive products can be reactivated
	require.NoError(t, p.Activate())
	assert.Equal(t, ProductStatusActive, p.Status)
}

func TestProduct_DiscontinuedIsTerminal(t *testing.T) {
	p := createTestProduct(t)
	require.NoError(t, p.Activate())

	p.Discontinue()
	assert.Equal(t, ProductStatusDiscontinued, p.Status)

	err := p.Activate()
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
	assert.Equal(t, ProductStatusDiscontinued, p.Status)
}

func TestProduct_IsAvailableForSale(t *testing.T) {
	p := createTestProduct(t) // effective 2026-01-01, open-ended
	midTerm := valueobject.NewDate(2026, time.July, 15)

	assert.False(t, p.IsAvailableForSale(midTerm)) // draft

	require.NoError(t, p.Activate())
	assert.True(t, p.IsAvailableForSale(midTerm))
	assert.False(t, p.IsAvailableForSale(valueobject.NewDate(2025, time.December, 31)))

	expiration := valueobject.NewDate(2026, time.October, 1)
	p.ExpirationDate = &expiration
	assert.True(t, p.IsAvailableForSale(valueobject.NewDate(2026, time.September, 30)))
	assert.False(t, p.IsAvailableForSale(expiration))
}

func TestProduct_CalculatePremium(t *testing.T) {
	p := createTestProduct(t) // base 450

	premium, err := p.CalculatePremium(decimal.NewFromFloat(1.2))
	require.NoError(t, err)
	assert.True(t, premium.Equal(decimal.NewFromInt(540)))

	_, err = p.CalculatePremium(decimal.Zero)
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidAmount))

	_, err = p.CalculatePremium(decimal.NewFromInt(-1))
	assert.Error(t, err)
}
