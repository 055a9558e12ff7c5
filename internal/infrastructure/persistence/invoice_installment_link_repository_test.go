package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormInvoiceInstallmentLinkRepository_Save(t *testing.T) {
	newLink := func(t *testing.T) *billing.InvoiceInstallmentLink {
		link, err := billing.NewInvoiceInstallmentLink(
			uuid.New(),
			uuid.New(),
			"biller",
			time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		return link
	}

	t.Run("inserts link row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceInstallmentLinkRepository(gormDB)

		mock.ExpectExec(`INSERT INTO "invoice_installment_links"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), newLink(t))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate installment surfaces as constraint violation", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceInstallmentLinkRepository(gormDB)

		mock.ExpectExec(`INSERT INTO "invoice_installment_links"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err := repo.Save(context.Background(), newLink(t))

		assert.True(t, shared.IsDomainError(err, shared.CodeConstraintViolation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceInstallmentLinkRepository_FindByInstallment(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceInstallmentLinkRepository(gormDB)

	installmentID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "invoice_installment_links" WHERE installment_id = \$1`).
		WithArgs(installmentID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	link, err := repo.FindByInstallment(context.Background(), installmentID)

	assert.NoError(t, err)
	assert.Nil(t, link)
	assert.NoError(t, mock.ExpectationsWereMet())
}
