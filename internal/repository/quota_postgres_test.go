package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailfleet/mailfleet/internal/domain"
)

func TestQuotaRepository_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored balance", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewQuotaRepository(db)

		mock.ExpectQuery(`SELECT balance FROM user_quotas WHERE user_id = \$1`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(42))

		balance, err := repo.GetBalance(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 42, balance)
	})

	t.Run("unknown user has zero balance", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewQuotaRepository(db)

		mock.ExpectQuery(`SELECT balance FROM user_quotas WHERE user_id = \$1`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"balance"}))

		balance, err := repo.GetBalance(ctx, "ghost")
		require.NoError(t, err)
		assert.Equal(t, 0, balance)
	})
}

func TestQuotaRepository_Credit(t *testing.T) {
	ctx := context.Background()

	t.Run("adds allowance and writes the ledger entry", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewQuotaRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT balance FROM user_quotas WHERE user_id = \$1 FOR UPDATE`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(50))
		mock.ExpectExec(`UPDATE user_quotas SET balance = balance \+ \$2`).
			WithArgs("user-1", 10).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO quota_ledger`).
			WithArgs(sqlmock.AnyArg(), "user-1", 10, 50, 60, domain.QuotaReasonGrant, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Credit(ctx, "user-1", 10, domain.QuotaReasonGrant)
		require.NoError(t, err)
	})

	t.Run("creates the quota row for a first-time user", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewQuotaRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT balance FROM user_quotas WHERE user_id = \$1 FOR UPDATE`).
			WithArgs("user-new").
			WillReturnRows(sqlmock.NewRows([]string{"balance"}))
		mock.ExpectExec(`INSERT INTO user_quotas`).
			WithArgs("user-new").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE user_quotas SET balance = balance \+ \$2`).
			WithArgs("user-new", 5).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO quota_ledger`).
			WithArgs(sqlmock.AnyArg(), "user-new", 5, 0, 5, domain.QuotaReasonGrant, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Credit(ctx, "user-new", 5, domain.QuotaReasonGrant)
		require.NoError(t, err)
	})

	t.Run("rejects a non-positive amount without touching the database", func(t *testing.T) {
		db, _, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewQuotaRepository(db)

		err := repo.Credit(ctx, "user-1", 0, domain.QuotaReasonGrant)
		assert.ErrorContains(t, err, "must be positive")
	})
}

func TestQuotaRepository_ListLedger(t *testing.T) {
	ctx := context.Background()
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewQuotaRepository(db)

	now := time.Now().UTC()
	taskID := "task-1"
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "task_id", "delta", "balance_before", "balance_after", "reason", "created_at",
	}).
		AddRow("l2", "user-1", nil, 100, 98, 198, domain.QuotaReasonGrant, now).
		AddRow("l1", "user-1", taskID, -2, 100, 98, domain.QuotaReasonGeneration, now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT (.+) FROM quota_ledger WHERE user_id = \$1`).
		WithArgs("user-1", 20, 0).
		WillReturnRows(rows)

	entries, err := repo.ListLedger(ctx, "user-1", 20, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Nil(t, entries[0].TaskID)
	assert.Equal(t, 100, entries[0].Delta)
	require.NotNil(t, entries[1].TaskID)
	assert.Equal(t, taskID, *entries[1].TaskID)
	assert.Equal(t, domain.QuotaReasonGeneration, entries[1].Reason)
}
