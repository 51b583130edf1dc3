package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mailfleet/mailfleet/internal/domain"
)

type quotaRepository struct {
	db *sql.DB
}

// NewQuotaRepository creates a new PostgreSQL repository for the quota ledger
func NewQuotaRepository(db *sql.DB) domain.QuotaRepository {
	return &quotaRepository{db: db}
}

// GetBalance retrieves a user's remaining send allowance
func (r *quotaRepository) GetBalance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := r.db.QueryRowContext(ctx,
		`SELECT balance FROM user_quotas WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get quota balance: %w", err)
	}
	return balance, nil
}

// Credit adds allowance and writes the ledger entry atomically
func (r *quotaRepository) Credit(ctx context.Context, userID string, amount int, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin credit transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var balance int
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM user_quotas WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		balance = 0
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_quotas (user_id, balance, updated_at) VALUES ($1, 0, NOW())`, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock quota balance: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE user_quotas SET balance = balance + $2, updated_at = NOW() WHERE user_id = $1`,
		userID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit quota: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO quota_ledger (id, user_id, task_id, delta, balance_before, balance_after, reason, created_at)
		VALUES ($1, $2, NULL, $3, $4, $5, $6, $7)`,
		uuid.New().String(), userID, amount, balance, balance+amount, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write quota ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit credit: %w", err)
	}
	return nil
}

// ListLedger retrieves a user's ledger entries, newest first
func (r *quotaRepository) ListLedger(ctx context.Context, userID string, limit, offset int) ([]*domain.QuotaLedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, task_id, delta, balance_before, balance_after, reason, created_at
		FROM quota_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list quota ledger: %w", err)
	}
	defer rows.Close()

	var entries []*domain.QuotaLedgerEntry
	for rows.Next() {
		var entry domain.QuotaLedgerEntry
		var taskID sql.NullString
		err := rows.Scan(&entry.ID, &entry.UserID, &taskID, &entry.Delta,
			&entry.BalanceBefore, &entry.BalanceAfter, &entry.Reason, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entry.TaskID = nullStringPtr(taskID)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
