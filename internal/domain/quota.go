package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_quota_repository.go -package mocks github.com/mailfleet/mailfleet/internal/domain QuotaRepository

// Quota ledger reasons
const (
	QuotaReasonGeneration = "task_generation"
	QuotaReasonRefund     = "generation_refund"
	QuotaReasonGrant      = "admin_grant"
)

// QuotaLedgerEntry is an immutable audit record written on every change
// to a user's send allowance.
type QuotaLedgerEntry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TaskID        *string   `json:"task_id,omitempty"`
	Delta         int       `json:"delta"`
	BalanceBefore int       `json:"balance_before"`
	BalanceAfter  int       `json:"balance_after"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuotaRepository defines methods for the audited send-allowance balance.
// The generation-time deduction itself happens inside
// TaskRepository.CommitGeneration so that quota, subtasks and task status
// commit or roll back together.
type QuotaRepository interface {
	// GetBalance retrieves a user's remaining send allowance
	GetBalance(ctx context.Context, userID string) (int, error)

	// Credit adds allowance and writes the ledger entry atomically
	Credit(ctx context.Context, userID string, amount int, reason string) error

	// ListLedger retrieves a user's ledger entries, newest first
	ListLedger(ctx context.Context, userID string, limit, offset int) ([]*QuotaLedgerEntry, error)
}
