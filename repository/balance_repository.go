package repository

import (
	"context"
	"fmt"
	"math"

	"gembot/database"
	"gembot/models"
	"gembot/service"

	"github.com/jackc/pgx/v5"
)

// BalanceRepository implements the service.BalanceRepository interface
type BalanceRepository struct {
	q queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{q: db.Pool}
}

// newBalanceRepositoryWithTx creates a new balance repository with a transaction
func newBalanceRepositoryWithTx(tx queryable) *BalanceRepository {
	return &BalanceRepository{q: tx}
}

const balanceColumns = `user_id, balance, lifetime_earned, lifetime_spent, last_activity, created_at, updated_at`

func scanBalance(row pgx.Row) (*models.Balance, error) {
	var b models.Balance
	err := row.Scan(
		&b.UserID,
		&b.Balance,
		&b.LifetimeEarned,
		&b.LifetimeSpent,
		&b.LastActivity,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByUserID retrieves a balance row, or nil if the account does not exist
func (r *BalanceRepository) GetByUserID(ctx context.Context, userID string) (*models.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE user_id = $1`

	balance, err := scanBalance(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for user %s: %w", userID, err)
	}

	return balance, nil
}

// Create inserts a zero-balance row. ON CONFLICT DO NOTHING makes the lazy
// creation race-safe; the loser of the race reads the winner's row.
func (r *BalanceRepository) Create(ctx context.Context, userID string) (*models.Balance, bool, error) {
	query := `
		INSERT INTO balances (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + balanceColumns

	balance, err := scanBalance(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		// Concurrent caller won the insert
		existing, getErr := r.GetByUserID(ctx, userID)
		if getErr != nil {
			return nil, false, getErr
		}
		if existing == nil {
			return nil, false, fmt.Errorf("account %s vanished during creation", userID)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account for user %s: %w", userID, err)
	}

	return balance, true, nil
}

// Credit atomically adds amount to balance and lifetime_earned
func (r *BalanceRepository) Credit(ctx context.Context, userID string, amount int64) (*models.Balance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE balances
		SET balance = balance + $2,
		    lifetime_earned = lifetime_earned + $2,
		    last_activity = NOW(),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + balanceColumns

	balance, err := scanBalance(r.q.QueryRow(ctx, query, userID, amount))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("account %s not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to credit user %s: %w", userID, err)
	}

	return balance, nil
}

// Debit atomically subtracts amount, conditioned on balance >= amount.
// The condition lives in the UPDATE itself so concurrent debits cannot
// race the balance below zero.
func (r *BalanceRepository) Debit(ctx context.Context, userID string, amount int64) (*models.Balance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE balances
		SET balance = balance - $2,
		    lifetime_spent = lifetime_spent + $2,
		    last_activity = NOW(),
		    updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
		RETURNING ` + balanceColumns

	balance, err := scanBalance(r.q.QueryRow(ctx, query, userID, amount))
	if err == pgx.ErrNoRows {
		// Either the account is missing or the balance cannot cover the
		// amount; distinguish for the error message.
		existing, getErr := r.GetByUserID(ctx, userID)
		if getErr != nil {
			return nil, getErr
		}
		var available int64
		if existing != nil {
			available = existing.Balance
		}
		return nil, &service.InsufficientFundsError{
			UserID:    userID,
			Requested: amount,
			Available: available,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to debit user %s: %w", userID, err)
	}

	return balance, nil
}

// Top returns the highest-ranked accounts for a metric. RANK() gives tied
// accounts the same rank with the following account offset past the tie.
func (r *BalanceRepository) Top(ctx context.Context, metric models.LeaderboardMetric, limit int) ([]*models.LeaderboardEntry, error) {
	column, err := metric.Column()
	if err != nil {
		return nil, err
	}

	// column comes from the metric whitelist, never from user input
	query := fmt.Sprintf(`
		SELECT RANK() OVER (ORDER BY %s DESC) AS rank, user_id, %s AS value
		FROM balances
		ORDER BY %s DESC, user_id ASC
		LIMIT $1
	`, column, column, column)

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.Rank, &entry.UserID, &entry.Value); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}

	return entries, nil
}

// Rank returns one account's rank, total account count and percentile.
// Rank is 1 + the number of accounts with a strictly greater metric.
func (r *BalanceRepository) Rank(ctx context.Context, userID string, metric models.LeaderboardMetric) (*models.RankPosition, error) {
	column, err := metric.Column()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			1 + (SELECT COUNT(*) FROM balances o WHERE o.%s > b.%s) AS rank,
			(SELECT COUNT(*) FROM balances) AS total
		FROM balances b
		WHERE b.user_id = $1
	`, column, column)

	var rank, total int
	err = r.q.QueryRow(ctx, query, userID).Scan(&rank, &total)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("account %s not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rank for user %s: %w", userID, err)
	}

	percentile := int(math.Round(float64(total-rank+1) / float64(total) * 100))

	return &models.RankPosition{
		Rank:       rank,
		Total:      total,
		Percentile: percentile,
	}, nil
}

// Delete removes an account row (admin reset)
func (r *BalanceRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.q.Exec(ctx, `DELETE FROM balances WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", userID)
	}

	return nil
}
