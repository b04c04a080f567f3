package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gembot/database"
	"gembot/models"
)

// TransactionRepository implements the service.TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Append performs a pure insert and fills ID and CreatedAt. Entries are
// never updated or deleted except by DeleteBefore retention cleanup.
func (r *TransactionRepository) Append(ctx context.Context, tx *models.Transaction) error {
	metadataJSON, err := json.Marshal(tx.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO transactions
		(user_id, type, amount, reason, source, related_user_id, transfer_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		tx.UserID,
		tx.Type,
		tx.Amount,
		tx.Reason,
		tx.Source,
		tx.RelatedUserID,
		tx.TransferID,
		metadataJSON,
	).Scan(&tx.ID, &tx.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append transaction for user %s: %w", tx.UserID, err)
	}

	return nil
}

// GetByUser returns transactions ordered by timestamp descending. The id
// tie-break keeps pagination stable for entries sharing a timestamp.
func (r *TransactionRepository) GetByUser(ctx context.Context, userID string, filter models.HistoryFilter) ([]*models.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, user_id, type, amount, reason, source, related_user_id, transfer_id, metadata, created_at
		FROM transactions
		WHERE user_id = $1`)

	args := []any{userID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		fmt.Fprintf(&sb, " AND type = $%d", len(args))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		fmt.Fprintf(&sb, " AND source = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		fmt.Fprintf(&sb, " AND created_at < $%d", len(args))
	}

	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var metadataJSON []byte

		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Type,
			&tx.Amount,
			&tx.Reason,
			&tx.Source,
			&tx.RelatedUserID,
			&tx.TransferID,
			&metadataJSON,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if len(metadataJSON) > 0 && string(metadataJSON) != "null" {
			if err := json.Unmarshal(metadataJSON, &tx.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}

		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// SumAmountSince computes the windowed sum powering the limit policy.
// An empty source matches any source.
func (r *TransactionRepository) SumAmountSince(ctx context.Context, userID string, txType models.TransactionType, source models.TransactionSource, since time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND created_at >= $3
	`
	args := []any{userID, txType, since}

	if source != "" {
		query += " AND source = $4"
		args = append(args, source)
	}

	var sum int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions for user %s: %w", userID, err)
	}

	return sum, nil
}

// DeleteBefore bulk-removes transactions older than cutoff
func (r *TransactionRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions before %s: %w", cutoff, err)
	}

	return result.RowsAffected(), nil
}
