package repository

import (
	"context"
	"fmt"

	"gembot/database"
	"gembot/models"

	"github.com/jackc/pgx/v5"
)

// SettingsRepository implements the service.SettingsRepository interface
type SettingsRepository struct {
	q queryable
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{q: db.Pool}
}

// newSettingsRepositoryWithTx creates a new settings repository with a transaction
func newSettingsRepositoryWithTx(tx queryable) *SettingsRepository {
	return &SettingsRepository{q: tx}
}

// Get retrieves a setting row, or nil when the key is absent
func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	query := `
		SELECT key, value, category, updated_by, updated_at
		FROM settings
		WHERE key = $1
	`

	var setting models.Setting
	err := r.q.QueryRow(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.Category,
		&setting.UpdatedBy,
		&setting.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return &setting, nil
}

// Upsert writes a setting row, creating or replacing it. Exactly one
// active value per key.
func (r *SettingsRepository) Upsert(ctx context.Context, setting *models.Setting) error {
	query := `
		INSERT INTO settings (key, value, category, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    category = EXCLUDED.category,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = NOW()
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		setting.Key,
		setting.Value,
		setting.Category,
		setting.UpdatedBy,
	).Scan(&setting.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert setting %q: %w", setting.Key, err)
	}

	return nil
}

// GetAll returns every setting row
func (r *SettingsRepository) GetAll(ctx context.Context) ([]*models.Setting, error) {
	query := `
		SELECT key, value, category, updated_by, updated_at
		FROM settings
		ORDER BY key
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	var settings []*models.Setting
	for rows.Next() {
		var setting models.Setting
		err := rows.Scan(
			&setting.Key,
			&setting.Value,
			&setting.Category,
			&setting.UpdatedBy,
			&setting.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, &setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return settings, nil
}
