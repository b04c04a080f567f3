package service

import (
	"context"
	"time"

	"gembot/events"
	"gembot/models"
)

// BalanceRepository defines the interface for balance data access
type BalanceRepository interface {
	// GetByUserID retrieves a balance row, or nil if the account does not exist
	GetByUserID(ctx context.Context, userID string) (*models.Balance, error)

	// Create inserts a zero-balance row. The created flag is false when a
	// concurrent caller won the insert race and the existing row is returned.
	Create(ctx context.Context, userID string) (balance *models.Balance, created bool, err error)

	// Credit atomically adds amount to balance and lifetime_earned
	Credit(ctx context.Context, userID string, amount int64) (*models.Balance, error)

	// Debit atomically subtracts amount, conditioned on balance >= amount.
	// Returns an InsufficientFundsError when the condition fails.
	Debit(ctx context.Context, userID string, amount int64) (*models.Balance, error)

	// Top returns the highest-ranked accounts for a metric, ties broken by user id
	Top(ctx context.Context, metric models.LeaderboardMetric, limit int) ([]*models.LeaderboardEntry, error)

	// Rank returns one account's rank, total account count and percentile
	Rank(ctx context.Context, userID string, metric models.LeaderboardMetric) (*models.RankPosition, error)

	// Delete removes an account row (admin reset)
	Delete(ctx context.Context, userID string) error
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Append performs a pure insert and fills ID and CreatedAt
	Append(ctx context.Context, tx *models.Transaction) error

	// GetByUser returns transactions ordered by timestamp descending
	GetByUser(ctx context.Context, userID string, filter models.HistoryFilter) ([]*models.Transaction, error)

	// SumAmountSince computes the windowed sum powering the limit policy.
	// An empty source matches any source.
	SumAmountSince(ctx context.Context, userID string, txType models.TransactionType, source models.TransactionSource, since time.Time) (int64, error)

	// DeleteBefore bulk-removes transactions older than cutoff (retention)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SettingsRepository defines the interface for settings data access
type SettingsRepository interface {
	// Get retrieves a setting row, or nil when the key is absent
	Get(ctx context.Context, key string) (*models.Setting, error)

	// Upsert writes a setting row, creating or replacing it
	Upsert(ctx context.Context, setting *models.Setting) error

	// GetAll returns every setting row
	GetAll(ctx context.Context) ([]*models.Setting, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	BalanceRepository() BalanceRepository
	TransactionRepository() TransactionRepository
	SettingsRepository() SettingsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// CreditRequest describes a balance increase
type CreditRequest struct {
	UserID   string
	Amount   int64
	Reason   string
	Source   models.TransactionSource
	Metadata map[string]any

	// Type defaults to earned; bonus/admin_add are accepted
	Type models.TransactionType

	// BypassDailyLimit skips the daily earn cap. Must be set explicitly by
	// system-granted bonuses; the bypass is recorded in the transaction
	// metadata for auditing.
	BypassDailyLimit bool
}

// DebitRequest describes a balance decrease
type DebitRequest struct {
	UserID   string
	Amount   int64
	Reason   string
	Source   models.TransactionSource
	Metadata map[string]any

	// Type defaults to spent; admin_remove is accepted
	Type models.TransactionType
}

// LedgerService orchestrates all balance mutations
type LedgerService interface {
	// GetBalance returns the account, creating a zero-balance record if absent
	GetBalance(ctx context.Context, userID string) (*models.Balance, error)

	// Credit increases a balance, appending an earned/bonus/admin_add transaction
	Credit(ctx context.Context, req CreditRequest) (*models.Balance, error)

	// Debit decreases a balance, appending a spent/admin_remove transaction.
	// Fails with InsufficientFunds when the balance cannot cover the amount.
	Debit(ctx context.Context, req DebitRequest) (*models.Balance, error)

	// Transfer moves amount between two accounts as one atomic operation
	Transfer(ctx context.Context, fromUserID, toUserID string, amount int64, reason string) (*models.TransferResult, error)

	// History returns an account's transactions, newest first
	History(ctx context.Context, userID string, filter models.HistoryFilter) ([]*models.Transaction, error)

	// ResetAccount removes an account and its standing (admin only)
	ResetAccount(ctx context.Context, userID string) error

	// PruneTransactionsBefore deletes ledger entries older than cutoff
	PruneTransactionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EarnLimit is a snapshot of the daily earn cap settings
type EarnLimit struct {
	DailyMax int64
}

// TransferLimit is a snapshot of the tip limit settings
type TransferLimit struct {
	MinAmount int64
	MaxAmount int64
	DailyMax  int64
}

// LimitPolicy evaluates earning and transfer caps before a mutation.
// Limits are loaded into a snapshot BEFORE the caller opens its unit of
// work: the settings service acquires its own pooled connection, and
// nesting that acquisition under an already-held connection can exhaust
// the pool and deadlock. The checks then run against the transaction
// repository of the caller's unit of work so the daily sum and the
// guarded mutation share one transaction.
type LimitPolicy interface {
	// LoadEarnLimit reads the daily earn cap settings
	LoadEarnLimit(ctx context.Context) (EarnLimit, error)

	// CheckEarn verifies the daily earn cap for a proposed credit
	CheckEarn(ctx context.Context, txRepo TransactionRepository, userID string, amount int64, limit EarnLimit) error

	// LoadTransferLimit reads the tip limit settings
	LoadTransferLimit(ctx context.Context) (TransferLimit, error)

	// CheckTransfer verifies per-transfer bounds and the sender's daily tip cap
	CheckTransfer(ctx context.Context, txRepo TransactionRepository, fromUserID string, amount int64, limit TransferLimit) error
}

// SettingsService provides TTL-cached typed access to configuration
type SettingsService interface {
	// Get returns a setting, served from cache within the staleness window
	Get(ctx context.Context, key string) (*models.Setting, error)

	// GetInt returns an integer-typed setting value
	GetInt(ctx context.Context, key string) (int64, error)

	// GetBool returns a boolean-typed setting value
	GetBool(ctx context.Context, key string) (bool, error)

	// Set validates and writes a setting, invalidating the cache entry
	Set(ctx context.Context, key, value, updatedBy string) error
}

// LeaderboardService provides read-side ranking queries
type LeaderboardService interface {
	// Top returns the limit highest accounts for a metric
	Top(ctx context.Context, metric models.LeaderboardMetric, limit int) ([]*models.LeaderboardEntry, error)

	// Position returns one account's rank, total and percentile
	Position(ctx context.Context, userID string, metric models.LeaderboardMetric) (*models.RankPosition, error)
}
