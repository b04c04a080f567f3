package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeEarned         TransactionType = "earned"
	TransactionTypeSpent          TransactionType = "spent"
	TransactionTypeTransferred    TransactionType = "transferred"
	TransactionTypeBonus          TransactionType = "bonus"
	TransactionTypeAdminAdd       TransactionType = "admin_add"
	TransactionTypeAdminRemove    TransactionType = "admin_remove"
	TransactionTypeAccountCreated TransactionType = "account_created"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeEarned, TransactionTypeSpent, TransactionTypeTransferred,
		TransactionTypeBonus, TransactionTypeAdminAdd, TransactionTypeAdminRemove,
		TransactionTypeAccountCreated:
		return true
	}
	return false
}

// IsCredit reports whether the type increases the balance
func (t TransactionType) IsCredit() bool {
	switch t {
	case TransactionTypeEarned, TransactionTypeBonus, TransactionTypeAdminAdd:
		return true
	}
	return false
}

// TransactionSource represents the origin of a balance change
type TransactionSource string

const (
	SourceChatActivity TransactionSource = "chat_activity"
	SourceDailyBonus   TransactionSource = "daily_bonus"
	SourceVerification TransactionSource = "verification"
	SourceTip          TransactionSource = "tip"
	SourcePurchase     TransactionSource = "purchase"
	SourceAdmin        TransactionSource = "admin"
	SourceSystem       TransactionSource = "system"
)

// Valid reports whether s is a known transaction source
func (s TransactionSource) Valid() bool {
	switch s {
	case SourceChatActivity, SourceDailyBonus, SourceVerification,
		SourceTip, SourcePurchase, SourceAdmin, SourceSystem:
		return true
	}
	return false
}

// MaxReasonLength bounds the free-text reason on a transaction
const MaxReasonLength = 200

// Transaction represents a single immutable ledger entry
type Transaction struct {
	ID            int64             `db:"id"`
	UserID        string            `db:"user_id"`
	Type          TransactionType   `db:"type"`
	Amount        int64             `db:"amount"`
	Reason        string            `db:"reason"`
	Source        TransactionSource `db:"source"`
	RelatedUserID *string           `db:"related_user_id"`
	TransferID    *string           `db:"transfer_id"`
	Metadata      map[string]any    `db:"metadata"`
	CreatedAt     time.Time         `db:"created_at"`
}

// HistoryFilter narrows a history query. Zero values mean "no filter".
type HistoryFilter struct {
	Type   TransactionType
	Source TransactionSource
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}
