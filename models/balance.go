package models

import (
	"time"
)

// Balance represents a member's GEMS account
type Balance struct {
	UserID         string    `db:"user_id"`
	Balance        int64     `db:"balance"`
	LifetimeEarned int64     `db:"lifetime_earned"`
	LifetimeSpent  int64     `db:"lifetime_spent"`
	LastActivity   time.Time `db:"last_activity"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
