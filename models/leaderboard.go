package models

import "fmt"

// LeaderboardMetric selects which balance column a ranking is computed over
type LeaderboardMetric string

const (
	MetricBalance        LeaderboardMetric = "balance"
	MetricLifetimeEarned LeaderboardMetric = "lifetime_earned"
	MetricLifetimeSpent  LeaderboardMetric = "lifetime_spent"
)

// Column returns the balances column backing the metric
func (m LeaderboardMetric) Column() (string, error) {
	switch m {
	case MetricBalance:
		return "balance", nil
	case MetricLifetimeEarned:
		return "lifetime_earned", nil
	case MetricLifetimeSpent:
		return "lifetime_spent", nil
	}
	return "", fmt.Errorf("unknown leaderboard metric %q", m)
}

// LeaderboardEntry is one row of a top-N ranking
type LeaderboardEntry struct {
	Rank   int    `db:"rank"`
	UserID string `db:"user_id"`
	Value  int64  `db:"value"`
}

// RankPosition is a single account's standing for a metric
type RankPosition struct {
	Rank       int
	Total      int
	Percentile int
}
