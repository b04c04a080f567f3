package service

import (
	"context"
	"fmt"

	"gembot/models"
)

// leaderboardService implements the LeaderboardService interface. It owns
// no state; everything derives from the balance store.
type leaderboardService struct {
	uowFactory UnitOfWorkFactory
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(uowFactory UnitOfWorkFactory) LeaderboardService {
	return &leaderboardService{
		uowFactory: uowFactory,
	}
}

// Top returns the limit highest accounts for a metric, ordered descending
// with ties broken by user id for determinism.
func (s *leaderboardService) Top(ctx context.Context, metric models.LeaderboardMetric, limit int) ([]*models.LeaderboardEntry, error) {
	if _, err := metric.Column(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidInput, limit)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	entries, err := uow.BalanceRepository().Top(ctx, metric, limit)
	if err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to get leaderboard: %w", err))
	}

	return entries, nil
}

// Position returns one account's rank, total account count and percentile
func (s *leaderboardService) Position(ctx context.Context, userID string, metric models.LeaderboardMetric) (*models.RankPosition, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id must not be empty", ErrInvalidInput)
	}
	if _, err := metric.Column(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	position, err := uow.BalanceRepository().Rank(ctx, userID, metric)
	if err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to get rank for user %s: %w", userID, err))
	}

	return position, nil
}
