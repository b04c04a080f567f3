package service

import (
	"context"
	"testing"

	"gembot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_Top(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockUoW.SetRepositories(mockBalanceRepo, nil, nil, nil)

	svc := NewLeaderboardService(mockFactory)

	entries := []*models.LeaderboardEntry{
		{Rank: 1, UserID: "alice", Value: 900},
		{Rank: 2, UserID: "bob", Value: 400},
		{Rank: 2, UserID: "carol", Value: 400},
		{Rank: 4, UserID: "dave", Value: 100},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("Top", ctx, models.MetricBalance, 10).Return(entries, nil)

	got, err := svc.Top(ctx, models.MetricBalance, 10)

	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestLeaderboardService_Top_Validation(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewLeaderboardService(mockFactory)

	_, err := svc.Top(ctx, "bogus", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Top(ctx, models.MetricBalance, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestLeaderboardService_Position(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockUoW.SetRepositories(mockBalanceRepo, nil, nil, nil)

	svc := NewLeaderboardService(mockFactory)

	position := &models.RankPosition{Rank: 3, Total: 40, Percentile: 95}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("Rank", ctx, "alice", models.MetricLifetimeEarned).Return(position, nil)

	got, err := svc.Position(ctx, "alice", models.MetricLifetimeEarned)

	require.NoError(t, err)
	assert.Equal(t, position, got)
}

func TestLeaderboardService_Position_Validation(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewLeaderboardService(mockFactory)

	_, err := svc.Position(ctx, "", models.MetricBalance)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Position(ctx, "alice", "bogus")
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockFactory.AssertNotCalled(t, "Create")
}
