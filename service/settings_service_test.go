package service

import (
	"context"
	"testing"
	"time"

	"gembot/events"
	"gembot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_Get_FromStorage(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSettingsRepo := new(MockSettingsRepository)
	mockUoW.SetRepositories(nil, nil, mockSettingsRepo, nil)

	svc := NewSettingsService(mockFactory, NewSettingsCache(5*time.Minute))

	stored := &models.Setting{
		Key:       models.SettingEarningDailyMax,
		Value:     "750",
		Category:  models.CategoryLimits,
		UpdatedBy: "admin-1",
		UpdatedAt: time.Now(),
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockSettingsRepo.On("Get", ctx, models.SettingEarningDailyMax).Return(stored, nil).Once()

	value, err := svc.GetInt(ctx, models.SettingEarningDailyMax)
	require.NoError(t, err)
	assert.Equal(t, int64(750), value)

	// Second read is served from cache without touching storage
	value, err = svc.GetInt(ctx, models.SettingEarningDailyMax)
	require.NoError(t, err)
	assert.Equal(t, int64(750), value)

	mockSettingsRepo.AssertNumberOfCalls(t, "Get", 1)
}

func TestSettingsService_Get_RegistryDefaultWhenAbsent(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSettingsRepo := new(MockSettingsRepository)
	mockUoW.SetRepositories(nil, nil, mockSettingsRepo, nil)

	svc := NewSettingsService(mockFactory, NewSettingsCache(5*time.Minute))

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockSettingsRepo.On("Get", ctx, models.SettingTippingEnabled).Return(nil, nil)

	enabled, err := svc.GetBool(ctx, models.SettingTippingEnabled)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestSettingsService_Get_UnknownKey(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewSettingsService(mockFactory, NewSettingsCache(5*time.Minute))

	_, err := svc.Get(ctx, "no.such.key")

	assert.ErrorIs(t, err, ErrInvalidInput)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestSettingsService_Set_WritesAndInvalidates(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSettingsRepo := new(MockSettingsRepository)
	mockEvents := new(MockEventPublisher)
	mockUoW.SetRepositories(nil, nil, mockSettingsRepo, mockEvents)

	cache := NewSettingsCache(5 * time.Minute)
	svc := NewSettingsService(mockFactory, cache)

	// Prime the cache with the old value
	cache.Put(&models.Setting{Key: models.SettingTipDailyMax, Value: "2000"})

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockSettingsRepo.On("Upsert", ctx, mock.MatchedBy(func(s *models.Setting) bool {
		return s.Key == models.SettingTipDailyMax &&
			s.Value == "3000" &&
			s.UpdatedBy == "admin-1" &&
			s.Category == models.CategoryLimits
	})).Return(nil)
	mockEvents.On("Publish", events.SettingUpdatedEvent{
		Key:       models.SettingTipDailyMax,
		Value:     "3000",
		UpdatedBy: "admin-1",
	}).Return()

	err := svc.Set(ctx, models.SettingTipDailyMax, "3000", "admin-1")

	require.NoError(t, err)
	mockSettingsRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)

	// The stale cache entry is gone
	_, ok := cache.Get(models.SettingTipDailyMax)
	assert.False(t, ok)
}

func TestSettingsService_Set_RejectsInvalidValues(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewSettingsService(mockFactory, NewSettingsCache(5*time.Minute))

	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "no.such.key", "1"},
		{"non-integer", models.SettingEarningDailyMax, "plenty"},
		{"negative integer", models.SettingEarningDailyMax, "-5"},
		{"non-boolean", models.SettingTippingEnabled, "yep"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Set(ctx, tc.key, tc.value, "admin-1")
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	mockFactory.AssertNotCalled(t, "Create")
}
