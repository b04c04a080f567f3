package service

import (
	"context"
	"fmt"
	"time"

	"gembot/events"
	"gembot/models"
)

// settingsService implements the SettingsService interface
type settingsService struct {
	uowFactory UnitOfWorkFactory
	cache      *SettingsCache
}

// NewSettingsService creates a new settings service with the given cache
func NewSettingsService(uowFactory UnitOfWorkFactory, cache *SettingsCache) SettingsService {
	return &settingsService{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

// Get returns a setting, served from cache when fresher than the TTL.
// Keys absent from storage fall back to their registry default.
func (s *settingsService) Get(ctx context.Context, key string) (*models.Setting, error) {
	if setting, ok := s.cache.Get(key); ok {
		return setting, nil
	}

	spec, known := models.SettingRegistry[key]
	if !known {
		return nil, fmt.Errorf("%w: unknown setting key %q", ErrInvalidInput, key)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	setting, err := uow.SettingsRepository().Get(ctx, key)
	if err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to get setting %q: %w", key, err))
	}

	if setting == nil {
		// Seeded defaults can be missing after an admin reset; serve the
		// registry default without writing it back.
		setting = &models.Setting{
			Key:       key,
			Value:     spec.Default,
			Category:  spec.Category,
			UpdatedBy: "system",
			UpdatedAt: time.Now().UTC(),
		}
	}

	s.cache.Put(setting)
	return setting, nil
}

// GetInt returns an integer-typed setting value
func (s *settingsService) GetInt(ctx context.Context, key string) (int64, error) {
	setting, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	value, err := setting.IntValue()
	if err != nil {
		return 0, fmt.Errorf("setting %q holds non-integer value %q: %w", key, setting.Value, err)
	}
	return value, nil
}

// GetBool returns a boolean-typed setting value
func (s *settingsService) GetBool(ctx context.Context, key string) (bool, error) {
	setting, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	value, err := setting.BoolValue()
	if err != nil {
		return false, fmt.Errorf("setting %q holds non-boolean value %q: %w", key, setting.Value, err)
	}
	return value, nil
}

// Set validates and writes a setting, then invalidates the cached entry so
// the writer immediately observes its own update.
func (s *settingsService) Set(ctx context.Context, key, value, updatedBy string) error {
	if err := models.ValidateSettingValue(key, value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if updatedBy == "" {
		return fmt.Errorf("%w: updatedBy must not be empty", ErrInvalidInput)
	}

	spec := models.SettingRegistry[key]
	setting := &models.Setting{
		Key:       key,
		Value:     value,
		Category:  spec.Category,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now().UTC(),
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	if err := uow.SettingsRepository().Upsert(ctx, setting); err != nil {
		return classifyStorageErr(fmt.Errorf("failed to update setting %q: %w", key, err))
	}

	uow.EventBus().Publish(events.SettingUpdatedEvent{
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
	})

	if err := uow.Commit(); err != nil {
		return classifyStorageErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	// Drop after commit so concurrent readers never re-cache the old row
	s.cache.Invalidate(key)

	return nil
}
