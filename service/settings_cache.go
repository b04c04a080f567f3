package service

import (
	"sync"
	"time"

	"gembot/models"
)

// SettingsCache is a TTL cache for setting rows. It is an explicit object
// passed by injection so tests can construct isolated instances.
type SettingsCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]settingsCacheEntry
	now     func() time.Time
}

type settingsCacheEntry struct {
	setting *models.Setting
	expires time.Time
}

// NewSettingsCache creates a cache with the given staleness window
func NewSettingsCache(ttl time.Duration) *SettingsCache {
	return &SettingsCache{
		ttl:     ttl,
		entries: make(map[string]settingsCacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached setting if it is fresher than the TTL
func (c *SettingsCache) Get(key string) (*models.Setting, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.setting, true
}

// Put stores a setting with a fresh expiry
func (c *SettingsCache) Put(setting *models.Setting) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[setting.Key] = settingsCacheEntry{
		setting: setting,
		expires: c.now().Add(c.ttl),
	}
}

// Invalidate drops a single key
func (c *SettingsCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}
