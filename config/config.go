package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Metrics endpoint, e.g. ":9100". Empty disables the listener.
	MetricsAddr string

	// Settings cache staleness window in seconds (bounded at 5 minutes)
	SettingsCacheTTLSeconds int

	// Hour in UTC when daily limits reset (0-23)
	DailyLimitResetHour int

	// Discord IDs allowed to run admin commands
	AdminUserIDs []string

	// Environment
	Environment string // "development", "production" or "test"
}

// Load reads configuration from environment variables. The result is
// passed by injection; there is no package-level instance.
func Load() (*Config, error) {
	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),

		SettingsCacheTTLSeconds: 300,
		DailyLimitResetHour:     0,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if ttl := os.Getenv("SETTINGS_CACHE_TTL_SECONDS"); ttl != "" {
		parsed, err := strconv.Atoi(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid SETTINGS_CACHE_TTL_SECONDS: %w", err)
		}
		config.SettingsCacheTTLSeconds = parsed
	}
	// Staleness window must never exceed 5 minutes
	if config.SettingsCacheTTLSeconds > 300 {
		config.SettingsCacheTTLSeconds = 300
	}

	if hour := os.Getenv("DAILY_LIMIT_RESET_HOUR"); hour != "" {
		parsed, err := strconv.Atoi(hour)
		if err != nil || parsed < 0 || parsed > 23 {
			return nil, fmt.Errorf("DAILY_LIMIT_RESET_HOUR must be 0-23, got %q", hour)
		}
		config.DailyLimitResetHour = parsed
	}

	if admins := os.Getenv("ADMIN_USER_IDS"); admins != "" {
		for _, id := range strings.Split(admins, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				config.AdminUserIDs = append(config.AdminUserIDs, id)
			}
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

// IsAdmin reports whether the given Discord user may run admin commands
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
