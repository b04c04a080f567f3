package models

import (
	"fmt"
	"strconv"
	"time"
)

// SettingCategory groups related configuration keys
type SettingCategory string

const (
	CategoryEarning  SettingCategory = "earning"
	CategorySpending SettingCategory = "spending"
	CategoryLimits   SettingCategory = "limits"
	CategoryFeatures SettingCategory = "features"
)

// SettingKind is the expected value type for a setting key
type SettingKind int

const (
	SettingKindInt SettingKind = iota
	SettingKindBool
)

// Setting is a single named configuration value
type Setting struct {
	Key       string          `db:"key"`
	Value     string          `db:"value"`
	Category  SettingCategory `db:"category"`
	UpdatedBy string          `db:"updated_by"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Known setting keys
const (
	SettingEarningDailyMax      = "limits.earning.daily_max"
	SettingTipMinAmount         = "limits.tip.min_amount"
	SettingTipMaxAmount         = "limits.tip.max_amount"
	SettingTipDailyMax          = "limits.tip.daily_max"
	SettingMessageReward        = "earning.message_reward"
	SettingDailyBonus           = "earning.daily_bonus"
	SettingTippingEnabled       = "features.tipping_enabled"
)

// SettingSpec describes a key's category, value kind, and seed default
type SettingSpec struct {
	Category SettingCategory
	Kind     SettingKind
	Default  string
}

// SettingRegistry maps every known key to its spec. Writes are validated
// against this registry; unknown keys are rejected.
var SettingRegistry = map[string]SettingSpec{
	SettingEarningDailyMax: {Category: CategoryLimits, Kind: SettingKindInt, Default: "500"},
	SettingTipMinAmount:    {Category: CategoryLimits, Kind: SettingKindInt, Default: "1"},
	SettingTipMaxAmount:    {Category: CategoryLimits, Kind: SettingKindInt, Default: "1000"},
	SettingTipDailyMax:     {Category: CategoryLimits, Kind: SettingKindInt, Default: "2000"},
	SettingMessageReward:   {Category: CategoryEarning, Kind: SettingKindInt, Default: "5"},
	SettingDailyBonus:      {Category: CategoryEarning, Kind: SettingKindInt, Default: "50"},
	SettingTippingEnabled:  {Category: CategoryFeatures, Kind: SettingKindBool, Default: "true"},
}

// ValidateSettingValue checks a raw value against the registry entry for key
func ValidateSettingValue(key, value string) error {
	spec, ok := SettingRegistry[key]
	if !ok {
		return fmt.Errorf("unknown setting key %q", key)
	}
	switch spec.Kind {
	case SettingKindInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("setting %q expects an integer value, got %q", key, value)
		}
		if n < 0 {
			return fmt.Errorf("setting %q must not be negative", key)
		}
	case SettingKindBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("setting %q expects a boolean value, got %q", key, value)
		}
	}
	return nil
}

// IntValue parses the setting as an integer
func (s *Setting) IntValue() (int64, error) {
	return strconv.ParseInt(s.Value, 10, 64)
}

// BoolValue parses the setting as a boolean
func (s *Setting) BoolValue() (bool, error) {
	return strconv.ParseBool(s.Value)
}
