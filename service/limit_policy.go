package service

import (
	"context"
	"fmt"

	"gembot/models"
)

// limitPolicy implements the LimitPolicy interface. Limit settings are
// loaded into snapshots before the caller's unit of work starts; daily
// totals come from the caller's transaction repository so the check and
// the guarded mutation share one transaction.
type limitPolicy struct {
	settings  SettingsService
	resetHour int
}

// NewLimitPolicy creates a new limit policy
func NewLimitPolicy(settings SettingsService, resetHour int) LimitPolicy {
	return &limitPolicy{
		settings:  settings,
		resetHour: resetHour,
	}
}

// LoadEarnLimit reads the daily earn cap settings. Must be called before
// the caller's unit of work begins; the settings read takes its own
// pooled connection.
func (p *limitPolicy) LoadEarnLimit(ctx context.Context) (EarnLimit, error) {
	dailyMax, err := p.settings.GetInt(ctx, models.SettingEarningDailyMax)
	if err != nil {
		return EarnLimit{}, fmt.Errorf("failed to load daily earning limit: %w", err)
	}
	return EarnLimit{DailyMax: dailyMax}, nil
}

// CheckEarn verifies that crediting amount would not push the account's
// earned total for the current day over limits.earning.daily_max.
func (p *limitPolicy) CheckEarn(ctx context.Context, txRepo TransactionRepository, userID string, amount int64, limit EarnLimit) error {
	if limit.DailyMax <= 0 {
		// Zero disables earning through capped paths entirely
		return &DailyLimitError{UserID: userID, Requested: amount, Remaining: 0, Limit: limit.DailyMax}
	}

	periodStart := GetCurrentPeriodStart(p.resetHour)
	earnedToday, err := txRepo.SumAmountSince(ctx, userID, models.TransactionTypeEarned, "", periodStart)
	if err != nil {
		return classifyStorageErr(fmt.Errorf("failed to sum earnings for user %s: %w", userID, err))
	}

	if earnedToday+amount > limit.DailyMax {
		remaining := limit.DailyMax - earnedToday
		if remaining < 0 {
			remaining = 0
		}
		return &DailyLimitError{
			UserID:    userID,
			Requested: amount,
			Remaining: remaining,
			Limit:     limit.DailyMax,
		}
	}

	return nil
}

// LoadTransferLimit reads the tip limit settings. Must be called before
// the caller's unit of work begins.
func (p *limitPolicy) LoadTransferLimit(ctx context.Context) (TransferLimit, error) {
	minAmount, err := p.settings.GetInt(ctx, models.SettingTipMinAmount)
	if err != nil {
		return TransferLimit{}, fmt.Errorf("failed to load tip minimum: %w", err)
	}
	maxAmount, err := p.settings.GetInt(ctx, models.SettingTipMaxAmount)
	if err != nil {
		return TransferLimit{}, fmt.Errorf("failed to load tip maximum: %w", err)
	}
	dailyMax, err := p.settings.GetInt(ctx, models.SettingTipDailyMax)
	if err != nil {
		return TransferLimit{}, fmt.Errorf("failed to load daily tip limit: %w", err)
	}

	return TransferLimit{
		MinAmount: minAmount,
		MaxAmount: maxAmount,
		DailyMax:  dailyMax,
	}, nil
}

// CheckTransfer verifies the per-transfer bounds and the sender's same-day
// tip total against limits.tip.*.
func (p *limitPolicy) CheckTransfer(ctx context.Context, txRepo TransactionRepository, fromUserID string, amount int64, limit TransferLimit) error {
	if amount < limit.MinAmount || amount > limit.MaxAmount {
		return &TransferLimitError{
			UserID:    fromUserID,
			Requested: amount,
			Min:       limit.MinAmount,
			Max:       limit.MaxAmount,
			Remaining: -1,
		}
	}

	periodStart := GetCurrentPeriodStart(p.resetHour)
	tippedToday, err := txRepo.SumAmountSince(ctx, fromUserID, models.TransactionTypeSpent, models.SourceTip, periodStart)
	if err != nil {
		return classifyStorageErr(fmt.Errorf("failed to sum tips for user %s: %w", fromUserID, err))
	}

	if tippedToday+amount > limit.DailyMax {
		remaining := limit.DailyMax - tippedToday
		if remaining < 0 {
			remaining = 0
		}
		return &TransferLimitError{
			UserID:    fromUserID,
			Requested: amount,
			Min:       limit.MinAmount,
			Max:       limit.MaxAmount,
			Remaining: remaining,
		}
	}

	return nil
}
