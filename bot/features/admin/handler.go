package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"gembot/bot/common"
	"gembot/models"
	"gembot/service"
)

func (f *Feature) handleGrant(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	var amount int64
	var targetUser *discordgo.User
	reason := "admin grant"
	for _, opt := range options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			targetUser = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		}
	}

	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	balance, err := f.ledgerService.Credit(ctx, service.CreditRequest{
		UserID: targetUser.ID,
		Amount: amount,
		Reason: reason,
		Source: models.SourceAdmin,
		Type:   models.TransactionTypeAdminAdd,
		Metadata: map[string]any{
			"admin_id": i.Member.User.ID,
		},
	})
	if err != nil {
		log.Errorf("Error granting %d GEMS to user %s: %v", amount, targetUser.ID, err)
		f.respondWithLedgerError(s, i, err)
		return
	}

	message := fmt.Sprintf("Granted **%s GEMS** to <@%s>. New balance: **%s GEMS**",
		common.FormatGems(amount), targetUser.ID, common.FormatGems(balance.Balance))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to grant command: %v", err)
	}
}

func (f *Feature) handleTake(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	var amount int64
	var targetUser *discordgo.User
	reason := "admin removal"
	for _, opt := range options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			targetUser = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		}
	}

	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	balance, err := f.ledgerService.Debit(ctx, service.DebitRequest{
		UserID: targetUser.ID,
		Amount: amount,
		Reason: reason,
		Source: models.SourceAdmin,
		Type:   models.TransactionTypeAdminRemove,
		Metadata: map[string]any{
			"admin_id": i.Member.User.ID,
		},
	})
	if err != nil {
		log.Errorf("Error taking %d GEMS from user %s: %v", amount, targetUser.ID, err)
		f.respondWithLedgerError(s, i, err)
		return
	}

	message := fmt.Sprintf("Removed **%s GEMS** from <@%s>. New balance: **%s GEMS**",
		common.FormatGems(amount), targetUser.ID, common.FormatGems(balance.Balance))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to take command: %v", err)
	}
}

func (f *Feature) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	var targetUser *discordgo.User
	for _, opt := range options {
		if opt.Name == "user" {
			targetUser = opt.UserValue(s)
		}
	}

	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	if err := f.ledgerService.ResetAccount(ctx, targetUser.ID); err != nil {
		log.Errorf("Error resetting account %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to reset account. It may not exist.")
		return
	}

	message := fmt.Sprintf("Reset the account of <@%s>.", targetUser.ID)
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to reset command: %v", err)
	}
}

func (f *Feature) handleSetting(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing setting subcommand.")
		return
	}

	switch options[0].Name {
	case "get":
		f.handleSettingGet(s, i, options[0].Options)
	case "set":
		f.handleSettingSet(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown setting subcommand.")
	}
}

func (f *Feature) handleSettingGet(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	var key string
	for _, opt := range options {
		if opt.Name == "key" {
			key = opt.StringValue()
		}
	}

	setting, err := f.settingsService.Get(ctx, key)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			common.RespondWithError(s, i, fmt.Sprintf("Unknown setting key `%s`.", key))
			return
		}
		log.Errorf("Error getting setting %s: %v", key, err)
		common.RespondWithError(s, i, "Unable to read setting. Please try again.")
		return
	}

	message := fmt.Sprintf("`%s` = `%s` (last updated by %s)", setting.Key, setting.Value, setting.UpdatedBy)
	if err := common.RespondWithContent(s, i, message, true); err != nil {
		log.Errorf("Error responding to setting get command: %v", err)
	}
}

func (f *Feature) handleSettingSet(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	var key, value string
	for _, opt := range options {
		switch opt.Name {
		case "key":
			key = opt.StringValue()
		case "value":
			value = opt.StringValue()
		}
	}

	if err := f.settingsService.Set(ctx, key, value, i.Member.User.ID); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			common.RespondWithError(s, i, fmt.Sprintf("Invalid setting: %v", err))
			return
		}
		log.Errorf("Error setting %s=%s: %v", key, value, err)
		common.RespondWithError(s, i, "Unable to update setting. Please try again.")
		return
	}

	message := fmt.Sprintf("Updated `%s` to `%s`.", key, value)
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to setting set command: %v", err)
	}
}

func (f *Feature) handlePrune(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	var days int64
	for _, opt := range options {
		if opt.Name == "days" {
			days = opt.IntValue()
		}
	}

	if days < 30 {
		common.RespondWithError(s, i, "Retention must keep at least 30 days of history.")
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -int(days))
	deleted, err := f.ledgerService.PruneTransactionsBefore(ctx, cutoff)
	if err != nil {
		log.Errorf("Error pruning transactions before %s: %v", cutoff, err)
		common.RespondWithError(s, i, "Unable to prune transactions. Please try again.")
		return
	}

	message := fmt.Sprintf("Pruned **%d** transactions older than %d days.", deleted, days)
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to prune command: %v", err)
	}
}

// respondWithLedgerError maps ledger errors to user-facing messages
func (f *Feature) respondWithLedgerError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var insufficient *service.InsufficientFundsError

	switch {
	case errors.As(err, &insufficient):
		common.RespondWithError(s, i, fmt.Sprintf("The account only has **%s GEMS**.",
			common.FormatGems(insufficient.Available)))
	case errors.Is(err, service.ErrInvalidInput):
		common.RespondWithError(s, i, "Invalid command options. Check the amount and reason.")
	default:
		common.RespondWithError(s, i, "Unable to complete the operation. Please try again.")
	}
}
