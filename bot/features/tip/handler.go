package tip

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"gembot/bot/common"
	"gembot/models"
	"gembot/service"
)

func (f *Feature) handleTip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	// Extract command options
	var amount int64
	var recipientUser *discordgo.User
	reason := "tip"
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipientUser = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		}
	}

	if recipientUser == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}
	if recipientUser.Bot {
		common.RespondWithError(s, i, "You cannot tip a bot.")
		return
	}

	enabled, err := f.settingsService.GetBool(ctx, models.SettingTippingEnabled)
	if err != nil {
		log.Errorf("Error reading tipping setting: %v", err)
		common.RespondWithError(s, i, "Unable to process tip. Please try again.")
		return
	}
	if !enabled {
		common.RespondWithError(s, i, "Tipping is currently disabled.")
		return
	}

	senderID := i.Member.User.ID
	result, err := f.ledgerService.Transfer(ctx, senderID, recipientUser.ID, amount, reason)
	if err != nil {
		f.respondWithTransferError(s, i, err)
		return
	}

	message := fmt.Sprintf("<@%s> %s. Your balance: **%s GEMS**",
		senderID,
		common.FormatTransferResult(result.Amount, result.ToUserID),
		common.FormatGems(result.FromBalance))
	if err := common.RespondWithContent(s, i, message, false); err != nil {
		log.Errorf("Error responding to tip command: %v", err)
	}
}

// respondWithTransferError maps ledger errors to user-facing messages
func (f *Feature) respondWithTransferError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var insufficient *service.InsufficientFundsError
	var limit *service.TransferLimitError

	switch {
	case errors.Is(err, service.ErrSameAccount):
		common.RespondWithError(s, i, "You cannot tip yourself.")
	case errors.As(err, &insufficient):
		common.RespondWithError(s, i, fmt.Sprintf("Insufficient balance: you have **%s GEMS**.",
			common.FormatGems(insufficient.Available)))
	case errors.As(err, &limit):
		if limit.Remaining >= 0 {
			common.RespondWithError(s, i, fmt.Sprintf("Daily tip limit reached: **%s GEMS** remaining today.",
				common.FormatGems(limit.Remaining)))
		} else {
			common.RespondWithError(s, i, fmt.Sprintf("Tips must be between **%s** and **%s GEMS**.",
				common.FormatGems(limit.Min), common.FormatGems(limit.Max)))
		}
	case errors.Is(err, service.ErrInvalidInput):
		common.RespondWithError(s, i, "Invalid tip. Check the amount and reason.")
	default:
		log.Errorf("Error processing tip: %v", err)
		common.RespondWithError(s, i, "Unable to process tip. Please try again.")
	}
}
