package history

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"gembot/bot/common"
	"gembot/models"
)

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()
	userID := i.Member.User.ID

	filter := models.HistoryFilter{Limit: DefaultLimit}
	page := 1
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "limit":
			filter.Limit = int(opt.IntValue())
		case "type":
			filter.Type = models.TransactionType(opt.StringValue())
		case "page":
			page = int(opt.IntValue())
		}
	}
	if filter.Limit < 1 || filter.Limit > MaxLimit {
		filter.Limit = DefaultLimit
	}
	if page > 1 {
		filter.Offset = (page - 1) * filter.Limit
	}

	transactions, err := f.ledgerService.History(ctx, userID, filter)
	if err != nil {
		log.Errorf("Error getting history for user %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve history. Please try again.")
		return
	}

	embed := buildHistoryEmbed(transactions)
	// History is personal, keep it ephemeral
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to history command: %v", err)
	}
}

// buildHistoryEmbed renders transactions newest-first as a Discord embed
func buildHistoryEmbed(transactions []*models.Transaction) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, tx := range transactions {
		line := fmt.Sprintf("%s **%s** %s: %s",
			common.FormatDiscordTimestamp(tx.CreatedAt, "d"),
			common.FormatSigned(tx.Type, tx.Amount),
			common.FormatTransactionType(tx.Type),
			tx.Reason)
		if tx.RelatedUserID != nil {
			line += fmt.Sprintf(" (with <@%s>)", *tx.RelatedUserID)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	description := sb.String()
	if description == "" {
		description = "No transactions yet."
	}

	return &discordgo.MessageEmbed{
		Title:       "💎 GEMS History",
		Description: description,
		Color:       0x00b0f4,
	}
}
