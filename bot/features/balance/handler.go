package balance

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"gembot/bot/common"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()
	userID := i.Member.User.ID

	// Get or create the account
	account, err := f.ledgerService.GetBalance(ctx, userID)
	if err != nil {
		log.Errorf("Error getting balance for user %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	message := fmt.Sprintf("<@%s>, your current balance: **%s GEMS** (earned %s, spent %s all-time)",
		userID,
		common.FormatGems(account.Balance),
		common.FormatGems(account.LifetimeEarned),
		common.FormatGems(account.LifetimeSpent))

	if err := common.RespondWithContent(s, i, message, false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}
