package rewards

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"gembot/bot/common"
	"gembot/models"
	"gembot/service"
)

func (f *Feature) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ctx, cancel := common.CommandContext()
	defer cancel()

	reward, err := f.settingsService.GetInt(ctx, models.SettingMessageReward)
	if err != nil {
		log.Errorf("Error reading message reward setting: %v", err)
		return
	}
	if reward <= 0 {
		return
	}

	_, err = f.ledgerService.Credit(ctx, service.CreditRequest{
		UserID: m.Author.ID,
		Amount: reward,
		Reason: "message reward",
		Source: models.SourceChatActivity,
	})
	if err != nil {
		// Hitting the daily cap is expected for active chatters
		if errors.Is(err, service.ErrDailyLimitExceeded) {
			return
		}
		log.Errorf("Error crediting message reward to user %s: %v", m.Author.ID, err)
	}
}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()
	userID := i.Member.User.ID

	bonus, err := f.settingsService.GetInt(ctx, models.SettingDailyBonus)
	if err != nil {
		log.Errorf("Error reading daily bonus setting: %v", err)
		common.RespondWithError(s, i, "Unable to claim the daily bonus. Please try again.")
		return
	}
	if bonus <= 0 {
		common.RespondWithError(s, i, "The daily bonus is currently disabled.")
		return
	}

	// One claim per reset window
	periodStart := service.GetCurrentPeriodStart(f.resetHour)
	claims, err := f.ledgerService.History(ctx, userID, models.HistoryFilter{
		Source: models.SourceDailyBonus,
		From:   periodStart,
		Limit:  1,
	})
	if err != nil {
		log.Errorf("Error checking daily bonus claims for user %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to claim the daily bonus. Please try again.")
		return
	}
	if len(claims) > 0 {
		next := service.GetNextResetTime(f.resetHour)
		common.RespondWithError(s, i, fmt.Sprintf("You already claimed today's bonus. Next claim %s.",
			common.FormatDiscordTimestamp(next, "R")))
		return
	}

	// Bonus credits are exempt from the daily earn cap by type
	balance, err := f.ledgerService.Credit(ctx, service.CreditRequest{
		UserID: userID,
		Amount: bonus,
		Reason: "daily bonus",
		Source: models.SourceDailyBonus,
		Type:   models.TransactionTypeBonus,
	})
	if err != nil {
		log.Errorf("Error crediting daily bonus to user %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to claim the daily bonus. Please try again.")
		return
	}

	message := fmt.Sprintf("<@%s> claimed the daily bonus of **%s GEMS**! Balance: **%s GEMS**",
		userID, common.FormatGems(bonus), common.FormatGems(balance.Balance))
	if err := common.RespondWithContent(s, i, message, false); err != nil {
		log.Errorf("Error responding to daily command: %v", err)
	}
}
