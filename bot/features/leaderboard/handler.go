package leaderboard

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"gembot/bot/common"
	"gembot/models"
)

func parseMetric(options []*discordgo.ApplicationCommandInteractionDataOption) models.LeaderboardMetric {
	for _, opt := range options {
		if opt.Name == "metric" {
			return models.LeaderboardMetric(opt.StringValue())
		}
	}
	return models.MetricBalance
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()
	options := i.ApplicationCommandData().Options

	metric := parseMetric(options)
	limit := DefaultLimit
	for _, opt := range options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	// Resolving display names needs one member lookup per entry, which can
	// exceed the initial response deadline
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring leaderboard response: %v", err)
		return
	}

	entries, err := f.leaderboardService.Top(ctx, metric, limit)
	if err != nil {
		log.Errorf("Error getting leaderboard: %v", err)
		content := "Unable to retrieve the leaderboard. Please try again."
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
			log.Errorf("Error editing leaderboard response: %v", err)
		}
		return
	}

	embed := buildLeaderboardEmbed(s, i.GuildID, metric, entries)
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

func (f *Feature) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	metric := parseMetric(i.ApplicationCommandData().Options)
	userID := i.Member.User.ID

	position, err := f.leaderboardService.Position(ctx, userID, metric)
	if err != nil {
		log.Errorf("Error getting rank for user %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve your rank. You may not have an account yet.")
		return
	}

	message := fmt.Sprintf("<@%s>, you are ranked **#%d** of %d by %s (percentile %d)",
		userID, position.Rank, position.Total, metricLabel(metric), position.Percentile)

	if err := common.RespondWithContent(s, i, message, false); err != nil {
		log.Errorf("Error responding to rank command: %v", err)
	}
}
