package leaderboard

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"gembot/bot/common"
	"gembot/models"
)

func metricLabel(metric models.LeaderboardMetric) string {
	switch metric {
	case models.MetricLifetimeEarned:
		return "lifetime earned"
	case models.MetricLifetimeSpent:
		return "lifetime spent"
	}
	return "balance"
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("`#%d`", rank)
}

// buildLeaderboardEmbed renders a top-N ranking as a Discord embed.
// Mentions do not resolve reliably inside embeds, so entries show the
// member's server display name instead.
func buildLeaderboardEmbed(s *discordgo.Session, guildID string, metric models.LeaderboardMetric, entries []*models.LeaderboardEntry) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "%s %s: **%s GEMS**\n",
			medal(entry.Rank), common.GetDisplayName(s, guildID, entry.UserID), common.FormatGems(entry.Value))
	}

	description := sb.String()
	if description == "" {
		description = "No accounts yet. Start chatting to earn GEMS!"
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("💎 GEMS Leaderboard (%s)", metricLabel(metric)),
		Description: description,
		Color:       0x00b0f4,
	}
}
