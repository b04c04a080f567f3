package leaderboard

import (
	"github.com/bwmarrin/discordgo"

	"gembot/service"
)

// DefaultLimit is the leaderboard size when no limit option is given
const DefaultLimit = 10

// MaxLimit caps the leaderboard size a user can request
const MaxLimit = 25

type Feature struct {
	leaderboardService service.LeaderboardService
}

func New(leaderboardService service.LeaderboardService) *Feature {
	return &Feature{
		leaderboardService: leaderboardService,
	}
}

// HandleLeaderboard handles the /leaderboard command
func (f *Feature) HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleLeaderboard(s, i)
}

// HandleRank handles the /rank command
func (f *Feature) HandleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleRank(s, i)
}
