package rewards

import (
	"github.com/bwmarrin/discordgo"

	"gembot/service"
)

// Feature awards GEMS for chat activity and handles the /daily bonus claim
type Feature struct {
	ledgerService   service.LedgerService
	settingsService service.SettingsService
	resetHour       int
}

func New(ledgerService service.LedgerService, settingsService service.SettingsService, resetHour int) *Feature {
	return &Feature{
		ledgerService:   ledgerService,
		settingsService: settingsService,
		resetHour:       resetHour,
	}
}

// HandleCommand handles the /daily command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleDaily(s, i)
}

// HandleMessage awards the per-message reward for chat activity
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	f.handleMessage(s, m)
}
