package tip

import (
	"github.com/bwmarrin/discordgo"

	"gembot/service"
)

type Feature struct {
	ledgerService   service.LedgerService
	settingsService service.SettingsService
}

func New(ledgerService service.LedgerService, settingsService service.SettingsService) *Feature {
	return &Feature{
		ledgerService:   ledgerService,
		settingsService: settingsService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleTip(s, i)
}
