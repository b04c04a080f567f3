package admin

import (
	"github.com/bwmarrin/discordgo"

	"gembot/bot/common"
	"gembot/config"
	"gembot/service"
)

type Feature struct {
	ledgerService   service.LedgerService
	settingsService service.SettingsService
	cfg             *config.Config
}

func New(ledgerService service.LedgerService, settingsService service.SettingsService, cfg *config.Config) *Feature {
	return &Feature{
		ledgerService:   ledgerService,
		settingsService: settingsService,
		cfg:             cfg,
	}
}

// HandleCommand routes the gems-admin subcommands after an admin check
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.cfg.IsAdmin(i.Member.User.ID) {
		common.RespondWithError(s, i, "You are not allowed to run admin commands.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing subcommand.")
		return
	}

	switch options[0].Name {
	case "grant":
		f.handleGrant(s, i, options[0].Options)
	case "take":
		f.handleTake(s, i, options[0].Options)
	case "reset":
		f.handleReset(s, i, options[0].Options)
	case "setting":
		f.handleSetting(s, i, options[0].Options)
	case "prune":
		f.handlePrune(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}
