package history

import (
	"github.com/bwmarrin/discordgo"

	"gembot/service"
)

// DefaultLimit is the page size when no limit option is given
const DefaultLimit = 10

// MaxLimit caps the page size a user can request
const MaxLimit = 25

type Feature struct {
	ledgerService service.LedgerService
}

func New(ledgerService service.LedgerService) *Feature {
	return &Feature{
		ledgerService: ledgerService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleHistory(s, i)
}
