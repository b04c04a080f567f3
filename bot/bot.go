package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"gembot/bot/features/admin"
	"gembot/bot/features/balance"
	"gembot/bot/features/history"
	"gembot/bot/features/leaderboard"
	"gembot/bot/features/rewards"
	"gembot/bot/features/tip"
	"gembot/config"
	"gembot/events"
	"gembot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	eventBus *events.Bus

	balanceFeature     *balance.Feature
	tipFeature         *tip.Feature
	leaderboardFeature *leaderboard.Feature
	historyFeature     *history.Feature
	adminFeature       *admin.Feature
	rewardsFeature     *rewards.Feature
}

func New(botConfig Config, appConfig *config.Config, ledgerService service.LedgerService, settingsService service.SettingsService, leaderboardService service.LeaderboardService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + botConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMembers

	bot := &Bot{
		config:   botConfig,
		session:  dg,
		eventBus: eventBus,

		balanceFeature:     balance.New(ledgerService),
		tipFeature:         tip.New(ledgerService, settingsService),
		leaderboardFeature: leaderboard.New(leaderboardService),
		historyFeature:     history.New(ledgerService),
		adminFeature:       admin.New(ledgerService, settingsService, appConfig),
		rewardsFeature:     rewards.New(ledgerService, settingsService, appConfig.DailyLimitResetHour),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Chat activity earns GEMS
	dg.AddHandler(bot.handleMessageCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.subscribeEvents()

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// subscribeEvents wires ledger events to side-effect hooks
func (b *Bot) subscribeEvents() {
	b.eventBus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.AccountCreatedEvent); ok {
			log.WithField("userID", e.UserID).Info("New GEMS account created")
		}
	})

	b.eventBus.Subscribe(events.EventTypeTransferCompleted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.TransferCompletedEvent); ok {
			log.WithFields(log.Fields{
				"transferID": e.TransferID,
				"from":       e.FromUserID,
				"to":         e.ToUserID,
				"amount":     e.Amount,
			}).Info("Transfer completed")
		}
	})

	b.eventBus.Subscribe(events.EventTypeSettingUpdated, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.SettingUpdatedEvent); ok {
			log.WithFields(log.Fields{
				"key":       e.Key,
				"value":     e.Value,
				"updatedBy": e.UpdatedBy,
			}).Info("Setting updated")
		}
	})
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.balanceFeature.HandleCommand(s, i)
	case "tip":
		b.tipFeature.HandleCommand(s, i)
	case "leaderboard":
		b.leaderboardFeature.HandleLeaderboard(s, i)
	case "rank":
		b.leaderboardFeature.HandleRank(s, i)
	case "history":
		b.historyFeature.HandleCommand(s, i)
	case "daily":
		b.rewardsFeature.HandleCommand(s, i)
	case "gems-admin":
		b.adminFeature.HandleCommand(s, i)
	}
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.rewardsFeature.HandleMessage(s, m)
}
