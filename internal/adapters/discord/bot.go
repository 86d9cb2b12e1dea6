package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"rosterbot/internal/platform/logger"
	pkgdiscord "rosterbot/pkg/discord"
)

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	guildID string
	handler *Handler
	log     *logger.Logger
}

// NewSession builds the Discord client without connecting, so the DM
// notifier and the bot can share it.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages
	return s, nil
}

// NewBot routes interactions on session to handler. An empty guildID
// registers commands globally.
func NewBot(session *discordgo.Session, guildID string, handler *Handler, log *logger.Logger) *Bot {
	bot := &Bot{
		session: session,
		guildID: guildID,
		handler: handler,
		log:     log.With("component", "discord"),
	}
	bot.setupHandlers()
	return bot
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleInteraction)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == commandName {
			b.handler.HandleCommand(s, i)
		}
	case discordgo.InteractionModalSubmit:
		if strings.HasPrefix(i.ModalSubmitData().CustomID, createModalPrefix) {
			b.handler.HandleCreateModalSubmit(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(customID, pkgdiscord.ButtonJoinPrefix):
			b.handler.HandleJoinButton(s, i)
		case strings.HasPrefix(customID, pkgdiscord.ButtonLeavePrefix):
			b.handler.HandleLeaveButton(s, i)
		}
	}
}

// Start opens the gateway, registers the slash command and blocks until ctx
// is done.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range commands() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, cmd); err != nil {
			b.log.Warn("register command failed", "command", cmd.Name, "error", err)
		}
	}

	b.log.Info("bot online", "user", b.session.State.User.Username, "guild_id", b.guildID)
	<-ctx.Done()
	b.log.Info("bot shutting down")
	return nil
}
