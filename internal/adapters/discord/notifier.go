package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"rosterbot/internal/domain/entities"
	pkgdiscord "rosterbot/pkg/discord"
)

// Notifier delivers events as direct messages.
type Notifier struct {
	session *discordgo.Session
}

func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{session: session}
}

func (n *Notifier) Name() string { return "discord" }

func (n *Notifier) Deliver(ctx context.Context, ev entities.Event) error {
	ch, err := n.session.UserChannelCreate(ev.TargetUserID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM channel for %s: %w", ev.TargetUserID, err)
	}
	if _, err := n.session.ChannelMessageSendEmbed(ch.ID, pkgdiscord.NotificationEmbed(ev), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send DM to %s: %w", ev.TargetUserID, err)
	}
	return nil
}
