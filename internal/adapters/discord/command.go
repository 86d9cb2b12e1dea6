package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	pkgdiscord "rosterbot/pkg/discord"
)

const commandName = "activity"

const inboxPageSize = 10

func commands() []*discordgo.ApplicationCommand {
	minID := 1.0
	activityID := func() *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "Activity id",
			Required:    true,
			MinValue:    &minID,
		}
	}
	return []*discordgo.ApplicationCommand{
		{
			Name:        commandName,
			Description: "Join, leave and organise activities",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create an activity",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "female_priority", Description: "Hold male sign-ups on the waiting list until the female quota is met"},
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "verified_only", Description: "Only verified members may join"},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "join", Description: "Join an activity", Options: []*discordgo.ApplicationCommandOption{activityID()}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "leave", Description: "Leave an activity", Options: []*discordgo.ApplicationCommandOption{activityID()}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "roster", Description: "Show who is in", Options: []*discordgo.ApplicationCommandOption{activityID()}},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "profile",
					Description: "Set the gender used for quotas",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "gender",
							Description: "Gender",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "male", Value: string(domain.Male)},
								{Name: "female", Value: string(domain.Female)},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "verify",
					Description: "Mark a member as verified (administrators)",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member", Required: true},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "inbox", Description: "Show unread notifications"},
			},
		},
	}
}

func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	switch sub.Name {
	case "create":
		h.openCreateModal(s, i, sub)
	case "join":
		h.join(s, i, optionInt(sub, "id"))
	case "leave":
		h.leave(s, i, optionInt(sub, "id"))
	case "roster":
		h.roster(s, i, optionInt(sub, "id"))
	case "profile":
		h.profile(s, i, optionString(sub, "gender"))
	case "verify":
		h.verify(s, i, sub)
	case "inbox":
		h.showInbox(s, i)
	default:
		h.log.Warn("unknown subcommand", "name", sub.Name)
	}
}

func (h *Handler) roster(s *discordgo.Session, i *discordgo.InteractionCreate, activityID int64) {
	ctx := context.Background()
	locale := h.locale(i)
	a, err := h.activities.GetActivity(ctx, activityID)
	if err != nil {
		h.replyError(s, i, err)
		return
	}
	participants, err := h.activities.ListParticipants(ctx, activityID)
	if err != nil {
		h.replyError(s, i, err)
		return
	}
	respondEphemeral(s, i.Interaction, pkgdiscord.FormatRoster(h.t, locale, a, participants))
}

func (h *Handler) profile(s *discordgo.Session, i *discordgo.InteractionCreate, gender string) {
	ctx := context.Background()
	user := interactionUser(i)
	if user == nil {
		return
	}
	u := entities.User{
		ID:       user.ID,
		Nickname: resolveDisplayName(i.Member, user),
		Gender:   domain.ParseGender(gender),
		Locale:   h.locale(i),
	}
	if existing, err := h.activities.GetUser(ctx, user.ID); err == nil {
		u.IsVerified = existing.IsVerified
	}
	if err := h.activities.RegisterUser(ctx, u); err != nil {
		h.replyError(s, i, err)
		return
	}
	respondEphemeral(s, i.Interaction, "✅ "+h.t.T(u.Locale, "reply.profile.ok", nil))
}

func (h *Handler) verify(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	locale := h.locale(i)
	if !isAdmin(i.Member) {
		respondEphemeral(s, i.Interaction, "❌ "+h.t.T(locale, "errors.forbidden", nil))
		return
	}
	var target *discordgo.User
	for _, opt := range sub.Options {
		if opt.Name == "user" {
			target = opt.UserValue(nil)
		}
	}
	if target == nil {
		return
	}

	ctx := context.Background()
	u, err := h.activities.GetUser(ctx, target.ID)
	if err != nil {
		h.replyError(s, i, err)
		return
	}
	u.IsVerified = true
	if err := h.activities.RegisterUser(ctx, *u); err != nil {
		h.replyError(s, i, err)
		return
	}
	h.log.Info("member verified", "user_id", target.ID, "by", interactionUser(i).ID)
	respondEphemeral(s, i.Interaction, "✅ "+h.t.T(locale, "reply.verify.ok", map[string]any{"User": "<@" + target.ID + ">"}))
}

func (h *Handler) showInbox(s *discordgo.Session, i *discordgo.InteractionCreate) {
	locale := h.locale(i)
	if h.inbox == nil {
		respondEphemeral(s, i.Interaction, h.t.T(locale, "reply.inbox.disabled", nil))
		return
	}
	user := interactionUser(i)
	if user == nil {
		return
	}

	ctx := context.Background()
	items, err := h.inbox.ListForUser(ctx, user.ID, inboxPageSize)
	if err != nil {
		h.log.Error("list inbox failed", "user_id", user.ID, "error", err)
		h.replyError(s, i, &domain.InfraError{Op: "list inbox", Err: err})
		return
	}
	if len(items) == 0 {
		respondEphemeral(s, i.Interaction, h.t.T(locale, "reply.inbox.empty", nil))
		return
	}

	var b strings.Builder
	for _, n := range items {
		fmt.Fprintf(&b, "• **%s** %s\n", n.Title, n.Body)
		if err := h.inbox.MarkRead(ctx, user.ID, n.ID); err != nil {
			h.log.Warn("mark notification read failed", "id", n.ID, "error", err)
		}
	}
	respondEphemeral(s, i.Interaction, strings.TrimRight(b.String(), "\n"))
}

func optionInt(sub *discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return 0
}

func optionString(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func optionBool(sub *discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.BoolValue()
		}
	}
	return false
}
