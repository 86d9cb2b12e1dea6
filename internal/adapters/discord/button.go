package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"rosterbot/internal/domain/policy"
	pkgdiscord "rosterbot/pkg/discord"
)

func (h *Handler) HandleJoinButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if id, ok := pkgdiscord.ParseButtonID(i.MessageComponentData().CustomID, pkgdiscord.ButtonJoinPrefix); ok {
		h.join(s, i, id)
	}
}

func (h *Handler) HandleLeaveButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if id, ok := pkgdiscord.ParseButtonID(i.MessageComponentData().CustomID, pkgdiscord.ButtonLeavePrefix); ok {
		h.leave(s, i, id)
	}
}

func (h *Handler) join(s *discordgo.Session, i *discordgo.InteractionCreate, activityID int64) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	ctx := context.Background()
	admission, err := h.enrollment.Join(ctx, activityID, user.ID)
	if err != nil {
		h.replyError(s, i, err)
		return
	}

	key := "reply.join.main"
	if admission.Outcome == policy.AdmitWaiting {
		key = "reply.join.waiting"
	}
	respondEphemeral(s, i.Interaction, h.t.T(h.locale(i), key, map[string]any{"Activity": h.title(ctx, activityID)}))
	h.refreshCard(ctx, s, i, activityID)
}

func (h *Handler) leave(s *discordgo.Session, i *discordgo.InteractionCreate, activityID int64) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	ctx := context.Background()
	if err := h.enrollment.Leave(ctx, activityID, user.ID); err != nil {
		h.replyError(s, i, err)
		return
	}
	respondEphemeral(s, i.Interaction, "🗑️ "+h.t.T(h.locale(i), "reply.leave.ok", map[string]any{"Activity": h.title(ctx, activityID)}))
	h.refreshCard(ctx, s, i, activityID)
}

func (h *Handler) title(ctx context.Context, activityID int64) string {
	a, err := h.activities.GetActivity(ctx, activityID)
	if err != nil {
		return ""
	}
	return a.Title
}

// refreshCard rewrites the activity card the button was pressed on. Slash
// command interactions have no card.
func (h *Handler) refreshCard(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, activityID int64) {
	if i.Message == nil {
		return
	}
	a, err := h.activities.GetActivity(ctx, activityID)
	if err != nil {
		h.log.Warn("refresh card: load activity failed", "activity_id", activityID, "error", err)
		return
	}
	embeds := []*discordgo.MessageEmbed{pkgdiscord.BuildActivityEmbed(h.t, h.defaultLocale, a, h.loc)}
	components := pkgdiscord.ActivityComponents(h.t, h.defaultLocale, a.ID)
	if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         i.Message.ID,
		Channel:    i.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}); err != nil {
		h.log.Warn("refresh card failed", "activity_id", activityID, "message_id", i.Message.ID, "error", err)
	}
}
