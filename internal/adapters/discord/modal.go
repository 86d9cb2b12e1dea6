package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"rosterbot/internal/ports/input"
	pkgdiscord "rosterbot/pkg/discord"
)

// The create modal id carries the two boolean options picked on the slash
// command, e.g. "create_activity_modal_10".
const createModalPrefix = "create_activity_modal_"

func createModalID(femalePriority, verifiedOnly bool) string {
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	return createModalPrefix + flag(femalePriority) + flag(verifiedOnly)
}

func parseCreateModalID(customID string) (femalePriority, verifiedOnly bool) {
	flags, ok := strings.CutPrefix(customID, createModalPrefix)
	if !ok || len(flags) != 2 {
		return false, false
	}
	return flags[0] == '1', flags[1] == '1'
}

func (h *Handler) openCreateModal(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	locale := h.locale(i)
	text := func(id, labelKey, placeholder string, style discordgo.TextInputStyle, required bool) discordgo.MessageComponent {
		return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    id,
				Label:       h.t.T(locale, labelKey, nil),
				Style:       style,
				Required:    required,
				Placeholder: placeholder,
			},
		}}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: createModalID(optionBool(sub, "female_priority"), optionBool(sub, "verified_only")),
			Title:    h.t.T(locale, "modal.create.title", nil),
			Components: []discordgo.MessageComponent{
				text(pkgdiscord.FieldTitle, "modal.create.name", "", discordgo.TextInputShort, true),
				text(pkgdiscord.FieldLocation, "modal.create.location", "", discordgo.TextInputShort, false),
				text(pkgdiscord.FieldDate, "modal.create.date", "2026/05/01", discordgo.TextInputShort, true),
				text(pkgdiscord.FieldTime, "modal.create.time", "19:30", discordgo.TextInputShort, true),
				text(pkgdiscord.FieldCapacity, "modal.create.capacity", "6,3,3", discordgo.TextInputShort, true),
			},
		},
	})
	if err != nil {
		h.log.Warn("open create modal failed", "error", err)
	}
}

// HandleCreateModalSubmit creates the activity and posts its card with
// join/leave buttons in the channel.
func (h *Handler) HandleCreateModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	data := i.ModalSubmitData()
	values := pkgdiscord.ExtractModalData(data)
	femalePriority, verifiedOnly := parseCreateModalID(data.CustomID)

	startsAt, err := pkgdiscord.ParseActivityDateTime(values[pkgdiscord.FieldDate], values[pkgdiscord.FieldTime], h.loc, h.clock.Now())
	if err != nil {
		h.replyError(s, i, err)
		return
	}
	maxParticipants, maleQuota, femaleQuota, err := pkgdiscord.ParseCapacity(values[pkgdiscord.FieldCapacity])
	if err != nil {
		h.replyError(s, i, err)
		return
	}

	a, err := h.activities.CreateActivity(context.Background(), input.CreateActivity{
		Title:               values[pkgdiscord.FieldTitle],
		Location:            values[pkgdiscord.FieldLocation],
		StartsAt:            startsAt,
		MaxParticipants:     maxParticipants,
		MaleQuota:           maleQuota,
		FemaleQuota:         femaleQuota,
		FemalePriority:      femalePriority,
		RequireVerification: verifiedOnly,
		CreatedBy:           user.ID,
	})
	if err != nil {
		h.replyError(s, i, err)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    h.t.T(h.locale(i), "reply.create.ok", map[string]any{"Activity": a.Title, "ID": a.ID}),
			Embeds:     []*discordgo.MessageEmbed{pkgdiscord.BuildActivityEmbed(h.t, h.defaultLocale, a, h.loc)},
			Components: pkgdiscord.ActivityComponents(h.t, h.defaultLocale, a.ID),
		},
	})
	if err != nil {
		h.log.Warn("post activity card failed", "activity_id", a.ID, "error", err)
	}
}
