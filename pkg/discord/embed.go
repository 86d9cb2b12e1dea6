package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/internal/ports/output"
)

const embedColor = 0x5865F2

// Button custom ids carry the activity id after the prefix.
const (
	ButtonJoinPrefix  = "btn_join_"
	ButtonLeavePrefix = "btn_leave_"
)

func formatPlaces(a *entities.Activity) string {
	onMain := min(a.CurrentParticipants, a.MaxParticipants)
	s := fmt.Sprintf("%d/%d", onMain, a.MaxParticipants)
	if waiting := a.CurrentParticipants - onMain; waiting > 0 {
		s += fmt.Sprintf(" (+%d)", waiting)
	}
	return s
}

func formatQuota(t output.T, locale string, quota int) string {
	switch quota {
	case domain.QuotaBanned:
		return t.T(locale, "embed.banned", nil)
	case domain.QuotaUnlimited:
		return t.T(locale, "embed.unlimited", nil)
	}
	return strconv.Itoa(quota)
}

// BuildActivityEmbed renders an activity card. Only counters are shown.
func BuildActivityEmbed(t output.T, locale string, a *entities.Activity, loc *time.Location) *discordgo.MessageEmbed {
	quota := formatQuota(t, locale, a.MaleQuota) + " / " + formatQuota(t, locale, a.FemaleQuota)
	return &discordgo.MessageEmbed{
		Title:       a.Title,
		Description: fmt.Sprintf("#%d • <@%s>", a.ID, a.CreatedBy),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: t.T(locale, "embed.when", nil), Value: FormatActivityDateTime(a.StartsAt, loc), Inline: true},
			{Name: t.T(locale, "embed.where", nil), Value: orDash(a.Location), Inline: true},
			{Name: t.T(locale, "embed.places", nil), Value: formatPlaces(a), Inline: true},
			{Name: t.T(locale, "embed.quota", nil), Value: quota, Inline: true},
		},
	}
}

// ActivityComponents returns the join/leave button row for an activity.
func ActivityComponents(t output.T, locale string, activityID int64) []discordgo.MessageComponent {
	id := strconv.FormatInt(activityID, 10)
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: t.T(locale, "ui.join", nil), Style: discordgo.SuccessButton, CustomID: ButtonJoinPrefix + id},
			discordgo.Button{Label: t.T(locale, "ui.leave", nil), Style: discordgo.DangerButton, CustomID: ButtonLeavePrefix + id},
		}},
	}
}

// ParseButtonID extracts the activity id from a join or leave button id.
func ParseButtonID(customID, prefix string) (int64, bool) {
	rest, ok := strings.CutPrefix(customID, prefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FormatRoster lists participants one per line as mentions, marking the
// captain and anyone still waiting.
func FormatRoster(t output.T, locale string, a *entities.Activity, participants []entities.Participant) string {
	var b strings.Builder
	b.WriteString(t.T(locale, "reply.roster.header", map[string]any{
		"Activity": a.Title,
		"Current":  a.CurrentParticipants,
		"Max":      a.MaxParticipants,
	}))
	if len(participants) == 0 {
		b.WriteString("\n")
		b.WriteString(t.T(locale, "reply.roster.empty", nil))
		return b.String()
	}
	for n, p := range participants {
		fmt.Fprintf(&b, "\n%d. <@%s>", n+1, p.UserID)
		if p.IsCaptain {
			b.WriteString(" · " + t.T(locale, "reply.roster.captain", nil))
		}
		if p.IsWaiting {
			b.WriteString(" · " + t.T(locale, "reply.roster.waiting", nil))
		}
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// NotificationEmbed renders an event for a direct message.
func NotificationEmbed(ev entities.Event) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       ev.Title,
		Description: ev.Body,
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("#%d", ev.ActivityID)},
	}
	if !ev.OccurredAt.IsZero() {
		embed.Timestamp = ev.OccurredAt.Format(time.RFC3339)
	}
	return embed
}
