package application

import (
	"strings"
	"time"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/ports/output"
)

// messages renders notification titles and bodies.
type messages struct {
	t             output.T
	defaultLocale string
}

func (m *messages) event(kind entities.EventKind, a *entities.Activity, target, locale, actor string, now time.Time) entities.Event {
	if locale == "" {
		locale = m.defaultLocale
	}
	data := map[string]any{
		"Name":     actor,
		"Activity": a.Title,
		"Location": a.Location,
		"StartsAt": a.StartsAt.In(now.Location()).Format("2006-01-02 15:04"),
	}
	key := "notify." + strings.ToLower(string(kind))
	ev := entities.Event{
		Kind:         kind,
		ActivityID:   a.ID,
		TargetUserID: target,
		OccurredAt:   now,
	}
	if m.t != nil {
		ev.Title = m.t.T(locale, key+".title", data)
		ev.Body = m.t.T(locale, key+".body", data)
	}
	return ev
}
