package discord

import (
	"time"

	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/input"
	"rosterbot/internal/ports/output"
)

// Handler handles Discord interactions using use cases.
type Handler struct {
	enrollment    input.EnrollmentUseCase
	activities    input.ActivityUseCase
	inbox         output.NotificationRepository
	t             output.T
	clock         output.Clock
	loc           *time.Location
	defaultLocale string
	log           *logger.Logger
}

// NewHandler creates a Handler. inbox may be nil when notifications are
// not persisted.
func NewHandler(
	enrollment input.EnrollmentUseCase,
	activities input.ActivityUseCase,
	inbox output.NotificationRepository,
	t output.T,
	clock output.Clock,
	loc *time.Location,
	defaultLocale string,
	log *logger.Logger,
) *Handler {
	return &Handler{
		enrollment:    enrollment,
		activities:    activities,
		inbox:         inbox,
		t:             t,
		clock:         clock,
		loc:           loc,
		defaultLocale: defaultLocale,
		log:           log.With("component", "discord.handler"),
	}
}
