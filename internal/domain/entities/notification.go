package entities

import "time"

type EventKind string

const (
	EventMemberJoined     EventKind = "MEMBER_JOINED"
	EventMemberLeft       EventKind = "MEMBER_LEFT"
	EventWaitingPromoted  EventKind = "WAITING_PROMOTED"
	EventActivityReminder EventKind = "ACTIVITY_REMINDER"
)

// Event is a post-commit notification addressed to one user.
type Event struct {
	Kind         EventKind `json:"kind"`
	ActivityID   int64     `json:"activity_id"`
	TargetUserID string    `json:"target_user_id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notification is a persisted inbox entry derived from an Event.
type Notification struct {
	ID         int64
	UserID     string
	ActivityID int64
	Kind       EventKind
	Title      string
	Body       string
	IsRead     bool
	CreatedAt  time.Time
}
