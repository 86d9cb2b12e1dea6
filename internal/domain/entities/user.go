package entities

import "rosterbot/internal/domain"

// User holds the attributes enrollment reads. ID is the Discord snowflake.
type User struct {
	ID         string
	Nickname   string
	Gender     domain.Gender
	IsVerified bool
	Locale     string
}
