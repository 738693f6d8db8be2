package model

import "time"

// PendingAssignment is a role a user selected before joining the guild.
type PendingAssignment struct {
	UserID     string
	RoleID     string
	SelectedAt time.Time
}
