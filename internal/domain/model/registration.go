package model

import (
	"strings"
	"time"
)

const EmailNotProvided = "Not provided"

type Registration struct {
	UserID      string
	Name        string
	Email       string
	SubmittedAt time.Time
}

func (r Registration) DisplayEmail() string {
	if email := strings.TrimSpace(r.Email); email != "" {
		return email
	}
	return EmailNotProvided
}
