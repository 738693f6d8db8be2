package onboarding

import (
	"errors"
	"strings"
)

const (
	customIDPrefixRole = "role"
	customIDActionPick = "select"
)

var ErrInvalidCustomID = errors.New("invalid custom id")

// RoleButtonCustomID binds the role button to the user it was rendered for.
func RoleButtonCustomID(userID string) string {
	return customIDPrefixRole + ":" + customIDActionPick + ":" + userID
}

func IsRoleButton(customID string) bool {
	return strings.HasPrefix(customID, customIDPrefixRole+":")
}

func ParseRoleButtonCustomID(customID string) (string, error) {
	parts := strings.Split(strings.TrimSpace(customID), ":")
	if len(parts) != 3 || parts[0] != customIDPrefixRole || parts[1] != customIDActionPick {
		return "", ErrInvalidCustomID
	}
	if strings.TrimSpace(parts[2]) == "" {
		return "", ErrInvalidCustomID
	}
	return parts[2], nil
}
