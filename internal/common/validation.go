package common

import (
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 20 {
		return InvalidArgumentf("username must be between 3 and 20 characters")
	}
	if !usernameRegex.MatchString(username) {
		return InvalidArgumentf("username can only contain letters, numbers, and underscores")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return InvalidArgumentf("password must be at least 6 characters long")
	}
	if len(password) > 100 {
		return InvalidArgumentf("password is too long")
	}
	return nil
}

func ValidateRoomName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return InvalidArgumentf("room name must not be empty")
	}
	if len(name) > 100 {
		return InvalidArgumentf("room name must be at most 100 characters")
	}
	return nil
}
