package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"moralverse/internal/models"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

// reservedUsernames cannot be claimed by signups. The administrator name is
// reserved because the built-in system identity presents itself with it.
var reservedUsernames = map[string]struct{}{
	"admin":         {},
	"administrator": {},
	"moderator":     {},
	"system":        {},
	"moralverse":    {},
	"root":          {},
	"support":       {},
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-32 characters and contain only letters, numbers, and underscores")
	}

	lower := strings.ToLower(username)
	if _, exists := reservedUsernames[lower]; exists {
		return fmt.Errorf("username is reserved")
	}
	if lower == strings.ToLower(models.SystemUsername) {
		return fmt.Errorf("username is reserved")
	}

	return nil
}

// ValidateEmail checks that the address parses as a single RFC 5322 mailbox.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email is too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	return nil
}
