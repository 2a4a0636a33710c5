// Package validation holds the signup input rules.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	minPasswordLen = 12
	maxPasswordLen = 128
	minUsernameLen = 3
	maxUsernameLen = 30
	maxEmailLen    = 254
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Handles that would let an account impersonate the platform or its
	// moderation team.
	reservedUsernames = map[string]struct{}{
		"admin":      {},
		"descubre":   {},
		"moderacion": {},
		"moderador":  {},
		"soporte":    {},
		"ayuda":      {},
	}
)

// ValidatePassword enforces the signup password policy: 12 to 128 bytes with
// at least one uppercase letter, one lowercase letter, one digit, and one
// symbol.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLen)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain at least one digit")
	case !hasSymbol:
		return fmt.Errorf("password must contain at least one symbol")
	}
	return nil
}

// ValidateUsername enforces the public handle rules. Handles appear on every
// review and appeal, so the character set stays URL- and mention-safe.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", minUsernameLen)
	}
	if len(username) > maxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", maxUsernameLen)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	if edge := username[0]; edge == '_' || edge == '-' {
		return fmt.Errorf("username cannot start with underscore or hyphen")
	}
	if edge := username[len(username)-1]; edge == '_' || edge == '-' {
		return fmt.Errorf("username cannot end with underscore or hyphen")
	}
	if _, taken := reservedUsernames[strings.ToLower(username)]; taken {
		return fmt.Errorf("username %q is reserved", username)
	}
	return nil
}

// ValidateEmail checks shape and length, not deliverability.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", maxEmailLen)
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}
