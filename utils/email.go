package utils

import (
	"strings"

	"github.com/badoux/checkmail"
)

// NormalizeEmail trims and lower-cases an address and checks its syntax. Only the format is
// checked; no DNS or SMTP lookups are made.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return "", NewValidationError("email must be a valid email")
	}
	return email, nil
}
