package validation

import (
	"regexp"
	"strings"

	"alcyxob/fitcrm/internal/domain"
)

// Field error messages, surfaced verbatim to the user.
const (
	MsgNameRequired      = "Name is required (min 2 chars)."
	MsgEmailRequired     = "A valid email is required."
	MsgPhoneRequired     = "Phone is required."
	MsgGoalRequired      = "Fitness goal is required."
	MsgStartDateRequired = "Start date is required."
)

// emailPattern is deliberately loose: something before the @, something
// after it, and a dot-separated tld. Matches the original form check.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Error is a validation failure carrying a user-facing message.
type Error string

func (e Error) Error() string {
	return string(e)
}

// Validate checks a client record against the field rules, in order,
// stopping at the first failure. It returns nil for a valid record.
// History is optional and never validated. No side effects.
func Validate(c domain.Client) error {
	if len(strings.TrimSpace(c.Name)) < 2 {
		return Error(MsgNameRequired)
	}
	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		return Error(MsgEmailRequired)
	}
	if len(strings.TrimSpace(c.Phone)) < 7 {
		return Error(MsgPhoneRequired)
	}
	if len(strings.TrimSpace(c.Goal)) < 2 {
		return Error(MsgGoalRequired)
	}
	if c.StartDate == "" {
		return Error(MsgStartDateRequired)
	}
	return nil
}
