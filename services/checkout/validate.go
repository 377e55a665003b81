package checkout

import (
	"regexp"
	"strings"

	"vivare/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateGuestInfo rejects missing or malformed guest fields before any
// backend call is issued.
func ValidateGuestInfo(info models.GuestInfo) error {
	if strings.TrimSpace(info.FirstName) == "" {
		return &ValidationError{Field: "firstName", Message: "first name is required"}
	}
	if strings.TrimSpace(info.LastName) == "" {
		return &ValidationError{Field: "lastName", Message: "last name is required"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(info.Email)) {
		return &ValidationError{Field: "email", Message: "a valid email address is required"}
	}
	if digitCount(info.Phone) < 8 {
		return &ValidationError{Field: "phone", Message: "a valid phone number is required"}
	}
	return nil
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
