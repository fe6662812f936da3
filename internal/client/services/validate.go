package services

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
)

// ValidateRegistration checks the sign-up form before anything is sent.
func ValidateRegistration(r models.Registration) error {
	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != strings.TrimSpace(r.Email) {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if n := utf8.RuneCountInString(r.Username); n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, minUsernameLen, maxUsernameLen)
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	if r.Password != r.PasswordConfirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}

func validateCredentials(c models.Credentials) error {
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	return nil
}
