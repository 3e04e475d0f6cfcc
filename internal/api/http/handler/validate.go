package handler

import (
	"fmt"
	"net/mail"
	"regexp"
	"unicode"

	"github.com/avoropaev/accounts-server/internal/model"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const (
	usernameMinLen    = 3
	usernameMaxLen    = 20
	passwordMinLen    = 8
	displayNameMaxLen = 50
	bioMaxLen         = 500
)

func validateUsername(username string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return fmt.Errorf("%w: username must be %d to %d characters", model.ErrInvalidInput, usernameMinLen, usernameMaxLen)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username may only contain letters, digits and underscores", model.ErrInvalidInput)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", model.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", model.ErrInvalidInput)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < passwordMinLen {
		return fmt.Errorf("%w: password must be at least %d characters", model.ErrInvalidInput, passwordMinLen)
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password must contain an uppercase letter, a lowercase letter and a digit", model.ErrInvalidInput)
	}
	return nil
}

func validateDisplayName(name string) error {
	if len(name) == 0 || len(name) > displayNameMaxLen {
		return fmt.Errorf("%w: display name must be 1 to %d characters", model.ErrInvalidInput, displayNameMaxLen)
	}
	return nil
}

func validateBio(bio string) error {
	if len(bio) > bioMaxLen {
		return fmt.Errorf("%w: bio must be at most %d characters", model.ErrInvalidInput, bioMaxLen)
	}
	return nil
}
