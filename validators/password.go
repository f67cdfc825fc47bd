package validators

import (
	"errors"
	"strings"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordEmpty    = errors.New("no password provided")
)

// PasswordValidator checks length bounds only. The password is stored
// and verified exactly as submitted, so no trimming happens here beyond
// rejecting all-whitespace input.
func PasswordValidator(p string) error {
	if strings.TrimSpace(p) == "" {
		return ErrPasswordEmpty
	}

	if len(p) < 8 {
		return ErrPasswordTooShort
	}

	if len(p) > 255 {
		return ErrPasswordTooLong
	}

	return nil
}
