package util

import (
	"errors"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// passwordRules are checked in order; the first one that fails is reported.
var passwordRules = []struct {
	re  *regexp.Regexp
	msg string
}{
	{regexp.MustCompile("[a-z]"), "password needs a lowercase letter"},
	{regexp.MustCompile("[A-Z]"), "password needs an uppercase letter"},
	{regexp.MustCompile("[0-9]"), "password needs a digit"},
	{regexp.MustCompile(`[^A-Za-z0-9]`), "password needs a special character"},
}

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckPassword explains why password is too weak, or returns nil.
func CheckPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	for _, rule := range passwordRules {
		if !rule.re.MatchString(password) {
			return errors.New(rule.msg)
		}
	}
	return nil
}

func ValidatePassword(password string) bool {
	return CheckPassword(password) == nil
}
