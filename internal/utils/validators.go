package utils

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"task_manager/internal/model"
)

const (
	MinIdentificationLength = 8
	MaxIdentificationLength = 20
	MinNameLength           = 2
	MaxNameLength           = 100
	MinPasswordLength       = 8
	MaxTaskTitleLength      = 100
	MinDescriptionLength    = 10
)

var (
	identificationRe = regexp.MustCompile(`^\d{8,20}$`)
	upperRe          = regexp.MustCompile(`[A-Z]`)
	lowerRe          = regexp.MustCompile(`[a-z]`)
	digitRe          = regexp.MustCompile(`\d`)
)

// ValidateIdentification reports whether s is 8 to 20 ASCII digits and nothing else
func ValidateIdentification(s string) bool {
	return s != "" && identificationRe.MatchString(s)
}

// ValidateName accepts first and last names of 2 to 100 characters
func ValidateName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinNameLength && n <= MaxNameLength
}

// ValidatePassword requires 8+ characters with at least one upper case letter,
// one lower case letter and one digit.
func ValidatePassword(s string) bool {
	if s == "" || utf8.RuneCountInString(s) < MinPasswordLength {
		return false
	}
	return upperRe.MatchString(s) && lowerRe.MatchString(s) && digitRe.MatchString(s)
}

// ValidateFutureDate parses a YYYY-MM-DD string and rejects days before today
// (server local date). The parsed day is returned on success.
func ValidateFutureDate(s string) (time.Time, bool) {
	return ValidateFutureDateAt(s, time.Now())
}

// ValidateFutureDateAt is ValidateFutureDate with an explicit clock
func ValidateFutureDateAt(s string, now time.Time) (time.Time, bool) {
	d, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	today := model.NewDate(now)
	if d.Before(today.Time) {
		return time.Time{}, false
	}
	return d.Time, true
}

// ValidateTaskTitle accepts 1 to 100 characters, blank titles are rejected
func ValidateTaskTitle(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return utf8.RuneCountInString(s) <= MaxTaskTitleLength
}

// ValidateTaskDescription accepts an empty description or one of 10+ characters
func ValidateTaskDescription(s string) bool {
	return s == "" || utf8.RuneCountInString(s) >= MinDescriptionLength
}
