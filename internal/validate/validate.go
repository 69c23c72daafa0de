// Package validate holds the pure per-question format checks. Validators
// never touch conversation state; on failure the flow engine re-issues the
// same prompt.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	boterrors "hr-intake-bot/internal/common/errors"
)

// PhonePrefix is the only accepted national prefix for free-text numbers.
const PhonePrefix = "+998"

var (
	// Day 1-31, month 1-12, year 1960-2009, "." or "-" separated.
	// Day-of-month is not checked against the month or leap years.
	dateRe = regexp.MustCompile(`^(0?[1-9]|[12][0-9]|3[01])[-.](0?[1-9]|1[012])[-.](19[6-9][0-9]|200[0-9])$`)

	phoneRe = regexp.MustCompile(`^\+998[0-9]{9}$`)

	yearRe = regexp.MustCompile(`^(19|20)[0-9]{2}$`)
)

// ParseFullName accepts any non-empty text after trimming. A known weak
// validator, kept as-is.
func ParseFullName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", boterrors.ErrValidation)
	}
	return name, nil
}

// ParseBirthDate parses dd.mm.yyyy or dd-mm-yyyy with year 1960-2009.
func ParseBirthDate(raw string) (time.Time, error) {
	text := strings.TrimSpace(raw)
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", boterrors.ErrValidation, raw)
	}
	var day, month, year int
	fmt.Sscanf(m[1], "%d", &day)
	fmt.Sscanf(m[2], "%d", &month)
	fmt.Sscanf(m[3], "%d", &year)
	// time.Date normalizes overflow (31.02 becomes 02/03 or 03/03); the
	// regex already bounds the components, matching the original behavior.
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ParsePhone accepts the fixed national prefix plus exactly nine digits.
func ParsePhone(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if !phoneRe.MatchString(text) {
		return "", fmt.Errorf("%w: bad phone %q", boterrors.ErrValidation, raw)
	}
	return text, nil
}

// ParseYear accepts a four-digit year in 19xx or 20xx.
func ParseYear(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if !yearRe.MatchString(text) {
		return "", fmt.Errorf("%w: bad year %q", boterrors.ErrValidation, raw)
	}
	return text, nil
}

// ParseYearRange accepts "YYYY - YYYY" with both years valid. The range is
// not checked for ordering; the end may precede the start. Known limitation,
// preserved.
func ParseYearRange(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	parts := strings.Split(text, " - ")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: bad year range %q", boterrors.ErrValidation, raw)
	}
	for _, part := range parts {
		if !yearRe.MatchString(part) {
			return "", fmt.Errorf("%w: bad year range %q", boterrors.ErrValidation, raw)
		}
	}
	return text, nil
}

// ParseText accepts any non-empty free text after trimming.
func ParseText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("%w: empty text", boterrors.ErrValidation)
	}
	return text, nil
}
