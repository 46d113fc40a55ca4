// Package validation provides the pure field checks used by the search form
// and the dispatcher. All functions are total: invalid input is a normal
// return value.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// 1–3 letters, optional dash, 2–4 digits, optional dash, 1–3 letters,
	// or 2–4 digits followed by 1–3 letters. Latin and Georgian (Mkhedruli) letters.
	carPlatePattern   = regexp.MustCompile(`^[A-Za-zა-ჰ]{1,3}-?[0-9]{2,4}-?[A-Za-zა-ჰ]{1,3}$|^[0-9]{2,4}[A-Za-zა-ჰ]{1,3}$`)
	personalIDPattern = regexp.MustCompile(`^[0-9]{11}$`)
)

const (
	minBirthYear = 1900
	// BirthDateSeparator is the separator used on the wire.
	BirthDateSeparator = '.'
)

// ValidateCarPlate reports whether s is a well-formed Georgian plate number.
func ValidateCarPlate(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	return carPlatePattern.MatchString(trimmed)
}

// ValidatePersonalID reports whether s is an 11-digit Georgian personal number.
func ValidatePersonalID(s string) bool {
	return personalIDPattern.MatchString(strings.TrimSpace(s))
}

// Reason names why a birth date was rejected. The value doubles as the
// message catalog key.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonMissing         Reason = "validation.birthDateRequired"
	ReasonFormat          Reason = "validation.birthDateFormat"
	ReasonMonth           Reason = "validation.birthDateMonth"
	ReasonDay             Reason = "validation.birthDateDay"
	ReasonYear            Reason = "validation.birthDateYear"
	ReasonDayExceedsMonth Reason = "validation.birthDateDayExceedsMonth"
)

// BirthDateResult is the outcome of ValidateBirthDate.
type BirthDateResult struct {
	IsValid bool
	Reason  Reason
	Day     int
	Month   int
	Year    int
}

// ValidateBirthDate checks s against the current year.
func ValidateBirthDate(s string) BirthDateResult {
	return ValidateBirthDateAt(s, time.Now())
}

// ValidateBirthDateAt checks s as DD/MM/YYYY or DD.MM.YYYY. Both separators
// must be the same. now bounds the year from above.
func ValidateBirthDateAt(s string, now time.Time) BirthDateResult {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return BirthDateResult{Reason: ReasonMissing}
	}

	day, month, year, ok := splitDate(trimmed)
	if !ok {
		return BirthDateResult{Reason: ReasonFormat}
	}

	res := BirthDateResult{Day: day, Month: month, Year: year}
	switch {
	case month < 1 || month > 12:
		res.Reason = ReasonMonth
	case day < 1 || day > 31:
		res.Reason = ReasonDay
	case year < minBirthYear || year > now.Year():
		res.Reason = ReasonYear
	case day > DaysInMonth(month, year):
		res.Reason = ReasonDayExceedsMonth
	default:
		res.IsValid = true
	}
	return res
}

// NormalizeBirthDate rewrites a valid birth date with the wire separator.
// Invalid input is returned trimmed but otherwise unchanged.
func NormalizeBirthDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if _, _, _, ok := splitDate(trimmed); !ok {
		return trimmed
	}
	b := []byte(trimmed)
	b[2], b[5] = BirthDateSeparator, BirthDateSeparator
	return string(b)
}

// DaysInMonth returns the number of days in month of year, honouring leap years.
func DaysInMonth(month, year int) int {
	switch month {
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func splitDate(s string) (day, month, year int, ok bool) {
	if len(s) != 10 {
		return 0, 0, 0, false
	}
	sep := s[2]
	if (sep != '/' && sep != '.') || s[5] != sep {
		return 0, 0, 0, false
	}
	if !allDigits(s[0:2]) || !allDigits(s[3:5]) || !allDigits(s[6:10]) {
		return 0, 0, 0, false
	}
	day, _ = strconv.Atoi(s[0:2])
	month, _ = strconv.Atoi(s[3:5])
	year, _ = strconv.Atoi(s[6:10])
	return day, month, year, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
