package validation

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"police_fines/internal/fines/transport"
)

// FormatCarNumber trims and upper-cases a plate. Georgian letters have no
// plate-relevant upper case and are left as typed.
func FormatCarNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.In(r, unicode.Georgian) {
			return r
		}
		return unicode.ToUpper(r)
	}, strings.TrimSpace(s))
}

// HasSearchQuery reports whether any free-text field of the form has content.
func HasSearchQuery(form transport.SearchFormData) bool {
	for _, field := range []string{form.ReceiptNumber, form.MerchantName, form.SearchQuery, form.CarPlate} {
		if strings.TrimSpace(field) != "" {
			return true
		}
	}
	return false
}

// FormatCurrency renders an amount in lari, e.g. "1000₾" or "12.5₾".
func FormatCurrency(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + "₾"
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders an API date as DD.MM.YYYY. Empty input yields "";
// input in an unknown layout is returned unchanged.
func FormatDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("02.01.2006")
		}
	}
	return trimmed
}
