// Package normalize converts locale-ambiguous amount and date cells into
// canonical values.
package normalize

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnparsedDate is returned when no known layout matches a date cell.
var ErrUnparsedDate = errors.New("unparsed date")

var (
	drMarker   = regexp.MustCompile(`(?i)\bDR\b`)
	crMarker   = regexp.MustCompile(`(?i)\bCR\b`)
	numberJunk = regexp.MustCompile(`[^0-9.,\-]`)
	european   = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})*(,\d{1,2})?$`)
)

// ParseAmount parses a bank amount cell into a signed decimal. Blank or
// non-numeric input yields zero. A DR marker forces a debit and a CR
// marker forces a credit, overriding any sign in the number itself.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	// (50.00) is accounting notation for -50.00.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	isDR := drMarker.MatchString(s)
	isCR := crMarker.MatchString(s)
	s = drMarker.ReplaceAllString(s, "")
	s = crMarker.ReplaceAllString(s, "")

	s = numberJunk.ReplaceAllString(s, "")
	if european.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	switch {
	case isDR && v.IsPositive():
		v = v.Neg()
	case isCR && v.IsNegative():
		v = v.Neg()
	}
	return v
}

// dateLayouts are tried in order; day-first wins over month-first for
// ambiguous values like 03/04/2024.
var dateLayouts = []string{
	"02/01/2006",
	"01/02/2006",
	"2006-01-02",
	"02-01-2006",
	"2/1/2006",
	"02 Jan 2006",
}

// ParseDate parses a date cell using the first matching layout and returns
// UTC midnight of that calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrUnparsedDate
}

// ParseDateOr parses s, returning fallback truncated to a calendar date when
// nothing matches.
func ParseDateOr(s string, fallback time.Time) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		y, m, dd := fallback.Date()
		return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	}
	return d
}
