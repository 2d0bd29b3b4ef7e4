// Package dates normalizes the free-text date strings produced by scrapers
// into ISO calendar dates. It works at day granularity: clock times,
// timezones and non-English month names are out of scope.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// rangeSeparator marks a "<start> - <end>" date range. Titles containing
// the same substring are a known, accepted ambiguity.
const rangeSeparator = " - "

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	clockTimeRe     = regexp.MustCompile(`(?i)\b\d{1,2}([.:][0-5]\d)?\s*(am|pm)\b`)
)

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var weekdays = map[string]bool{
	"monday": true, "mon": true,
	"tuesday": true, "tue": true,
	"wednesday": true, "wed": true,
	"thursday": true, "thu": true,
	"friday": true, "fri": true,
	"saturday": true, "sat": true,
	"sunday": true, "sun": true,
}

// Parse extracts ISO dates from a raw scraped date string. A date range
// expands into one entry per calendar day, inclusive of both boundaries.
// Unparseable input yields an empty slice, never an error: the caller
// decides whether a record without a date is dropped or kept.
func Parse(raw string) []string {
	return parseAt(raw, time.Now().UTC())
}

func parseAt(raw string, now time.Time) []string {
	cleaned := stripNoise(raw)

	if strings.Contains(cleaned, rangeSeparator) {
		return parseRange(cleaned, now)
	}

	day, ok := parseFragment(cleaned, now.Year())
	if !ok {
		return nil
	}
	return []string{day.Format(isoDate)}
}

// parseRange resolves "<start> - <end>". The end fragment is parsed first;
// a bare-number start like "12" in "12 - 15 March 2026" inherits the end's
// month and year.
func parseRange(cleaned string, now time.Time) []string {
	parts := strings.SplitN(cleaned, rangeSeparator, 2)
	end, ok := parseFragment(parts[1], now.Year())
	if !ok {
		return nil
	}

	var start time.Time
	if containsMonth(parts[0]) {
		start, ok = parseFragment(parts[0], end.Year())
	} else {
		var day int
		day, ok = firstDayNumber(parts[0])
		if ok {
			start, ok = makeDate(end.Year(), end.Month(), day)
		}
	}
	if !ok || start.After(end) {
		return nil
	}

	return expand(start, end)
}

// expand walks forward one UTC day at a time, inclusive of both ends.
func expand(start, end time.Time) []string {
	var out []string
	for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
		out = append(out, t.Format(isoDate))
	}
	return out
}

// parseFragment resolves a single date fragment such as "Wed 5 March 2026".
// A fragment missing its day or month is unparseable; a missing year takes
// the fallback.
func parseFragment(text string, fallbackYear int) (time.Time, bool) {
	tokens := tokenize(text)
	if len(tokens) > 0 && weekdays[tokens[0]] {
		tokens = tokens[1:]
	}

	var day, year int
	var month time.Month
	for _, tok := range tokens {
		switch {
		case isDigits(tok, 4):
			year, _ = strconv.Atoi(tok)
		case isDigits(tok, 1) || isDigits(tok, 2):
			if day == 0 {
				day, _ = strconv.Atoi(tok)
			}
		default:
			if m, ok := months[tok]; ok {
				month = m
			}
		}
	}

	if day == 0 || month == 0 {
		return time.Time{}, false
	}
	if year == 0 {
		year = fallbackYear
	}
	return makeDate(year, month, day)
}

// makeDate rejects impossible combinations like 31 February, which
// time.Date would silently normalize into the next month.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// stripNoise removes parenthetical annotations and clock-time fragments,
// which are noise at day granularity.
func stripNoise(raw string) string {
	cleaned := parentheticalRe.ReplaceAllString(raw, "")
	return clockTimeRe.ReplaceAllString(cleaned, "")
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.ToLower(strings.Trim(f, "."))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func containsMonth(text string) bool {
	for _, tok := range tokenize(text) {
		if _, ok := months[tok]; ok {
			return true
		}
	}
	return false
}

// firstDayNumber extracts the first 1-2 digit token from a bare range start.
func firstDayNumber(text string) (int, bool) {
	tokens := tokenize(text)
	if len(tokens) > 0 && weekdays[tokens[0]] {
		tokens = tokens[1:]
	}
	for _, tok := range tokens {
		if isDigits(tok, 1) || isDigits(tok, 2) {
			n, _ := strconv.Atoi(tok)
			return n, true
		}
	}
	return 0, false
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
