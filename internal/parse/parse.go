// Package parse holds the low-level field parsing helpers shared by the
// cleaning and standardization stages.
//
// Parsing semantics:
//   - Date accepts a fixed set of layouts (ISO first, then common US and
//     month-name forms) and truncates any time component to a calendar date
//     at midnight UTC. Ambiguous numeric dates resolve month-first.
//   - Number strips thousands separators, currency symbols, and whitespace
//     before strconv.ParseFloat.
//   - Failures are reported via the ok bool, never as errors; callers absorb
//     unparseable cells into nil values.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordChars  = regexp.MustCompile(`[^\w_]`)
)

// NormalizeColumn maps an arbitrary source column name onto its normalized
// form: trimmed, lowercased, runs of whitespace collapsed to a single
// underscore, and every remaining non-word character stripped. The cleaner
// applies it to headers and the standardizer applies it to both headers and
// candidate-name lists, so matching is case-, whitespace-, and
// punctuation-insensitive.
func NormalizeColumn(c string) string {
	c = strings.TrimSpace(c)
	c = whitespaceRun.ReplaceAllString(c, "_")
	c = nonWordChars.ReplaceAllString(c, "")
	return strings.ToLower(c)
}

// dateLayouts is walked in order; first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006.01.02",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// IsNullLike reports whether s is one of the values treated as a missing
// cell: empty after trimming, or the literal strings "nan"/"none"/"null" in
// any casing (artifacts of stringified missing values in upstream extracts).
func IsNullLike(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return true
	}
	return false
}

// Date parses s permissively into a calendar date (midnight UTC).
// Null-like or unparseable input returns (zero, false).
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if IsNullLike(s) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Number parses s as a decimal number after stripping common noise:
// thousands separators, dollar signs, and interior whitespace.
// Null-like or unparseable input returns (0, false).
func Number(s string) (float64, bool) {
	if IsNullLike(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
