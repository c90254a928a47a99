package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	errEmpty     = errors.New("empty value")
	errNotFinite = errors.New("not a finite number")
	errNoTerms   = errors.New("no indexable terms")
	errLayout    = errors.New("unrecognized date layout")
)

// DateLayouts are tried in order by ParseDate.
var DateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"02 Jan 2006",
}

// ParseInteger parses a base-10 signed integer.
func ParseInteger(text string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(text), 10, 64)
}

// ParseUnsigned parses a base-10 unsigned integer.
func ParseUnsigned(text string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(text), 10, 64)
}

// ParseFloat parses a finite float. Negative zero becomes zero.
func ParseFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	if f == 0 {
		f = 0
	}
	return f, nil
}

// ParseBool accepts the forms strconv.ParseBool does.
func ParseBool(text string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(text))
}

// ParseDate parses a date in one of DateLayouts and truncates it to the UTC day.
func ParseDate(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", errLayout, s)
}

// ParseKeyword trims and lowercases. Empty keywords are rejected.
func ParseKeyword(text string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return "", errEmpty
	}
	return s, nil
}

// ParseFulltext trims. Blank text is rejected.
func ParseFulltext(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", errEmpty
	}
	return s, nil
}

// Parse analyzes text into terms. Text without terms is rejected.
func (a Analyzer) Parse(text string) ([]string, error) {
	terms := a.Analyze(text)
	if len(terms) == 0 {
		return nil, errNoTerms
	}
	return terms, nil
}
