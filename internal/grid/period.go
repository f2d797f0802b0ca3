package grid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"turnical/internal/model"
)

// monthAbbrevs maps the Italian three-letter month abbreviations used in
// printed schedule headers to calendar months.
var monthAbbrevs = map[string]time.Month{
	"gen": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"mag": time.May,
	"giu": time.June,
	"lug": time.July,
	"ago": time.August,
	"set": time.September,
	"ott": time.October,
	"nov": time.November,
	"dic": time.December,
}

// periodRe matches a month abbreviation (with optional trailing letters,
// e.g. "gennaio"), an optional separator, then a 4- or 2-digit year. A bare
// single digit is not a year.
var periodRe = regexp.MustCompile(`(?i)(gen|feb|mar|apr|mag|giu|lug|ago|set|ott|nov|dic)[a-zA-Z]*[-_\s]?(\d{4}|\d{2})`)

// DetectPeriod scans the header row's cells left to right for a month/year
// hint and resolves the first match into a Period. It returns
// ErrPeriodNotFound when no cell matches.
func DetectPeriod(headerRow []string) (model.Period, error) {
	for _, cell := range headerRow {
		if cell == "" {
			continue
		}
		m := periodRe.FindStringSubmatch(cell)
		if m == nil {
			continue
		}

		month, ok := monthAbbrevs[strings.ToLower(m[1])]
		if !ok {
			continue
		}

		yearText := m[2]
		if len(yearText) == 2 {
			yearText = "20" + yearText
		}
		year, err := strconv.Atoi(yearText)
		if err != nil {
			// Unreachable given the regex, but keep the scan going.
			continue
		}

		return model.Period{
			Month: month,
			Year:  year,
			Days:  daysInMonth(year, month),
		}, nil
	}

	return model.Period{}, fmt.Errorf("header scan: %w", ErrPeriodNotFound)
}

// daysInMonth returns the day count of (year, month) under Gregorian rules.
// Day 0 of the following month normalizes to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
