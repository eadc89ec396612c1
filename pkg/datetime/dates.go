// Package datetime provides date utility functions.
package datetime

import "time"

// DateLayout is the format used for dates in configuration and output.
const DateLayout = "2006-01-02"

// MustParseTime parses a date string using the given layout and panics on
// error. This is intended for use in tests where the date string is known to
// be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// OffsetDays returns the date offset by the given number of days.
func OffsetDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// OffsetMonths returns the date offset by the given number of months.
func OffsetMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate, secondDate time.Time) bool {
	return firstDate.Before(secondDate)
}
