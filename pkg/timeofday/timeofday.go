// Package timeofday converts between wall-clock labels ("HH:MM", "YYYY-MM-DD")
// and the minute offsets and instants the booking lifecycle computes with.
package timeofday

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60

	// EndOfDayLabel is how minute 1440 is displayed: midnight, rolled over
	// into the next day.
	EndOfDayLabel = "00:00+"
	endOfDayInput = "24:00"

	DateLayout = "2006-01-02"

	looseDateLayout = "2006-1-2"
)

var (
	ErrMalformedClock = errors.New("malformed time of day")
	ErrMalformedDate  = errors.New("malformed date")

	clockRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseClock parses "H:MM" or "HH:MM" into minutes since midnight.
// "24:00" is accepted and yields MinutesPerDay.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == endOfDayInput {
		return MinutesPerDay, nil
	}

	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	return hh*60 + mm, nil
}

// ParseEnd is ParseClock that also accepts the EndOfDayLabel written by
// FormatClock.
func ParseEnd(s string) (int, error) {
	if strings.TrimSpace(s) == EndOfDayLabel {
		return MinutesPerDay, nil
	}
	return ParseClock(s)
}

// FormatClock renders minutes since midnight as "HH:MM". MinutesPerDay
// renders as EndOfDayLabel.
func FormatClock(minutes int) string {
	if minutes == MinutesPerDay {
		return EndOfDayLabel
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a calendar date label at midnight in loc. Both "-" and "/"
// separators are accepted.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	t, err := time.ParseInLocation(DateLayout, normalized, loc)
	if err == nil {
		return t, nil
	}
	// Older records may carry unpadded month and day ("2024-6-1").
	t, err = time.ParseInLocation(looseDateLayout, normalized, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}

// IsDate reports whether s is a canonical "YYYY-MM-DD" label.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// At combines a date label with a minute offset into an instant in loc.
// Minute 1440 is midnight at the end of that date.
func At(date string, minutes int, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, minutes, 0, 0, loc), nil
}

// Today returns the calendar date of now as seen in loc.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}

// Horizon returns the consecutive dates starting today, days long.
func Horizon(now time.Time, loc *time.Location, days int) []string {
	local := now.In(loc)
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, time.Date(local.Year(), local.Month(), local.Day()+i, 0, 0, 0, 0, loc).Format(DateLayout))
	}
	return dates
}
