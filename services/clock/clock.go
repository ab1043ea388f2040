// Package clock implements the 12-hour wall-clock arithmetic behind
// estimated service times and suggested arrival times. All functions are
// pure and total over well-formed input.
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFormat is returned when a clock string is not "HH:MM AM|PM".
var ErrInvalidFormat = errors.New(`invalid time format, expected "HH:MM AM|PM"`)

const minutesPerDay = 24 * 60

// Time is a time of day in 24-hour form.
type Time struct {
	Hour   int
	Minute int
}

// Parse parses a 12-hour clock string of the form "HH:MM AM|PM".
func Parse(s string) (Time, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return Time{}, ErrInvalidFormat
	}

	hm := strings.Split(fields[0], ":")
	if len(hm) != 2 {
		return Time{}, ErrInvalidFormat
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return Time{}, ErrInvalidFormat
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil {
		return Time{}, ErrInvalidFormat
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return Time{}, ErrInvalidFormat
	}

	switch strings.ToUpper(fields[1]) {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	default:
		return Time{}, ErrInvalidFormat
	}
	return Time{Hour: hour, Minute: minute}, nil
}

// Format renders t as a canonical two-digit-padded 12-hour clock string.
func (t Time) Format() string {
	modifier := "AM"
	if t.Hour >= 12 {
		modifier = "PM"
	}
	hour := t.Hour
	switch {
	case hour > 12:
		hour -= 12
	case hour == 0:
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, t.Minute, modifier)
}

// EstimateServiceTime projects the call time for the given 1-based queue
// position: slotTime plus (position-1)*serviceMinutes, wrapping across
// midnight.
func EstimateServiceTime(slotTime string, position, serviceMinutes int) (string, error) {
	t, err := Parse(slotTime)
	if err != nil {
		return "", err
	}
	total := t.Hour*60 + t.Minute + (position-1)*serviceMinutes
	total %= minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return Time{Hour: total / 60, Minute: total % 60}.Format(), nil
}

// SuggestedArrival subtracts leadMinutes from an estimated time. Underflow
// past midnight wraps the hour back to 23:xx; the calendar date is not
// rolled.
func SuggestedArrival(estimated string, leadMinutes int) (string, error) {
	t, err := Parse(estimated)
	if err != nil {
		return "", err
	}
	total := t.Hour*60 + t.Minute - leadMinutes
	total %= minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return Time{Hour: total / 60, Minute: total % 60}.Format(), nil
}

// NormalizeDate returns the canonical "YYYY-MM-DD" form of a slot date. It
// accepts the canonical form and the legacy "D_M_YYYY" form still present
// in records created before the key format was unified; anything else is
// rejected. Only normalized keys ever reach the slot map.
func NormalizeDate(d string) (string, error) {
	if t, err := time.Parse("2006-01-02", d); err == nil {
		return t.Format("2006-01-02"), nil
	}

	parts := strings.Split(d, "_")
	if len(parts) == 3 {
		day, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		year, err3 := strconv.Atoi(parts[2])
		if err1 == nil && err2 == nil && err3 == nil {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			// time.Date normalizes out-of-range components, so verify the
			// round trip instead of trusting it.
			if t.Year() == year && int(t.Month()) == month && t.Day() == day {
				return t.Format("2006-01-02"), nil
			}
		}
	}
	return "", fmt.Errorf("unrecognized slot date %q", d)
}

// WithinWindow reports whether a canonical date lies in [today,
// today+windowDays], both inclusive, relative to now's calendar day.
func WithinWindow(date string, now time.Time, windowDays int) bool {
	d, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	limit := today.AddDate(0, 0, windowDays)
	return !d.Before(today) && !d.After(limit)
}
