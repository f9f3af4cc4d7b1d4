// Package period computes calendar windows (day, ISO week, month) and parses
// the date formats accepted by the API.
package period

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a value is neither RFC 3339 nor YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// UTC returns the window with both bounds converted to UTC.
func (w Window) UTC() Window {
	return Window{Start: w.Start.UTC(), End: w.End.UTC()}
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Day returns the calendar day containing t.
func Day(t time.Time) Window {
	start := StartOfDay(t)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Week returns the ISO week (Monday through Sunday) containing t.
func Week(t time.Time) Window {
	offset := (int(t.Weekday()) + 6) % 7
	start := StartOfDay(t).AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// Month returns the calendar month containing t.
func Month(t time.Time) Window {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. Plain
// dates are midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// SameOrBeforeDay reports whether a's calendar day in loc is not after b's.
func SameOrBeforeDay(a, b time.Time, loc *time.Location) bool {
	return !StartOfDay(a.In(loc)).After(StartOfDay(b.In(loc)))
}
