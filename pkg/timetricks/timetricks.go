package timetricks

import (
	"fmt"
	"time"
)

const (
	dayFormat   = "20060102"
	clockFormat = "15:04"
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

// TrimClock returns midnight at the start of t's calendar day in t's location.
func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// UniqueDay returns a string representation of t that is unique by the day.
// For instance, two seperate times on the same calendar day return identical
// strings.
func UniqueDay(t time.Time) string {
	return t.Format(dayFormat)
}

// ISOWeekday numbers the days of the week from Monday=1 to Sunday=7.
func ISOWeekday(t time.Time) int {
	if wd := t.Weekday(); wd != time.Sunday {
		return int(wd)
	}
	return 7
}

// Clock is a wall clock time of day in minutes after midnight.
type Clock int

const (
	Midnight   Clock = 0
	LastMinute Clock = 23*60 + 59
)

// ClockOf returns the wall clock of t, dropping seconds.
func ClockOf(t time.Time) Clock {
	h, m, _ := t.Clock()
	return Clock(h*60 + m)
}

// ParseClock reads a 24-hour "HH:MM" time of day. Both fields must be two
// digits.
func ParseClock(s string) (Clock, error) {
	if len(s) != len(clockFormat) {
		return 0, fmt.Errorf("time of day %q not in fmt %q", s, clockFormat)
	}
	parsed, err := time.Parse(clockFormat, s)
	if err != nil {
		return 0, fmt.Errorf("time of day %q not in fmt %q: %w", s, clockFormat, err)
	}
	return ClockOf(parsed), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}
