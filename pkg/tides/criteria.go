package tides

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spencer-p/lowtide/pkg/sunset"
	"github.com/spencer-p/lowtide/pkg/timetricks"
)

// ErrInvalidCriteria is returned for filter input that cannot be understood.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Weekdays is a set of ISO weekdays, Monday=1 through Sunday=7. Bit n is set
// when day n is a member.
type Weekdays uint8

const (
	NoWeekdays  Weekdays = 0
	AllWeekdays Weekdays = 0b1111_1110
)

// ParseWeekdays reads a string of concatenated day digits such as "1234567"
// or "67". Repeated digits are allowed; an empty string is the empty set.
func ParseWeekdays(s string) (Weekdays, error) {
	var w Weekdays
	for _, r := range s {
		if r < '1' || r > '7' {
			return NoWeekdays, fmt.Errorf("weekdays %q: %q is not a day 1-7: %w", s, r, ErrInvalidCriteria)
		}
		w |= 1 << uint(r-'0')
	}
	return w, nil
}

// Has reports whether ISO weekday day is in the set.
func (w Weekdays) Has(day int) bool {
	return day >= 1 && day <= 7 && w&(1<<uint(day)) != 0
}

func (w Weekdays) String() string {
	var b strings.Builder
	for day := 1; day <= 7; day++ {
		if w.Has(day) {
			fmt.Fprintf(&b, "%d", day)
		}
	}
	return b.String()
}

// Criteria selects tide events. Bounds are inclusive.
type Criteria struct {
	MaxHeight float64
	Weekdays  Weekdays
	Start     timetricks.Clock
	End       timetricks.Clock

	// Daylight, when set, keeps only events between sunrise and sunset there.
	Daylight *sunset.Place
}

// DefaultCriteria keeps events at or below 0 ft on any day at any time.
func DefaultCriteria() Criteria {
	return Criteria{
		MaxHeight: 0,
		Weekdays:  AllWeekdays,
		Start:     timetricks.Midnight,
		End:       timetricks.LastMinute,
	}
}

// NewCriteria builds Criteria from command line shaped input: a weekday digit
// string and "HH:MM" window bounds.
func NewCriteria(maxHeight float64, weekdays, start, end string) (Criteria, error) {
	c := Criteria{MaxHeight: maxHeight}
	var err error
	if c.Weekdays, err = ParseWeekdays(weekdays); err != nil {
		return Criteria{}, err
	}
	if c.Start, err = timetricks.ParseClock(start); err != nil {
		return Criteria{}, fmt.Errorf("start time: %v: %w", err, ErrInvalidCriteria)
	}
	if c.End, err = timetricks.ParseClock(end); err != nil {
		return Criteria{}, fmt.Errorf("end time: %v: %w", err, ErrInvalidCriteria)
	}
	return c, nil
}

func (c Criteria) String() string {
	s := fmt.Sprintf("height <= %.2f ft, weekdays %s, %s-%s", c.MaxHeight, c.Weekdays, c.Start, c.End)
	if c.Daylight != nil {
		s += ", daylight only"
	}
	return s
}
