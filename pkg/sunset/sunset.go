package sunset

import (
	"math"
	"time"

	"github.com/spencer-p/lowtide/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// maxAlign bounds how many days GetSunEvents will step to line the sunrise
// package up with the starting day.
const maxAlign = 3

// GetSunEvents returns a list of ordered sun events from the starting time to
// the end time in the given place. The first result will always be a sunrise.
// start should be expressed in place.Location.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, start)

	// Make sure we start with the correct day
	// The sunrise package is not very clean with its dates.
	for i := 0; i < maxAlign && !timetricks.SameDay(start, s.Sunrise()); i++ {
		if s.Sunrise().Before(start) {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, numDays*2)
	for i := 0; i < numDays*2; i += 2 {
		ret[i] = SunEvent{s.Sunrise(), Sunrise}
		ret[i+1] = SunEvent{s.Sunset(), Sunset}
		s.AddDays(1)
	}
	return ret
}

// Daylight maps each calendar day (see timetricks.UniqueDay) to its sunrise
// and sunset.
func (events SunEvents) Daylight() map[string][2]time.Time {
	days := make(map[string][2]time.Time, len(events)/2)
	for i := 0; i+1 < len(events); i += 2 {
		rise, set := events[i], events[i+1]
		if rise.Event != Sunrise || set.Event != Sunset {
			continue
		}
		days[timetricks.UniqueDay(rise.Time)] = [2]time.Time{rise.Time, set.Time}
	}
	return days
}
