package sunset

import (
	"time"
)

// Place is where sun events are computed. Location is the zone the events
// are reported in; nil means time.Local.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

// SunEvents alternate sunrise, sunset, one pair per day.
type SunEvents []SunEvent

type SunEvent struct {
	Time  time.Time
	Event Event
}

type Event bool

const (
	Sunrise Event = true
	Sunset  Event = false
)

func (e Event) String() string {
	if e == Sunrise {
		return "sunrise"
	}
	return "sunset"
}
