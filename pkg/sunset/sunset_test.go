package sunset

import (
	"testing"
	"time"

	"github.com/spencer-p/lowtide/pkg/timetricks"
)

func santaCruz(t *testing.T) Place {
	t.Helper()
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	return Place{Lat: 36.9741, Long: -122.0308, Location: la}
}

func TestGetSunEvents(t *testing.T) {
	place := santaCruz(t)
	start := time.Date(2020, time.October, 25, 0, 0, 0, 0, place.Location)
	dur := 3 * 24 * time.Hour
	events := GetSunEvents(start, dur, place)
	if len(events) != 6 {
		t.Fatalf("got %d events, want 6", len(events))
	}

	for i := 0; i < len(events); i += 2 {
		rise, set := events[i], events[i+1]
		day := start.AddDate(0, 0, i/2)
		if rise.Event != Sunrise || set.Event != Sunset {
			t.Errorf("events %d, %d are %s, %s", i, i+1, rise.Event, set.Event)
		}
		if !timetricks.SameDay(rise.Time, day) || !timetricks.SameDay(set.Time, day) {
			t.Errorf("day %d: %s and %s not on %s", i/2, rise.Time, set.Time, day.Format("Jan 2"))
		}
		// Late October in Santa Cruz: sunrise around 7:30 and sunset around 6:15.
		if h := rise.Time.Hour(); h != 7 {
			t.Errorf("sunrise %s not in the 7 o'clock hour", rise.Time)
		}
		if h := set.Time.Hour(); h != 18 {
			t.Errorf("sunset %s not in the 6 o'clock hour", set.Time)
		}
	}
}

func TestDaylight(t *testing.T) {
	place := santaCruz(t)
	start := time.Date(2020, time.October, 25, 0, 0, 0, 0, place.Location)
	days := GetSunEvents(start, 48*time.Hour, place).Daylight()
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	span, ok := days["20201026"]
	if !ok {
		t.Fatalf("missing Oct 26 in %v", days)
	}
	if !span[0].Before(span[1]) {
		t.Errorf("sunrise %v not before sunset %v", span[0], span[1])
	}
}
