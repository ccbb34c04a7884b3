package tides

import (
	"time"

	"github.com/spencer-p/lowtide/pkg/noaa"
	"github.com/spencer-p/lowtide/pkg/sunset"
	"github.com/spencer-p/lowtide/pkg/timetricks"
)

const day = 24 * time.Hour

// Filter applies the height, weekday and time of day predicates in that
// order, then the daylight predicate if requested. Input order is kept.
func Filter(preds noaa.Predictions, c Criteria) noaa.Predictions {
	preds = ByHeight(preds, c.MaxHeight)
	preds = ByWeekday(preds, c.Weekdays)
	preds = ByTime(preds, c.Start, c.End)
	if c.Daylight != nil {
		preds = ByDaylight(preds, *c.Daylight)
	}
	return preds
}

// ByHeight keeps events at or below ceiling feet. There is no lower bound.
func ByHeight(preds noaa.Predictions, ceiling float64) noaa.Predictions {
	return keep(preds, func(p noaa.Prediction) bool {
		return float64(p.Height) <= ceiling
	})
}

// ByWeekday keeps events whose local calendar day is in days.
func ByWeekday(preds noaa.Predictions, days Weekdays) noaa.Predictions {
	return keep(preds, func(p noaa.Prediction) bool {
		return days.Has(timetricks.ISOWeekday(p.T()))
	})
}

// ByTime keeps events with start <= time of day <= end. An inverted window
// keeps nothing; windows do not wrap past midnight.
func ByTime(preds noaa.Predictions, start, end timetricks.Clock) noaa.Predictions {
	return keep(preds, func(p noaa.Prediction) bool {
		c := timetricks.ClockOf(p.T())
		return start <= c && c <= end
	})
}

// ByDaylight keeps events between sunrise and sunset, inclusive, at place.
// Prediction wall clocks are read as times in place.Location.
func ByDaylight(preds noaa.Predictions, place sunset.Place) noaa.Predictions {
	if len(preds) == 0 {
		return noaa.Predictions{}
	}
	if place.Location == nil {
		place.Location = time.Local
	}

	first, last := inLocation(preds[0].T(), place.Location), inLocation(preds[0].T(), place.Location)
	for _, p := range preds[1:] {
		t := inLocation(p.T(), place.Location)
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	start := timetricks.TrimClock(first)
	days := sunset.GetSunEvents(start, last.Sub(start)+day, place).Daylight()

	return keep(preds, func(p noaa.Prediction) bool {
		t := inLocation(p.T(), place.Location)
		span, ok := days[timetricks.UniqueDay(t)]
		return ok && !t.Before(span[0]) && !t.After(span[1])
	})
}

// inLocation reinterprets the wall clock of t in loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

func keep(preds noaa.Predictions, pred func(noaa.Prediction) bool) noaa.Predictions {
	result := noaa.Predictions{}
	for _, p := range preds {
		if pred(p) {
			result = append(result, p)
		}
	}
	return result
}
