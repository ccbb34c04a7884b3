package noaa

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const predTimeFormat = "2006-01-02 15:04"

// ErrParse is returned when a prediction field is not in the format NOAA
// documents.
var ErrParse = errors.New("malformed prediction")

// Prediction holds a single tide event prediction.
type Prediction struct {
	// Local time of tide prediction
	Time Time `json:"t"`
	// Height in feet
	Height Height `json:"v"`
	// High or Low tide, "H" or "L" when encoded
	Type Tide `json:"type"`
}

// Verify the custom types can be unmarshaled
var _ json.Unmarshaler = &Time{}
var _ json.Unmarshaler = new(Height)
var _ json.Unmarshaler = new(Tide)

// Predictions is a time series of Prediction.
type Predictions []Prediction

// NOAAResult is the data type returned by the NOAA API. NOAA answers a query
// with no data with a 200 and an error message instead of predictions.
type NOAAResult struct {
	Predictions Predictions `json:"predictions"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// PredictionQuery is used to query tide data at a station for the calendar
// days Begin through End inclusive; see Client.GetPredictions.
type PredictionQuery struct {
	Begin   time.Time
	End     time.Time
	Station Station
}

// Station is a CO-OPS station id.
type Station string

const (
	SantaCruz Station = "9413745"
	// BuddInlet is Dofflemyer Point on Budd Inlet, near Olympia.
	BuddInlet Station = "9446828"
)

// StationInfo is one entry of the station directory.
type StationInfo struct {
	ID    Station `json:"id"`
	Name  string  `json:"name"`
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// Time is the station wall clock of a prediction. NOAA sends no offset, so
// the wall clock is kept in UTC purely as a carrier; only its calendar date
// and clock are meaningful.
type Time time.Time

// ParseTime reads a NOAA "2006-01-02 15:04" timestamp. Single digit fields
// are rejected.
func ParseTime(s string) (time.Time, error) {
	if len(s) != len(predTimeFormat) {
		return time.Time{}, fmt.Errorf("prediction time %q not in fmt %q: %w", s, predTimeFormat, ErrParse)
	}
	parsed, err := time.ParseInLocation(predTimeFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("prediction time %q not in fmt %q: %w: %w", s, predTimeFormat, ErrParse, err)
	}
	return parsed, nil
}

func (t *Time) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("prediction time %q not string: %w: %w", buf, ErrParse, err)
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

func (t Time) String() string {
	return time.Time(t).Format(predTimeFormat)
}

type Height float64

func (h *Height) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("water height %q not string: %w: %w", buf, ErrParse, err)
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("water height %q not a float: %w: %w", s, ErrParse, err)
	}
	*h = Height(parsed)
	return nil
}

type Tide uint

const (
	HighTide Tide = iota
	LowTide
)

func (t *Tide) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("tide %q not a string: %w: %w", buf, ErrParse, err)
	}
	switch s {
	case "H":
		*t = HighTide
	case "L":
		*t = LowTide
	default:
		return fmt.Errorf("invalid tide type %q: %w", s, ErrParse)
	}
	return nil
}

func (t Tide) String() string {
	switch t {
	case HighTide:
		return "H"
	case LowTide:
		return "L"
	default:
		return "invalid"
	}
}

// T is the prediction time as a time.Time.
func (p Prediction) T() time.Time {
	return time.Time(p.Time)
}

func (p Prediction) String() string {
	return fmt.Sprintf("{t: %s, v: %f, type: %s}",
		p.Time.String(),
		p.Height,
		p.Type.String())
}
