// Package report renders lookup results for people and for programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/spencer-p/lowtide/pkg/lowtide"
)

const dateFormat = "2006-01-02"

// Formats understood by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Tide is one rendered tide event.
type Tide struct {
	Time   string  `json:"t" yaml:"t"`
	Height float64 `json:"v" yaml:"v"`
	Type   string  `json:"type" yaml:"type"`
}

// Station is the rendered nearest station.
type Station struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Latitude      float64 `json:"lat" yaml:"lat"`
	Longitude     float64 `json:"lng" yaml:"lng"`
	DistanceMiles float64 `json:"distance_miles" yaml:"distance_miles"`
}

// Report is the machine readable form of a lookup.
type Report struct {
	Zip       string  `json:"zip" yaml:"zip"`
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lng" yaml:"lng"`
	Station   Station `json:"station" yaml:"station"`
	Begin     string  `json:"begin_date" yaml:"begin_date"`
	End       string  `json:"end_date" yaml:"end_date"`
	Criteria  string  `json:"criteria" yaml:"criteria"`
	Tides     []Tide  `json:"tides" yaml:"tides"`
}

// New converts a lookup result.
func New(res *lowtide.Result) Report {
	r := Report{
		Zip:       fmt.Sprintf("%05d", res.Zip),
		Latitude:  res.Lat,
		Longitude: res.Lon,
		Station: Station{
			ID:            string(res.Station.ID),
			Name:          res.Station.Name,
			Latitude:      res.Station.Lat,
			Longitude:     res.Station.Lon,
			DistanceMiles: res.Station.DistanceMiles,
		},
		Begin:    res.Begin.Format(dateFormat),
		End:      res.End.Format(dateFormat),
		Criteria: res.Criteria.String(),
		Tides:    make([]Tide, 0, len(res.Tides)),
	}
	for _, p := range res.Tides {
		r.Tides = append(r.Tides, Tide{
			Time:   p.Time.String(),
			Height: float64(p.Height),
			Type:   p.Type.String(),
		})
	}
	return r
}

// Write renders res in format.
func Write(w io.Writer, format string, res *lowtide.Result) error {
	switch format {
	case FormatText, "":
		return Text(w, res)
	case FormatJSON:
		return JSON(w, res)
	case FormatYAML:
		return YAML(w, res)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Text writes a short header followed by one tab aligned row per tide.
func Text(w io.Writer, res *lowtide.Result) error {
	r := New(res)
	fmt.Fprintf(w, "zip %s (%.4f, %.4f)\n", r.Zip, r.Latitude, r.Longitude)
	fmt.Fprintf(w, "station %s %s, %.1f mi\n", r.Station.ID, r.Station.Name, r.Station.DistanceMiles)
	fmt.Fprintf(w, "%s to %s, %s\n", r.Begin, r.End, r.Criteria)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, t := range r.Tides {
		fmt.Fprintf(tw, "%s\t%.3f\t%s\n", t.Time, t.Height, t.Type)
	}
	return tw.Flush()
}

func JSON(w io.Writer, res *lowtide.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(New(res))
}

func YAML(w io.Writer, res *lowtide.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(New(res)); err != nil {
		return err
	}
	return enc.Close()
}
