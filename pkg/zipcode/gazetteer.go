package zipcode

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spencer-p/lowtide/pkg/geo"
)

const (
	colZip = "GEOID"
	colLat = "INTPTLAT"
	colLon = "INTPTLONG"

	maxZip = 99999
)

// ErrInvalid marks a gazetteer that cannot be loaded.
var ErrInvalid = fmt.Errorf("invalid gazetteer: %w", geo.ErrInvalid)

// ParseGazetteer reads a tab separated Census ZCTA gazetteer. Column names and
// cells are trimmed of whitespace. The first bad row aborts the parse; no
// partial result is returned.
func ParseGazetteer(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header row: %w", ErrInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %v: %w", err, ErrInvalid)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	zipi, lati, loni, err := columns(cols)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrInvalid)
		}
		row, err := parseRow(record, zipi, lati, loni)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func columns(cols map[string]int) (zipi, lati, loni int, err error) {
	find := func(name string) int {
		i, ok := cols[name]
		if !ok && err == nil {
			err = fmt.Errorf("missing column %q: %w", name, ErrInvalid)
		}
		return i
	}
	zipi, lati, loni = find(colZip), find(colLat), find(colLon)
	return zipi, lati, loni, err
}

func parseRow(record []string, zipi, lati, loni int) (Row, error) {
	cell := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	zip, err := strconv.Atoi(cell(zipi))
	if err != nil || zip < 0 || zip > maxZip {
		return Row{}, fmt.Errorf("zip code %q not an integer: %w", cell(zipi), ErrInvalid)
	}
	lat, err := strconv.ParseFloat(cell(lati), 64)
	if err != nil {
		return Row{}, fmt.Errorf("latitude %q for %05d not a float: %w", cell(lati), zip, ErrInvalid)
	}
	lon, err := strconv.ParseFloat(cell(loni), 64)
	if err != nil {
		return Row{}, fmt.Errorf("longitude %q for %05d not a float: %w", cell(loni), zip, ErrInvalid)
	}
	return Row{Zip: zip, Lat: lat, Lon: lon}, nil
}
