// Command lowtide lists low tides near a zip code.
//
//	lowtide [flags] begin_date end_date
//
// Dates are YYYY-MM-DD. Settings such as the cache directory and the HTTP
// timeout come from LOWTIDE_* environment variables or a .env file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spencer-p/lowtide/pkg/config"
	"github.com/spencer-p/lowtide/pkg/geo"
	"github.com/spencer-p/lowtide/pkg/lowtide"
	"github.com/spencer-p/lowtide/pkg/noaa"
	"github.com/spencer-p/lowtide/pkg/report"
	"github.com/spencer-p/lowtide/pkg/tides"
	"github.com/spencer-p/lowtide/pkg/zipcode"
)

const (
	exitOK         = 0
	exitOther      = 1
	exitValidation = 2
	exitNotFound   = 3
	exitTransport  = 4
	exitParse      = 5
)

var errUsage = errors.New("usage: lowtide [flags] begin_date end_date")

type options struct {
	begin, end string
	start      string
	endTime    string
	lowTide    float64
	weekdays   string
	zip        int
	daylight   bool
	output     string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("lowtide", flag.ContinueOnError)
	fs.SetOutput(stderr)
	for _, name := range []string{"s", "start_time"} {
		fs.StringVar(&o.start, name, "00:00", "earliest time of day to include, HH:MM")
	}
	for _, name := range []string{"e", "end_time"} {
		fs.StringVar(&o.endTime, name, "23:59", "latest time of day to include, HH:MM")
	}
	for _, name := range []string{"t", "low_tide"} {
		fs.Float64Var(&o.lowTide, name, 0, "include tides at or below this height in feet")
	}
	for _, name := range []string{"d", "weekdays"} {
		fs.StringVar(&o.weekdays, name, "1234567", "days to include, Monday=1 through Sunday=7")
	}
	for _, name := range []string{"z", "zipcode"} {
		fs.IntVar(&o.zip, name, 98516, "zip code to find the nearest station for")
	}
	fs.BoolVar(&o.daylight, "daylight", false, "only include tides between sunrise and sunset")
	fs.StringVar(&o.output, "o", report.FormatText, "output format: text, json or yaml")

	// Flags may come before, between or after the dates.
	var dates []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		if fs.NArg() == 0 {
			break
		}
		dates = append(dates, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(dates) != 2 {
		fs.Usage()
		return nil, errUsage
	}
	o.begin, o.end = dates[0], dates[1]
	return &o, nil
}

func (o *options) request(env *config.Config) (lowtide.Request, error) {
	criteria, err := tides.NewCriteria(o.lowTide, o.weekdays, o.start, o.endTime)
	if err != nil {
		return lowtide.Request{}, err
	}
	req := lowtide.Request{Begin: o.begin, End: o.end, Zip: o.zip, Criteria: criteria}
	if o.daylight {
		if req.Daylight, err = env.Location(); err != nil {
			return lowtide.Request{}, err
		}
	}
	return req, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	switch o.output {
	case report.FormatText, report.FormatJSON, report.FormatYAML:
	default:
		return fmt.Errorf("%w: unknown output format %q", errUsage, o.output)
	}

	env, err := config.Load()
	if err != nil {
		return err
	}
	req, err := o.request(env)
	if err != nil {
		return err
	}

	zips, err := env.GazetteerLoader().Load(ctx)
	if err != nil {
		return err
	}
	client := env.NOAAClient()
	f := &lowtide.Fetcher{Zips: zips, Stations: client, Tides: client}

	log.Printf("Looking up tides near %05d from %s to %s", o.zip, o.begin, o.end)
	res, err := f.Run(ctx, req)
	if err != nil {
		return err
	}
	return report.Write(stdout, o.output, res)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage),
		errors.Is(err, lowtide.ErrInvalidRequest),
		errors.Is(err, tides.ErrInvalidCriteria),
		errors.Is(err, geo.ErrInvalid):
		return exitValidation
	case errors.Is(err, geo.ErrNotFound),
		errors.Is(err, geo.ErrEmpty),
		errors.Is(err, noaa.ErrNoPredictions):
		return exitNotFound
	case errors.Is(err, noaa.ErrTransport),
		errors.Is(err, zipcode.ErrTransport):
		return exitTransport
	case errors.Is(err, noaa.ErrParse):
		return exitParse
	default:
		return exitOther
	}
}

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		os.Exit(exitOK)
	case err != nil:
		log.Printf("lowtide: %v", err)
	}
	os.Exit(exitCode(err))
}
