package timetricks

import (
	"fmt"
	"testing"
	"time"
)

func ExampleISOWeekday() {
	// 2023-06-05 is a Monday.
	t := time.Date(2023, time.June, 5, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		day := t.Add(time.Duration(i) * 24 * time.Hour)
		fmt.Println(day.Weekday(), ISOWeekday(day))
	}
	// Output:
	// Monday 1
	// Tuesday 2
	// Wednesday 3
	// Thursday 4
	// Friday 5
	// Saturday 6
	// Sunday 7
}

func TestParseClock(t *testing.T) {
	table := []struct {
		input   string
		want    Clock
		wantErr bool
	}{
		{input: "00:00", want: Midnight},
		{input: "23:59", want: LastMinute},
		{input: "06:30", want: 6*60 + 30},
		{input: "6:30", wantErr: true},
		{input: "24:00", wantErr: true},
		{input: "6AM", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range table {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseClock(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("got %v, wanted an error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, wanted %v", got, tc.want)
			}
			if got.String() != tc.input {
				t.Errorf("String() = %q, wanted %q", got.String(), tc.input)
			}
		})
	}
}

func TestTrimClock(t *testing.T) {
	in := time.Date(2020, time.October, 25, 17, 42, 13, 0, time.UTC)
	want := time.Date(2020, time.October, 25, 0, 0, 0, 0, time.UTC)
	if got := TrimClock(in); !got.Equal(want) {
		t.Errorf("got %v, wanted %v", got, want)
	}
	if !SameDay(in, want) || UniqueDay(in) != "20201025" {
		t.Errorf("day helpers disagree for %v", in)
	}
}
