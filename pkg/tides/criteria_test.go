package tides

import (
	"fmt"
	"testing"
)

func TestParseWeekdays(t *testing.T) {
	table := []struct {
		input string
		want  string
	}{
		{"1234567", "1234567"},
		{"7654321", "1234567"},
		{"6622", "26"},
		{"", ""},
	}
	for _, tc := range table {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseWeekdays(tc.input)
			if err != nil {
				t.Fatalf("unexpected: %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
	if all, _ := ParseWeekdays("1234567"); all != AllWeekdays {
		t.Errorf("all days = %08b, want %08b", all, AllWeekdays)
	}
}

func ExampleWeekdays_Has() {
	days, _ := ParseWeekdays("67")
	for day := 0; day <= 8; day++ {
		fmt.Print(days.Has(day), " ")
	}
	fmt.Println()
	// Output:
	// false false false false false false true true false
}
