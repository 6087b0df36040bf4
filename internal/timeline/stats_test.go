package timeline

import (
	"testing"

	"github.com/edward-ap/pizzaindex/internal/dataset"
)

func TestSummarize(t *testing.T) {
	ds := &dataset.Dataset{Events: []dataset.Event{
		{Date: "1990-01-01", Magnitude: 100, Label: "a", Category: "X"},
		{Date: "1995-01-01", Magnitude: 150, Label: "b", Category: "Y"},
		{Date: "2000-01-01", Magnitude: 151, Label: "c", Category: "X"},
		{Date: "2010-01-01", Magnitude: 300, Label: "d", Category: "X"},
	}}
	tests := []struct {
		name   string
		active CategorySet
		yr     YearRange
		want   Stats
	}{
		{
			name:   "all in range",
			active: NewCategorySet("X", "Y"),
			yr:     YearRange{Start: 1983, End: 2005},
			want:   Stats{Events: 3, TotalMagnitude: 401, Average: 134, Largest: "c"},
		},
		{
			name:   "category filter",
			active: NewCategorySet("Y"),
			yr:     FullRange(),
			want:   Stats{Events: 1, TotalMagnitude: 150, Average: 150, Largest: "b"},
		},
		{
			name:   "nothing visible",
			active: NewCategorySet("Z"),
			yr:     FullRange(),
			want:   Stats{Largest: NoEventLabel},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(ds, tt.active, tt.yr)
			if got != tt.want {
				t.Fatalf("Summarize = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestYearRangeHandles(t *testing.T) {
	r := FullRange()
	r = r.WithEnd(2000)
	r = r.WithStart(2010)
	if r.Start != 2000 || r.End != 2000 {
		t.Fatalf("start must pin to end, got %+v", r)
	}
	r = r.WithEnd(1990)
	if r.End != 2000 {
		t.Fatalf("end must pin to start, got %+v", r)
	}
	if got := (YearRange{Start: 1900, End: 3000}).Clamp(); got != FullRange() {
		t.Fatalf("Clamp = %+v", got)
	}
	if !r.Contains(2000) || r.Contains(2001) {
		t.Fatal("Contains mismatch")
	}
}
