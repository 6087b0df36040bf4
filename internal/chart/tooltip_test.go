package chart

import (
	"testing"

	"github.com/edward-ap/pizzaindex/internal/dataset"
)

func TestPlaceTooltip(t *testing.T) {
	st := DefaultTooltipStyle()
	container := Size{W: 800, H: 500}
	tip := Size{W: 240, H: 100}
	tests := []struct {
		name    string
		anchor  Point
		scrollX float64
		want    Point
	}{
		{name: "right of anchor", anchor: Point{X: 100, Y: 200}, want: Point{X: 120, Y: 150}},
		{name: "right adds scroll", anchor: Point{X: 100, Y: 200}, scrollX: 300, want: Point{X: 420, Y: 150}},
		{name: "flips near right edge", anchor: Point{X: 700, Y: 200}, scrollX: 300, want: Point{X: 740, Y: 150}},
		{name: "flip boundary", anchor: Point{X: 541, Y: 200}, want: Point{X: 281, Y: 150}},
		{name: "no flip at boundary", anchor: Point{X: 540, Y: 200}, want: Point{X: 560, Y: 150}},
		{name: "clamped to top margin", anchor: Point{X: 100, Y: 20}, want: Point{X: 120, Y: 10}},
		{name: "clamped to bottom margin", anchor: Point{X: 100, Y: 480}, want: Point{X: 120, Y: 390}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlaceTooltip(tt.anchor, container, tt.scrollX, tip, st)
			if got != tt.want {
				t.Fatalf("PlaceTooltip = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDescribeEvent(t *testing.T) {
	ds := testDataset()
	c, ok := DescribeEvent(ds, &ds.Events[1])
	if !ok {
		t.Fatalf("DescribeEvent failed")
	}
	if c.Orders != "220" || c.Normal != "61" {
		t.Fatalf("orders/normal = %q/%q", c.Orders, c.Normal)
	}
	if c.Increase != "+261%" {
		t.Fatalf("increase = %q, want +261%%", c.Increase)
	}
	if c.Color != "#8B5CF6" || c.Icon != "terrorista.svg" {
		t.Fatalf("category data = %q %q", c.Color, c.Icon)
	}
	if len(c.Lines()) != 5 {
		t.Fatalf("lines = %d", len(c.Lines()))
	}

	ds.Baseline[dataset.MonthIndex("2001-09")] = 0
	if c, _ := DescribeEvent(ds, &ds.Events[1]); c.Increase != "n/a" {
		t.Fatalf("zero baseline increase = %q", c.Increase)
	}
	if _, ok := DescribeEvent(ds, &dataset.Event{Date: "1970-01-01"}); ok {
		t.Fatalf("expected out-of-range event to be rejected")
	}
}
