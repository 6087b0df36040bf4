package pizzaapp

import (
	"testing"

	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/timeline"
)

func TestFilterStateToggleAndReset(t *testing.T) {
	f := NewFilterState([]dataset.CategoryID{"a", "b"})
	if !f.IsActive("a") || !f.IsActive("b") {
		t.Fatalf("expected every category active initially")
	}
	if on := f.Toggle("a"); on {
		t.Fatalf("toggle of an active category should deactivate it")
	}
	active, _ := f.Snapshot()
	if active.Has("a") || !active.Has("b") {
		t.Fatalf("unexpected snapshot %v", active)
	}

	// snapshots are copies
	delete(active, "b")
	if !f.IsActive("b") {
		t.Fatalf("mutating a snapshot leaked into the state")
	}

	f.SetStart(2000)
	f.ResetCategories()
	active, yr := f.Snapshot()
	if !active.Has("a") || !active.Has("b") {
		t.Fatalf("reset should re-activate every category, got %v", active)
	}
	if yr.Start != 2000 {
		t.Fatalf("category reset must keep the year range, got %+v", yr)
	}
}

func TestFilterStateYearHandles(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*FilterState) timeline.YearRange
		want  timeline.YearRange
	}{
		{"start moves", func(f *FilterState) timeline.YearRange { return f.SetStart(1990) }, timeline.YearRange{Start: 1990, End: 2025}},
		{"end moves", func(f *FilterState) timeline.YearRange { return f.SetEnd(2010) }, timeline.YearRange{Start: 1983, End: 2010}},
		{"start pinned to end", func(f *FilterState) timeline.YearRange {
			f.SetEnd(2000)
			return f.SetStart(2005)
		}, timeline.YearRange{Start: 2000, End: 2000}},
		{"end pinned to start", func(f *FilterState) timeline.YearRange {
			f.SetStart(2000)
			return f.SetEnd(1995)
		}, timeline.YearRange{Start: 2000, End: 2000}},
		{"reset", func(f *FilterState) timeline.YearRange {
			f.SetStart(2001)
			f.SetEnd(2002)
			return f.ResetYears()
		}, timeline.YearRange{Start: 1983, End: 2025}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilterState(nil)
			if got := tt.apply(f); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStatCards(t *testing.T) {
	cards := StatCards(timeline.Stats{Events: 3, TotalMagnitude: 12450, Average: 4150, Largest: "9/11"})
	want := []StatCard{
		{"Total de Eventos", "3"},
		{"Total de Pizzas", "12,450"},
		{"Promedio por Crisis", "4,150"},
		{"Evento Mayor", "9/11"},
	}
	if len(cards) != len(want) {
		t.Fatalf("got %d cards, want %d", len(cards), len(want))
	}
	for i := range want {
		if cards[i] != want[i] {
			t.Errorf("card %d = %+v, want %+v", i, cards[i], want[i])
		}
	}

	empty := StatCards(timeline.Stats{Largest: timeline.NoEventLabel})
	if empty[3].Value != "N/A" || empty[0].Value != "0" {
		t.Fatalf("unexpected empty cards %+v", empty)
	}
}

func TestTickerText(t *testing.T) {
	if got := tickerText("2001-08", nil); got != "2001-08" {
		t.Fatalf("empty month text = %q", got)
	}
	ev := &dataset.Event{Date: "2001-09-11", Label: "9/11", Category: "Atentados Terroristas"}
	if got, want := tickerText("2001-09", ev), "2001-09 · 9/11 (Atentados Terroristas)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCategoryIconResources(t *testing.T) {
	ds, err := dataset.Default()
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	for _, c := range ds.Categories {
		r := CategoryIcon(c.Icon)
		if r == nil {
			t.Fatalf("no icon resource for %s (%s)", c.ID, c.Icon)
		}
		if CategoryIcon(c.Icon) != r {
			t.Fatalf("icon resource for %s not cached", c.ID)
		}
	}
	if CategoryIcon("missing.svg") != nil {
		t.Fatalf("expected nil for an unknown icon")
	}
	if AppIcon == nil {
		t.Fatalf("app icon not embedded")
	}
}
