package timeline

import (
	"testing"

	"github.com/edward-ap/pizzaindex/internal/dataset"
)

const terror dataset.CategoryID = "Atentados Terroristas"

// scenarioDataset covers the whole timeline with a flat baseline of 61 and a
// single 2001-09 event.
func scenarioDataset() *dataset.Dataset {
	n := (dataset.TerminusYear - dataset.EpochYear + 1) * dataset.MonthsPerYear
	baseline := make([]float64, n)
	for i := range baseline {
		baseline[i] = 61
	}
	return &dataset.Dataset{
		Events: []dataset.Event{
			{Date: "2001-09-01", Magnitude: 220, Label: "11 de Septiembre", Category: terror},
		},
		Baseline: baseline,
	}
}

func TestBuildScenarioEventActive(t *testing.T) {
	ds := scenarioDataset()
	cells := Build(ds, NewCategorySet(terror), nil)
	idx := dataset.MonthIndex("2001-09")
	c := cells[idx]
	if c.Date != "2001-09" {
		t.Fatalf("cell date = %q, want 2001-09", c.Date)
	}
	if c.Excess != 159 {
		t.Fatalf("excess = %v, want 159", c.Excess)
	}
	if c.Event == nil || c.Event.Label != "11 de Septiembre" {
		t.Fatalf("expected event on cell, got %+v", c.Event)
	}
}

func TestBuildScenarioCategoryFiltered(t *testing.T) {
	ds := scenarioDataset()
	cells := Build(ds, NewCategorySet("Crisis Políticas"), nil)
	c := cells[dataset.MonthIndex("2001-09")]
	if c.Event != nil || c.Excess != 0 {
		t.Fatalf("filtered cell should be empty, got excess=%v event=%+v", c.Excess, c.Event)
	}
	if len(ds.Events) != 1 {
		t.Fatal("raw dataset must keep the record")
	}
}

func TestBuildInvariants(t *testing.T) {
	ds, err := dataset.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	all := NewCategorySet(ds.CategoryIDs()...)
	sets := map[string]CategorySet{
		"all":  all,
		"none": NewCategorySet(),
		"one":  NewCategorySet(ds.CategoryIDs()[0]),
	}
	ranges := []*YearRange{nil, {Start: 1990, End: 2001}, {Start: 2025, End: 2025}, {Start: 2010, End: 1995}}
	for name, set := range sets {
		for _, yr := range ranges {
			cells := Build(ds, set, yr)
			if len(cells) == 0 {
				t.Fatalf("%s: empty grid", name)
			}
			for i, c := range cells {
				if i > 0 && c.MonthIndex != cells[i-1].MonthIndex+1 {
					t.Fatalf("%s: month index not contiguous at %d", name, i)
				}
				if (c.Excess > 0) != (c.Event != nil) {
					t.Fatalf("%s: excess/event mismatch at %s", name, c.Date)
				}
				if c.Event != nil && !set.Has(c.Event.Category) {
					t.Fatalf("%s: inactive category on %s", name, c.Date)
				}
			}
		}
	}
}

func TestBuildEventlessMonthsHaveNoExcess(t *testing.T) {
	ds, err := dataset.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	withEvent := map[string]bool{}
	for _, e := range ds.Events {
		withEvent[e.MonthKey()] = true
	}
	for _, c := range Build(ds, NewCategorySet(ds.CategoryIDs()...), nil) {
		if !withEvent[c.Date] && c.Excess != 0 {
			t.Fatalf("month %s has excess %v without an event", c.Date, c.Excess)
		}
	}
}

func TestBuildYearRange(t *testing.T) {
	ds := scenarioDataset()
	cells := Build(ds, NewCategorySet(terror), &YearRange{Start: 2001, End: 2002})
	if len(cells) != 24 {
		t.Fatalf("expected 24 cells, got %d", len(cells))
	}
	if cells[0].Date != "2001-01" || cells[23].Date != "2002-12" {
		t.Fatalf("unexpected bounds %s..%s", cells[0].Date, cells[23].Date)
	}
	if cells[8].Event == nil {
		t.Fatal("expected 2001-09 event inside range")
	}
}

func TestBuildStopsAtBaselineEnd(t *testing.T) {
	ds := &dataset.Dataset{Baseline: []float64{1, 2, 3, 4, 5}}
	cells := Build(ds, NewCategorySet(), nil)
	if len(cells) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(cells))
	}
}

func TestBuildMagnitudeBelowBaseline(t *testing.T) {
	ds := &dataset.Dataset{
		Events:   []dataset.Event{{Date: "1983-02-10", Magnitude: 10, Label: "small", Category: terror}},
		Baseline: []float64{20, 20, 20},
	}
	cells := Build(ds, NewCategorySet(terror), nil)
	if cells[1].Event != nil || cells[1].Excess != 0 {
		t.Fatalf("event below baseline must not surface, got %+v", cells[1])
	}
}

func TestBuildCollisionKeepsLast(t *testing.T) {
	ds := &dataset.Dataset{
		Events: []dataset.Event{
			{Date: "1983-01-05", Magnitude: 50, Label: "first", Category: terror},
			{Date: "1983-01-20", Magnitude: 90, Label: "second", Category: terror},
		},
		Baseline: []float64{10},
	}
	cells := Build(ds, NewCategorySet(terror), nil)
	if cells[0].Event == nil || cells[0].Event.Label != "second" {
		t.Fatalf("expected last event to win, got %+v", cells[0].Event)
	}
	if cells[0].Excess != 80 {
		t.Fatalf("excess = %v, want 80", cells[0].Excess)
	}
}

func TestBuildReturnsFreshSlice(t *testing.T) {
	ds := scenarioDataset()
	a := Build(ds, NewCategorySet(terror), nil)
	b := Build(ds, NewCategorySet(terror), nil)
	a[0].Baseline = -1
	if b[0].Baseline == -1 {
		t.Fatal("grids must not share storage")
	}
}

func TestIndexOfEvent(t *testing.T) {
	ds := scenarioDataset()
	cells := Build(ds, NewCategorySet(terror), nil)
	if got := IndexOfEvent(cells, &ds.Events[0]); got != dataset.MonthIndex("2001-09") {
		t.Fatalf("IndexOfEvent = %d", got)
	}
	if got := IndexOfEvent(cells, nil); got != -1 {
		t.Fatalf("IndexOfEvent(nil) = %d", got)
	}
}
