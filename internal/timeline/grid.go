// Package timeline expands the sparse crisis events and the baseline series
// into a dense, one-cell-per-month grid that the chart and the playback
// controller walk.
package timeline

import (
	"math"

	"github.com/edward-ap/pizzaindex/internal/dataset"
)

// CategorySet is the set of categories currently shown.
type CategorySet map[dataset.CategoryID]struct{}

// NewCategorySet builds a set from the provided ids.
func NewCategorySet(ids ...dataset.CategoryID) CategorySet {
	s := make(CategorySet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is active.
func (s CategorySet) Has(id dataset.CategoryID) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy so callers can pass sets by value.
func (s CategorySet) Clone() CategorySet {
	out := make(CategorySet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// MonthCell is one calendar month of the grid. Event is non-nil exactly when
// Excess is positive.
type MonthCell struct {
	MonthIndex int
	Date       string // YYYY-MM
	Baseline   float64
	Excess     float64
	Event      *dataset.Event
}

// Year returns the calendar year of the cell.
func (c MonthCell) Year() int {
	return dataset.EpochYear + c.MonthIndex/dataset.MonthsPerYear
}

// IsJanuary reports whether the cell opens a calendar year.
func (c MonthCell) IsJanuary() bool {
	return c.MonthIndex%dataset.MonthsPerYear == 0
}

// Total is the plotted height of the cell: baseline plus excess.
func (c MonthCell) Total() float64 { return c.Baseline + c.Excess }

// Build produces a fresh grid for the active categories, optionally limited
// to a year range. When two events share a month the later one in dataset
// order wins. Iteration stops at the end of the baseline series.
func Build(ds *dataset.Dataset, active CategorySet, yr *YearRange) []MonthCell {
	if ds == nil {
		return nil
	}
	byMonth := make(map[string]*dataset.Event, len(ds.Events))
	for i := range ds.Events {
		e := &ds.Events[i]
		byMonth[e.MonthKey()] = e
	}

	first, last := dataset.EpochYear, dataset.TerminusYear
	if yr != nil {
		r := yr.Clamp()
		first, last = r.Start, r.End
	}

	cells := make([]MonthCell, 0, (last-first+1)*dataset.MonthsPerYear)
	for year := first; year <= last; year++ {
		for month := 1; month <= dataset.MonthsPerYear; month++ {
			idx := (year-dataset.EpochYear)*dataset.MonthsPerYear + (month - 1)
			baseline, ok := ds.BaselineAt(idx)
			if !ok {
				return cells
			}
			if math.IsNaN(baseline) {
				baseline = 0
			}
			key := dataset.MonthKey(year, month)
			cell := MonthCell{MonthIndex: idx, Date: key, Baseline: baseline}
			if e := byMonth[key]; e != nil && active.Has(e.Category) {
				if excess := math.Max(0, e.Magnitude-baseline); excess > 0 {
					cell.Excess = excess
					cell.Event = e
				}
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// IndexOfEvent finds the grid position of an event, or -1.
func IndexOfEvent(cells []MonthCell, e *dataset.Event) int {
	if e == nil {
		return -1
	}
	for i, c := range cells {
		if c.Event != nil && c.Event.Date == e.Date {
			return i
		}
	}
	return -1
}
