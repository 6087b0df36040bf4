package pizzaapp

import (
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/timeline"
)

// FilterState holds the category toggles and the year range chosen in the
// side panel. Callers receive copies, never the live set.
type FilterState struct {
	mu     sync.Mutex
	all    []dataset.CategoryID
	active timeline.CategorySet
	years  timeline.YearRange
}

// NewFilterState starts with every category active over the full range.
func NewFilterState(ids []dataset.CategoryID) *FilterState {
	f := &FilterState{all: append([]dataset.CategoryID(nil), ids...)}
	f.active = timeline.NewCategorySet(f.all...)
	f.years = timeline.FullRange()
	return f
}

// Toggle flips a category and reports whether it is now active.
func (f *FilterState) Toggle(id dataset.CategoryID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active.Has(id) {
		delete(f.active, id)
		return false
	}
	f.active[id] = struct{}{}
	return true
}

// IsActive reports whether id is currently shown.
func (f *FilterState) IsActive(id dataset.CategoryID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active.Has(id)
}

// ResetCategories re-activates every category; the year range is kept.
func (f *FilterState) ResetCategories() {
	f.mu.Lock()
	f.active = timeline.NewCategorySet(f.all...)
	f.mu.Unlock()
}

// SetStart moves the start handle and returns the resulting range.
func (f *FilterState) SetStart(year int) timeline.YearRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.years = f.years.WithStart(year)
	return f.years
}

// SetEnd moves the end handle and returns the resulting range.
func (f *FilterState) SetEnd(year int) timeline.YearRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.years = f.years.WithEnd(year)
	return f.years
}

// ResetYears restores 1983–2025.
func (f *FilterState) ResetYears() timeline.YearRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.years = timeline.FullRange()
	return f.years
}

// Snapshot returns a copy of the active set and the year range.
func (f *FilterState) Snapshot() (timeline.CategorySet, timeline.YearRange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active.Clone(), f.years
}

// StatCard is one title/value tile of the summary panel.
type StatCard struct {
	Title string
	Value string
}

// StatCards formats a summary in display order.
func StatCards(st timeline.Stats) []StatCard {
	return []StatCard{
		{Title: "Total de Eventos", Value: strconv.Itoa(st.Events)},
		{Title: "Total de Pizzas", Value: humanize.Comma(int64(st.TotalMagnitude))},
		{Title: "Promedio por Crisis", Value: humanize.Comma(int64(st.Average))},
		{Title: "Evento Mayor", Value: st.Largest},
	}
}
