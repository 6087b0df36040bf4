package timeline

import (
	"math"

	"github.com/edward-ap/pizzaindex/internal/dataset"
)

// NoEventLabel is shown when the filters leave no event to summarise.
const NoEventLabel = "N/A"

// Stats summarises the raw events visible under the current filters.
type Stats struct {
	Events         int
	TotalMagnitude float64
	Average        float64
	Largest        string
}

// Summarize aggregates events whose category is active and whose year falls
// inside yr. It works on the raw records, so events that do not rise above
// the baseline still count.
func Summarize(ds *dataset.Dataset, active CategorySet, yr YearRange) Stats {
	st := Stats{Largest: NoEventLabel}
	if ds == nil {
		return st
	}
	var largest *dataset.Event
	for i := range ds.Events {
		e := &ds.Events[i]
		if !active.Has(e.Category) || !yr.Contains(e.Year()) {
			continue
		}
		st.Events++
		st.TotalMagnitude += e.Magnitude
		if largest == nil || e.Magnitude > largest.Magnitude {
			largest = e
		}
	}
	if st.Events > 0 {
		st.Average = math.Round(st.TotalMagnitude / float64(st.Events))
	}
	if largest != nil {
		st.Largest = largest.Label
	}
	return st
}
