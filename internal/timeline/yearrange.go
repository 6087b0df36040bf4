package timeline

import "github.com/edward-ap/pizzaindex/internal/dataset"

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	Start int
	End   int
}

// FullRange covers the whole timeline.
func FullRange() YearRange {
	return YearRange{Start: dataset.EpochYear, End: dataset.TerminusYear}
}

// Contains reports whether year falls inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// Clamp bounds both ends to the timeline and collapses an inverted range
// onto its end year.
func (r YearRange) Clamp() YearRange {
	r.Start = clampInt(r.Start, dataset.EpochYear, dataset.TerminusYear)
	r.End = clampInt(r.End, dataset.EpochYear, dataset.TerminusYear)
	if r.Start > r.End {
		r.Start = r.End
	}
	return r
}

// WithStart moves the start handle; it cannot pass the end handle.
func (r YearRange) WithStart(start int) YearRange {
	if start > r.End {
		start = r.End
	}
	r.Start = start
	return r.Clamp()
}

// WithEnd moves the end handle; it cannot pass the start handle.
func (r YearRange) WithEnd(end int) YearRange {
	if end < r.Start {
		end = r.Start
	}
	r.End = end
	return r.Clamp()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
