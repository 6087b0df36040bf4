package chart

import (
	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/timeline"
)

const terror dataset.CategoryID = "Atentados Terroristas"

// testDataset has a flat baseline of 61 over the whole timeline and two
// events in 2001.
func testDataset() *dataset.Dataset {
	n := (dataset.TerminusYear - dataset.EpochYear + 1) * dataset.MonthsPerYear
	baseline := make([]float64, n)
	for i := range baseline {
		baseline[i] = 61
	}
	return &dataset.Dataset{
		Categories: []dataset.Category{{ID: terror, Color: "#8B5CF6", Icon: "terrorista.svg", Sound: "explosion.mp3"}},
		Events: []dataset.Event{
			{Date: "2001-03-10", Magnitude: 120, Label: "Marzo", Category: terror},
			{Date: "2001-09-11", Magnitude: 220, Label: "11 de Septiembre", Category: terror},
		},
		Baseline: baseline,
	}
}

func testCells(ds *dataset.Dataset) []timeline.MonthCell {
	yr := timeline.YearRange{Start: 2001, End: 2001}
	return timeline.Build(ds, timeline.NewCategorySet(terror), &yr)
}
