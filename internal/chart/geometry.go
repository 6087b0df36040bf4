package chart

import "github.com/edward-ap/pizzaindex/internal/dataset"

// BarGeometry is where one event bar ended up on the last render pass.
type BarGeometry struct {
	Index int
	X     float64
	TopY  float64
	BaseY float64
	Event *dataset.Event
}

// Geometry is the per-pass output of the renderer: every drawn bar, in
// chronological order. A nil *Geometry means nothing is on screen yet.
type Geometry struct {
	bars    []BarGeometry
	byIndex map[int]int
}

func newGeometry() *Geometry {
	return &Geometry{byIndex: make(map[int]int)}
}

func (g *Geometry) add(b BarGeometry) {
	g.byIndex[b.Index] = len(g.bars)
	g.bars = append(g.bars, b)
}

// Bars returns the drawn bars in grid order.
func (g *Geometry) Bars() []BarGeometry {
	if g == nil {
		return nil
	}
	return g.bars
}

// Len is the number of drawn bars.
func (g *Geometry) Len() int {
	if g == nil {
		return 0
	}
	return len(g.bars)
}

// At returns the bar drawn for grid slot i.
func (g *Geometry) At(i int) (BarGeometry, bool) {
	if g == nil {
		return BarGeometry{}, false
	}
	n, ok := g.byIndex[i]
	if !ok {
		return BarGeometry{}, false
	}
	return g.bars[n], true
}
