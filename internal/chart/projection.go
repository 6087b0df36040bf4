// Package chart projects the monthly grid onto a drawing surface, renders it,
// and resolves pointer positions back to the bars that are on screen.
package chart

import "math"

// Point is a position in content-space (CSS / logical) pixels unless a
// function says otherwise.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in logical pixels.
type Size struct {
	W, H float64
}

// Margins around the plotting area.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Layout holds the static geometry of the chart.
type Layout struct {
	Margin Margins
	// BarWidth and BarGap define the horizontal slot of one month.
	BarWidth float64
	BarGap   float64
	// HighlightExtra widens the highlighted bar.
	HighlightExtra float64
	// HighlightBuffer keeps the widened last bar inside the canvas.
	HighlightBuffer float64
	// MaxScale is the fixed value ceiling. Values above it are drawn off-canvas.
	MaxScale float64
	// MinHeight is the floor applied to the canvas height.
	MinHeight float64
	// HeightReserve is subtracted from the container height.
	HeightReserve float64
	// Ticks is the number of value-axis intervals.
	Ticks int
}

// DefaultLayout is the standard chart geometry: 5px bars on a 5.8px pitch.
func DefaultLayout() Layout {
	return Layout{
		Margin:          Margins{Top: 20, Right: 0, Bottom: 40, Left: 80},
		BarWidth:        5,
		BarGap:          0.8,
		HighlightExtra:  3,
		HighlightBuffer: 1.5,
		MaxScale:        250,
		MinHeight:       400,
		HeightReserve:   40,
		Ticks:           5,
	}
}

// Projection maps (month slot, value) pairs to content pixels for a grid of
// a given length drawn into a container of a given height.
type Projection struct {
	Layout
	Cells  int
	Height float64
}

// NewProjection sizes the canvas for cells months inside a container that is
// containerHeight logical pixels tall.
func NewProjection(l Layout, cells int, containerHeight float64) Projection {
	return Projection{
		Layout: l,
		Cells:  cells,
		Height: math.Max(containerHeight-l.HeightReserve, l.MinHeight),
	}
}

// Slot is the horizontal distance between two consecutive bars.
func (p Projection) Slot() float64 { return p.BarWidth + p.BarGap }

// DataWidth is the width occupied by the bars themselves.
func (p Projection) DataWidth() float64 {
	if p.Cells <= 0 {
		return 0
	}
	return float64(p.Cells)*p.Slot() - p.BarGap
}

// Width is the full canvas width.
func (p Projection) Width() float64 {
	return p.DataWidth() + p.Margin.Left + p.Margin.Right + p.HighlightBuffer
}

// Size returns the canvas size in logical pixels.
func (p Projection) Size() Size { return Size{W: p.Width(), H: p.Height} }

// ChartHeight is the height of the plotting area.
func (p Projection) ChartHeight() float64 {
	return p.Height - p.Margin.Top - p.Margin.Bottom
}

// Floor is the y coordinate of the zero line.
func (p Projection) Floor() float64 { return p.Margin.Top + p.ChartHeight() }

// X returns the center of the bar at slot i.
func (p Projection) X(i int) float64 {
	return p.Margin.Left + float64(i)*p.Slot() + p.BarWidth/2
}

// Y returns the vertical position of value v.
func (p Projection) Y(v float64) float64 {
	ch := p.ChartHeight()
	return p.Margin.Top + ch - (v/p.MaxScale)*ch
}

// Point projects a (slot, value) pair.
func (p Projection) Point(i int, v float64) Point {
	return Point{X: p.X(i), Y: p.Y(v)}
}

// IndexAt returns the slot whose center is nearest to x, clamped to the grid.
func (p Projection) IndexAt(x float64) int {
	if p.Cells <= 0 {
		return -1
	}
	i := int(math.Round((x - p.Margin.Left - p.BarWidth/2) / p.Slot()))
	if i < 0 {
		return 0
	}
	if i >= p.Cells {
		return p.Cells - 1
	}
	return i
}

// ValueAt inverts Y.
func (p Projection) ValueAt(y float64) float64 {
	ch := p.ChartHeight()
	if ch <= 0 {
		return 0
	}
	return (p.Margin.Top + ch - y) / ch * p.MaxScale
}

// ValueResolution is the value covered by one logical pixel.
func (p Projection) ValueResolution() float64 {
	ch := p.ChartHeight()
	if ch <= 0 {
		return p.MaxScale
	}
	return p.MaxScale / ch
}

// CenterScroll returns the horizontal scroll offset that centers slot i in a
// viewport of the given width.
func (p Projection) CenterScroll(i int, viewportWidth float64) float64 {
	maxScroll := math.Max(0, p.Width()-viewportWidth)
	off := p.X(i) - viewportWidth/2
	return math.Min(math.Max(0, off), maxScroll)
}

// ToContent converts a client position into content space: the container
// origin is removed and the horizontal/vertical scroll offset is added back.
func ToContent(client, containerOrigin, scroll Point) Point {
	return Point{
		X: client.X - containerOrigin.X + scroll.X,
		Y: client.Y - containerOrigin.Y + scroll.Y,
	}
}

// DeviceToContent divides out the device pixel ratio.
func DeviceToContent(device Point, dpr float64) Point {
	if dpr <= 0 {
		dpr = 1
	}
	return Point{X: device.X / dpr, Y: device.Y / dpr}
}

// ContentToDevice scales a content position by the device pixel ratio.
func ContentToDevice(p Point, dpr float64) Point {
	if dpr <= 0 {
		dpr = 1
	}
	return Point{X: p.X * dpr, Y: p.Y * dpr}
}
