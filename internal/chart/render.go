package chart

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/timeline"
)

// NoCursor marks a scene without a playback cursor.
const NoCursor = -1

// AxisTitle labels the value axis.
const AxisTitle = "Pizzas Pedidas"

// ErrNoSurface is returned when there is nothing to draw on yet, e.g. the
// hosting container has not been laid out.
var ErrNoSurface = errors.New("drawing surface unavailable")

// Scene is everything a render pass reads.
type Scene struct {
	Cells       []timeline.MonthCell
	Cursor      int
	Highlighted *dataset.Event
	// ContainerHeight is the available height in logical pixels.
	ContainerHeight float64
	// DPR is the device pixel ratio; values <= 0 mean 1.
	DPR         float64
	ResetScroll bool
}

// Frame is the output of one render pass.
type Frame struct {
	Image       *image.RGBA
	Geometry    *Geometry
	Projection  Projection
	DPR         float64
	ResetScroll bool
}

// Renderer draws scenes onto a gg raster context.
type Renderer struct {
	layout  Layout
	palette Palette
	colors  map[dataset.CategoryID]color.NRGBA
	label   font.Face
	title   font.Face
}

// NewRenderer prepares category colors and font faces.
func NewRenderer(ds *dataset.Dataset, l Layout) *Renderer {
	r := &Renderer{
		layout:  l,
		palette: DefaultPalette(),
		colors:  make(map[dataset.CategoryID]color.NRGBA),
		label:   labelFace(),
		title:   titleFace(),
	}
	if ds != nil {
		for _, c := range ds.Categories {
			col, err := ParseHex(c.Color)
			if err != nil {
				col = r.palette.Text
			}
			r.colors[c.ID] = col
		}
	}
	return r
}

// Layout returns the renderer geometry.
func (r *Renderer) Layout() Layout { return r.layout }

// CategoryColor returns the display color for a category.
func (r *Renderer) CategoryColor(id dataset.CategoryID) color.NRGBA {
	if c, ok := r.colors[id]; ok {
		return c
	}
	return r.palette.Text
}

// Render draws sc and returns the frame plus the geometry of every bar that
// was drawn. Rendering the same scene twice yields identical output.
func (r *Renderer) Render(sc Scene) (*Frame, error) {
	if r == nil || sc.ContainerHeight <= 0 {
		return nil, ErrNoSurface
	}
	dpr := sc.DPR
	if dpr <= 0 {
		dpr = 1
	}
	proj := NewProjection(r.layout, len(sc.Cells), sc.ContainerHeight)
	w := int(math.Ceil(proj.Width() * dpr))
	h := int(math.Ceil(proj.Height * dpr))
	if w <= 0 || h <= 0 {
		return nil, ErrNoSurface
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(r.palette.Background)
	dc.Clear()
	dc.Scale(dpr, dpr)

	r.drawAxes(dc, proj, sc.Cells)
	geom := r.drawBars(dc, proj, sc.Cells, sc.Highlighted)
	r.drawBaseline(dc, proj, sc.Cells)
	if sc.Cursor != NoCursor {
		r.drawCursor(dc, proj, sc.Cursor)
	}

	img, _ := dc.Image().(*image.RGBA)
	return &Frame{
		Image:       img,
		Geometry:    geom,
		Projection:  proj,
		DPR:         dpr,
		ResetScroll: sc.ResetScroll,
	}, nil
}

func (r *Renderer) drawAxes(dc *gg.Context, p Projection, cells []timeline.MonthCell) {
	dc.Push()
	defer dc.Pop()

	dc.SetFontFace(r.label)
	dc.SetColor(r.palette.Text)
	ticks := p.Ticks
	if ticks <= 0 {
		ticks = 1
	}
	for i := 0; i <= ticks; i++ {
		v := p.MaxScale / float64(ticks) * float64(i)
		dc.DrawStringAnchored(strconv.Itoa(int(math.Round(v))), p.Margin.Left-15, p.Y(v), 1, 0.5)
	}

	dc.Push()
	dc.SetFontFace(r.title)
	dc.SetColor(r.palette.Axis)
	dc.Translate(20, p.Margin.Top+p.ChartHeight()/2)
	dc.Rotate(-math.Pi / 2)
	dc.DrawStringAnchored(AxisTitle, 0, 0, 0.5, 0.5)
	dc.Pop()

	labelY := p.Floor() + 15
	for i, c := range cells {
		if c.IsJanuary() {
			dc.DrawStringAnchored(strconv.Itoa(c.Year()), p.X(i), labelY, 0.5, 1)
		}
	}
}

func (r *Renderer) drawBars(dc *gg.Context, p Projection, cells []timeline.MonthCell, hl *dataset.Event) *Geometry {
	geom := newGeometry()
	baseY := p.Floor()
	for i, c := range cells {
		if c.Excess <= 0 || c.Event == nil {
			continue
		}
		x := p.X(i)
		topY := p.Y(c.Total())
		highlighted := hl != nil && hl.Date == c.Event.Date

		bw := p.BarWidth
		col := r.CategoryColor(c.Event.Category)
		if highlighted {
			bw += p.HighlightExtra
			col = Darken(col, 0.3)
		}
		rad := bw / 2
		left, right := x-bw/2, x+bw/2

		dc.MoveTo(left, baseY)
		dc.LineTo(left, topY+rad)
		dc.QuadraticTo(left, topY, left+rad, topY)
		dc.LineTo(right-rad, topY)
		dc.QuadraticTo(right, topY, right, topY+rad)
		dc.LineTo(right, baseY)
		dc.ClosePath()
		dc.SetColor(col)
		dc.Fill()

		geom.add(BarGeometry{Index: i, X: x, TopY: topY, BaseY: baseY, Event: c.Event})
	}
	return geom
}

// drawBaseline fills the area under the baseline using quadratic segments
// that join at the midpoints between consecutive months.
func (r *Renderer) drawBaseline(dc *gg.Context, p Projection, cells []timeline.MonthCell) {
	n := len(cells)
	if n < 2 {
		return
	}
	pts := make([]Point, n)
	for i, c := range cells {
		pts[i] = p.Point(i, c.Baseline)
	}
	floor := p.Floor()
	left := p.Margin.Left

	dc.MoveTo(left, floor)
	dc.LineTo(left, pts[0].Y)
	for i := 0; i < n-2; i++ {
		xc := (pts[i].X + pts[i+1].X) / 2
		yc := (pts[i].Y + pts[i+1].Y) / 2
		dc.QuadraticTo(pts[i].X, pts[i].Y, xc, yc)
	}
	last := pts[n-1]
	dc.QuadraticTo(pts[n-2].X, pts[n-2].Y, last.X, last.Y)
	dc.LineTo(last.X, floor)
	dc.LineTo(left, floor)
	dc.ClosePath()
	dc.SetColor(r.palette.Baseline)
	dc.Fill()
}

func (r *Renderer) drawCursor(dc *gg.Context, p Projection, idx int) {
	if idx < 0 || idx >= p.Cells {
		return
	}
	dc.Push()
	defer dc.Pop()
	x := p.X(idx)
	dc.SetColor(r.palette.Cursor)
	dc.SetLineWidth(2)
	dc.SetDash(6, 3)
	dc.DrawLine(x, p.Margin.Top+15, x, p.Floor())
	dc.Stroke()
	dc.SetDash()
}
