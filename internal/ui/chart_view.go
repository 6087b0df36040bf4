package ui

import (
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/pizzaindex/internal/chart"
)

// ChartView hosts the rendered chart in a horizontal scroller, forwards
// pointer movement to the chart manager and overlays the tooltip.
type ChartView struct {
	widget.BaseWidget

	mgr     *chart.Manager
	surface *chartSurface
	scroll  *container.Scroll
	tip     *TooltipPanel
	resize  *Debouncer

	mu   sync.Mutex
	last fyne.Size
}

// NewChartView wires mgr callbacks to a new view. Resize bursts are
// coalesced with the given delay.
func NewChartView(mgr *chart.Manager, icons IconLookup, resizeDelay time.Duration) *ChartView {
	v := &ChartView{
		mgr:    mgr,
		tip:    NewTooltipPanel(float32(chart.DefaultTooltipStyle().Width), icons),
		resize: NewDebouncer(resizeDelay),
	}
	v.surface = newChartSurface(v)
	v.scroll = container.NewHScroll(v.surface)
	v.scroll.OnScrolled = func(p fyne.Position) {
		mgr.SetScroll(float64(p.X))
	}

	sz := v.tip.Size()
	mgr.SetTooltipSize(chart.Size{W: float64(sz.Width), H: float64(sz.Height)})

	mgr.OnFrame(func(f *chart.Frame) {
		CallOnMain(func() { v.applyFrame(f) })
	})
	mgr.OnTooltip(func(st chart.TooltipState) {
		CallOnMain(func() {
			v.tip.Apply(st)
			v.surface.Refresh()
		})
	})
	mgr.OnScroll(func(x float64) {
		CallOnMain(func() { v.scrollTo(float32(x)) })
	})
	v.ExtendBaseWidget(v)
	return v
}

func (v *ChartView) applyFrame(f *chart.Frame) {
	v.surface.setFrame(f)
	if f.ResetScroll {
		v.scrollTo(0)
	}
}

func (v *ChartView) scrollTo(x float32) {
	v.scroll.Offset = fyne.NewPos(x, 0)
	v.scroll.Refresh()
}

// viewportChanged records a new size and schedules a redraw.
func (v *ChartView) viewportChanged(size fyne.Size) {
	v.mu.Lock()
	if size == v.last {
		v.mu.Unlock()
		return
	}
	v.last = size
	v.mu.Unlock()

	v.mgr.SetViewport(chart.Size{W: float64(size.Width), H: float64(size.Height)}, deviceScale(v))
	v.resize.Trigger(func() { v.mgr.Draw(false) })
}

// Close cancels any pending redraw.
func (v *ChartView) Close() { v.resize.Stop() }

func (v *ChartView) CreateRenderer() fyne.WidgetRenderer {
	return &chartViewRenderer{v: v}
}

type chartViewRenderer struct {
	v *ChartView
}

func (r *chartViewRenderer) Layout(sz fyne.Size) {
	r.v.scroll.Resize(sz)
	r.v.scroll.Move(fyne.NewPos(0, 0))
	r.v.viewportChanged(sz)
}

func (r *chartViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, float32(chart.DefaultLayout().MinHeight)/2)
}

func (r *chartViewRenderer) Refresh() { r.v.scroll.Refresh() }

func (r *chartViewRenderer) Destroy() { r.v.resize.Stop() }

func (r *chartViewRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.v.scroll}
}

// chartSurface is the scrolled content: the rendered raster plus the
// tooltip overlay, sized to the chart's logical dimensions.
type chartSurface struct {
	widget.BaseWidget
	view *ChartView
	img  *canvas.Image

	mu   sync.Mutex
	size fyne.Size
}

var _ desktop.Hoverable = (*chartSurface)(nil)

func newChartSurface(v *ChartView) *chartSurface {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleFastest
	s := &chartSurface{view: v, img: img, size: fyne.NewSize(1, 1)}
	s.ExtendBaseWidget(s)
	return s
}

func (s *chartSurface) setFrame(f *chart.Frame) {
	p := f.Projection.Size()
	s.mu.Lock()
	s.size = fyne.NewSize(float32(p.W), float32(p.H))
	s.mu.Unlock()
	s.img.Image = f.Image
	s.img.Refresh()
	s.Refresh()
	s.view.scroll.Refresh()
}

func (s *chartSurface) MinSize() fyne.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// pointer converts a surface position into container-local coordinates.
func (s *chartSurface) pointer(pos fyne.Position) chart.Point {
	off := s.view.scroll.Offset
	return chart.Point{X: float64(pos.X - off.X), Y: float64(pos.Y - off.Y)}
}

func (s *chartSurface) MouseIn(ev *desktop.MouseEvent) { s.MouseMoved(ev) }

func (s *chartSurface) MouseMoved(ev *desktop.MouseEvent) {
	if ev == nil {
		return
	}
	s.view.mgr.PointerMoved(s.pointer(ev.Position))
}

func (s *chartSurface) MouseOut() { s.view.mgr.PointerLeft() }

func (s *chartSurface) CreateRenderer() fyne.WidgetRenderer {
	return &chartSurfaceRenderer{s: s}
}

type chartSurfaceRenderer struct {
	s *chartSurface
}

func (r *chartSurfaceRenderer) Layout(fyne.Size) {
	sz := r.s.MinSize()
	r.s.img.Move(fyne.NewPos(0, 0))
	r.s.img.Resize(sz)
}

func (r *chartSurfaceRenderer) MinSize() fyne.Size { return r.s.MinSize() }

func (r *chartSurfaceRenderer) Refresh() {
	r.Layout(r.s.Size())
	canvas.Refresh(r.s.img)
}

func (r *chartSurfaceRenderer) Destroy() {}

func (r *chartSurfaceRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.s.img, r.s.view.tip.CanvasObject()}
}
