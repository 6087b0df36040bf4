package chart

import (
	"errors"
	"sync"
	"time"

	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/logger"
	"github.com/edward-ap/pizzaindex/internal/timeline"
)

// Options configures a Manager. Zero fields fall back to defaults.
type Options struct {
	Layout        Layout
	HitTolerance  float64
	HoverCooldown time.Duration
	Tooltip       TooltipStyle
}

// TooltipState is what the host should show in its info panel.
type TooltipState struct {
	Visible bool
	Event   *dataset.Event
	Content TooltipContent
	// Pos is the top-left corner in scrolled content coordinates.
	Pos Point
}

// Manager owns the grid, the last rendered geometry and the tooltip state,
// and exposes the chart operations the host UI and the playback controller
// call. Host callbacks run on the calling goroutine, outside the lock.
type Manager struct {
	ds       *dataset.Dataset
	renderer *Renderer
	hit      *HitTester
	tipStyle TooltipStyle

	mu          sync.Mutex
	cells       []timeline.MonthCell
	geom        *Geometry
	proj        Projection
	cursor      int
	highlighted *dataset.Event
	viewport    Size
	dpr         float64
	scrollX     float64
	tipSize     Size
	tip         TooltipState

	onFrame   func(*Frame)
	onTooltip func(TooltipState)
	onHover   func(*dataset.Event)
	onScroll  func(float64)
}

// NewManager builds a manager over ds with every category active and the
// full year range.
func NewManager(ds *dataset.Dataset, opts Options) *Manager {
	l := opts.Layout
	if l.MaxScale <= 0 {
		l = DefaultLayout()
	}
	cooldown := opts.HoverCooldown
	if cooldown == 0 {
		cooldown = DefaultHoverCooldown
	}
	st := opts.Tooltip
	if st.Width <= 0 {
		st = DefaultTooltipStyle()
	}
	m := &Manager{
		ds:       ds,
		renderer: NewRenderer(ds, l),
		hit:      NewHitTester(opts.HitTolerance, cooldown),
		tipStyle: st,
		cursor:   NoCursor,
		dpr:      1,
		tipSize:  Size{W: st.Width, H: 150},
	}
	if ds != nil {
		m.cells = timeline.Build(ds, timeline.NewCategorySet(ds.CategoryIDs()...), nil)
	}
	m.proj = NewProjection(l, len(m.cells), 0)
	return m
}

// OnFrame registers the callback receiving every rendered frame.
func (m *Manager) OnFrame(fn func(*Frame)) { m.mu.Lock(); m.onFrame = fn; m.mu.Unlock() }

// OnTooltip registers the callback receiving tooltip changes.
func (m *Manager) OnTooltip(fn func(TooltipState)) { m.mu.Lock(); m.onTooltip = fn; m.mu.Unlock() }

// OnHover registers the callback fired when the pointer lands on a new bar.
func (m *Manager) OnHover(fn func(*dataset.Event)) { m.mu.Lock(); m.onHover = fn; m.mu.Unlock() }

// OnScroll registers the callback asked to move the viewport.
func (m *Manager) OnScroll(fn func(float64)) { m.mu.Lock(); m.onScroll = fn; m.mu.Unlock() }

// Update rebuilds the grid over the full year range.
func (m *Manager) Update(active timeline.CategorySet) {
	m.rebuild(active, nil)
}

// UpdateWithYearRange rebuilds the grid restricted to yr.
func (m *Manager) UpdateWithYearRange(active timeline.CategorySet, yr timeline.YearRange) {
	m.rebuild(active, &yr)
}

func (m *Manager) rebuild(active timeline.CategorySet, yr *timeline.YearRange) {
	cells := timeline.Build(m.ds, active, yr)
	m.mu.Lock()
	m.cells = cells
	m.geom = nil
	m.mu.Unlock()
	m.Draw(true)
}

// SetHighlightedEvent highlights ev (nil clears) and redraws without moving
// the viewport.
func (m *Manager) SetHighlightedEvent(ev *dataset.Event) {
	m.mu.Lock()
	m.highlighted = ev
	m.mu.Unlock()
	m.Draw(false)
}

// SetPlaybackPosition moves the dashed cursor to grid slot i.
func (m *Manager) SetPlaybackPosition(i int) {
	m.mu.Lock()
	m.cursor = i
	m.mu.Unlock()
	m.Draw(false)
}

// ClearPlaybackLine removes the cursor.
func (m *Manager) ClearPlaybackLine() {
	m.SetPlaybackPosition(NoCursor)
}

// SetViewport records the visible container size and device pixel ratio.
// The caller redraws, usually through a debouncer.
func (m *Manager) SetViewport(size Size, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	m.mu.Lock()
	m.viewport = size
	m.dpr = dpr
	m.mu.Unlock()
}

// SetScroll records the current horizontal scroll offset.
func (m *Manager) SetScroll(x float64) {
	m.mu.Lock()
	m.scrollX = x
	m.mu.Unlock()
}

// SetTooltipSize records the measured tooltip size used for placement.
func (m *Manager) SetTooltipSize(s Size) {
	m.mu.Lock()
	if s.W > 0 {
		m.tipSize.W = s.W
	}
	if s.H > 0 {
		m.tipSize.H = s.H
	}
	m.mu.Unlock()
}

// Draw renders the current state. resetScroll asks the host to return the
// viewport to the start. A missing surface is logged and ignored.
func (m *Manager) Draw(resetScroll bool) {
	m.mu.Lock()
	sc := Scene{
		Cells:           m.cells,
		Cursor:          m.cursor,
		Highlighted:     m.highlighted,
		ContainerHeight: m.viewport.H,
		DPR:             m.dpr,
		ResetScroll:     resetScroll,
	}
	frame, err := m.renderer.Render(sc)
	if err != nil {
		m.mu.Unlock()
		if errors.Is(err, ErrNoSurface) {
			logger.Debug("chart draw skipped: %v", err)
			return
		}
		logger.Warn("chart draw failed: %v", err)
		return
	}
	m.geom = frame.Geometry
	m.proj = frame.Projection
	if resetScroll {
		m.scrollX = 0
	}
	fn := m.onFrame
	m.mu.Unlock()

	if fn != nil {
		fn(frame)
	}
}

// ScrollToIndex centers grid slot i in the viewport.
func (m *Manager) ScrollToIndex(i int) {
	m.mu.Lock()
	x := m.proj.CenterScroll(i, m.viewport.W)
	m.scrollX = x
	fn := m.onScroll
	m.mu.Unlock()
	if fn != nil {
		fn(x)
	}
}

// PointerMoved handles a pointer position relative to the visible container.
func (m *Manager) PointerMoved(p Point) {
	m.mu.Lock()
	content := Point{X: p.X + m.scrollX, Y: p.Y}
	geom := m.geom
	prev := m.highlighted
	m.mu.Unlock()

	ev, changed := m.hit.Test(geom, content)
	if !changed {
		return
	}
	if ev == nil {
		if prev != nil || m.tooltipVisible() {
			m.SetHighlightedEvent(nil)
			m.HideTooltip()
		}
		return
	}
	if prev == nil || prev.Date != ev.Date {
		m.mu.Lock()
		fn := m.onHover
		m.mu.Unlock()
		if fn != nil {
			fn(ev)
		}
	}
	m.SetHighlightedEvent(ev)
	m.ShowTooltip(ev, p)
}

// PointerLeft clears hover state.
func (m *Manager) PointerLeft() {
	m.SetHighlightedEvent(nil)
	m.HideTooltip()
}

// ShowTooltip shows the info panel for ev anchored at a position relative
// to the visible container.
func (m *Manager) ShowTooltip(ev *dataset.Event, anchor Point) {
	content, ok := DescribeEvent(m.ds, ev)
	if !ok {
		return
	}
	m.mu.Lock()
	pos := PlaceTooltip(anchor, m.viewport, m.scrollX, m.tipSize, m.tipStyle)
	m.tip = TooltipState{Visible: true, Event: ev, Content: content, Pos: pos}
	st, fn := m.tip, m.onTooltip
	m.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}

// ShowTooltipForIndex anchors the tooltip at the rendered top of the bar in
// slot i. It does nothing when no bar was drawn there.
func (m *Manager) ShowTooltipForIndex(i int) {
	m.mu.Lock()
	bar, ok := m.geom.At(i)
	scroll := m.scrollX
	m.mu.Unlock()
	if !ok {
		return
	}
	m.ShowTooltip(bar.Event, Point{X: bar.X - scroll, Y: bar.TopY})
}

// HideTooltip hides the info panel and starts the hover cooldown.
func (m *Manager) HideTooltip() {
	m.mu.Lock()
	wasVisible := m.tip.Visible
	m.tip = TooltipState{}
	fn := m.onTooltip
	m.mu.Unlock()
	if !wasVisible {
		return
	}
	m.hit.Suppress()
	if fn != nil {
		fn(TooltipState{})
	}
}

func (m *Manager) tooltipVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tip.Visible
}

// Cells returns the current grid.
func (m *Manager) Cells() []timeline.MonthCell {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cells
}

// Geometry returns the geometry of the last render pass, or nil if the grid
// changed since.
func (m *Manager) Geometry() *Geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.geom
}

// Highlighted returns the highlighted event.
func (m *Manager) Highlighted() *dataset.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highlighted
}

// Cursor returns the cursor slot or NoCursor.
func (m *Manager) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Tooltip returns the current tooltip state.
func (m *Manager) Tooltip() TooltipState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tip
}

// Projection returns the projection of the last render pass.
func (m *Manager) Projection() Projection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proj
}
