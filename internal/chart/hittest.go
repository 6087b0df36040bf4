package chart

import (
	"math"
	"sync"
	"time"

	"github.com/edward-ap/pizzaindex/internal/dataset"
)

const (
	DefaultHitTolerance  = 10.0
	DefaultHoverCooldown = 100 * time.Millisecond
)

// HitTester resolves pointer positions against the geometry of the most
// recent render pass. After a tooltip is dismissed it stays quiet for
// Cooldown so a pointer resting on the bar edge does not flicker.
type HitTester struct {
	Tolerance float64
	Cooldown  time.Duration

	mu         sync.Mutex
	now        func() time.Time
	quietUntil time.Time
}

// NewHitTester returns a tester with the given tolerance and cooldown.
func NewHitTester(tolerance float64, cooldown time.Duration) *HitTester {
	if tolerance <= 0 {
		tolerance = DefaultHitTolerance
	}
	if cooldown < 0 {
		cooldown = 0
	}
	return &HitTester{Tolerance: tolerance, Cooldown: cooldown, now: time.Now}
}

// Find returns the first bar (in grid order) whose center is within the
// horizontal tolerance of p and whose vertical span contains p.Y.
func (h *HitTester) Find(g *Geometry, p Point) (BarGeometry, bool) {
	for _, b := range g.Bars() {
		if math.Abs(p.X-b.X) < h.Tolerance && p.Y >= b.TopY && p.Y <= b.BaseY {
			return b, true
		}
	}
	return BarGeometry{}, false
}

// Test is Find gated by the cooldown. A nil event with ok=false means the
// tester is cooling down and the caller should leave the tooltip alone.
func (h *HitTester) Test(g *Geometry, p Point) (*dataset.Event, bool) {
	if h.cooling() {
		return nil, false
	}
	b, hit := h.Find(g, p)
	if !hit {
		return nil, true
	}
	return b.Event, true
}

// Suppress starts the cooldown window.
func (h *HitTester) Suppress() {
	h.mu.Lock()
	h.quietUntil = h.clock()().Add(h.Cooldown)
	h.mu.Unlock()
}

func (h *HitTester) cooling() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock()().Before(h.quietUntil)
}

func (h *HitTester) clock() func() time.Time {
	if h.now == nil {
		return time.Now
	}
	return h.now
}
