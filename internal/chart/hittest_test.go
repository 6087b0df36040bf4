package chart

import (
	"testing"
	"time"
)

func renderedGeometry(t *testing.T) *Geometry {
	t.Helper()
	ds := testDataset()
	f, err := NewRenderer(ds, DefaultLayout()).Render(Scene{Cells: testCells(ds), Cursor: NoCursor, ContainerHeight: 500, DPR: 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return f.Geometry
}

func TestHitTesterTolerance(t *testing.T) {
	g := renderedGeometry(t)
	bar, ok := g.At(8)
	if !ok {
		t.Fatalf("missing bar")
	}
	h := NewHitTester(10, 0)
	tests := []struct {
		name string
		p    Point
		hit  bool
	}{
		{name: "exact top", p: Point{X: bar.X, Y: bar.TopY}, hit: true},
		{name: "base", p: Point{X: bar.X, Y: bar.BaseY}, hit: true},
		{name: "inside tolerance", p: Point{X: bar.X + 9.5, Y: bar.TopY + 1}, hit: true},
		{name: "11px right", p: Point{X: bar.X + 11, Y: bar.TopY}, hit: false},
		{name: "11px left", p: Point{X: bar.X - 11, Y: bar.TopY}, hit: false},
		{name: "above top", p: Point{X: bar.X, Y: bar.TopY - 1}, hit: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, changed := h.Test(g, tt.p)
			if !changed {
				t.Fatalf("unexpected cooldown")
			}
			if tt.hit && (ev == nil || ev.Date != "2001-09-11") {
				t.Fatalf("expected September event, got %+v", ev)
			}
			if !tt.hit && ev != nil {
				t.Fatalf("expected no hit, got %+v", ev)
			}
		})
	}
}

func TestHitTesterStaleGeometry(t *testing.T) {
	h := NewHitTester(10, 0)
	ev, changed := h.Test(nil, Point{X: 128, Y: 100})
	if ev != nil || !changed {
		t.Fatalf("nil geometry should report a plain miss, got %+v %v", ev, changed)
	}
}

func TestHitTesterCooldown(t *testing.T) {
	g := renderedGeometry(t)
	bar, _ := g.At(8)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewHitTester(10, 100*time.Millisecond)
	h.now = func() time.Time { return now }

	h.Suppress()
	if ev, changed := h.Test(g, Point{X: bar.X, Y: bar.TopY}); changed || ev != nil {
		t.Fatalf("hit during cooldown: %+v %v", ev, changed)
	}
	now = now.Add(99 * time.Millisecond)
	if _, changed := h.Test(g, Point{X: bar.X, Y: bar.TopY}); changed {
		t.Fatalf("cooldown ended early")
	}
	now = now.Add(time.Millisecond)
	if ev, changed := h.Test(g, Point{X: bar.X, Y: bar.TopY}); !changed || ev == nil {
		t.Fatalf("expected hit after cooldown, got %+v %v", ev, changed)
	}
}
