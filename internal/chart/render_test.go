package chart

import (
	"errors"
	"reflect"
	"testing"
)

func TestRenderNoSurface(t *testing.T) {
	ds := testDataset()
	r := NewRenderer(ds, DefaultLayout())
	_, err := r.Render(Scene{Cells: testCells(ds), Cursor: NoCursor})
	if !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
}

func TestRenderGeometry(t *testing.T) {
	ds := testDataset()
	cells := testCells(ds)
	r := NewRenderer(ds, DefaultLayout())
	f, err := r.Render(Scene{Cells: cells, Cursor: NoCursor, ContainerHeight: 500, DPR: 2})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if f.Geometry.Len() != 2 {
		t.Fatalf("bars = %d, want 2", f.Geometry.Len())
	}
	bar, ok := f.Geometry.At(8)
	if !ok {
		t.Fatalf("no bar for September")
	}
	if bar.Event == nil || bar.Event.Date != "2001-09-11" {
		t.Fatalf("bar event = %+v", bar.Event)
	}
	if bar.X != f.Projection.X(8) || bar.TopY != f.Projection.Y(220) || bar.BaseY != f.Projection.Floor() {
		t.Fatalf("bar geometry %+v does not match projection", bar)
	}
	b := f.Image.Bounds()
	if b.Dx() < int(f.Projection.Width()*2) || b.Dy() < int(f.Projection.Height*2) {
		t.Fatalf("image %v not scaled by dpr", b)
	}
}

func TestRenderIdempotent(t *testing.T) {
	ds := testDataset()
	cells := testCells(ds)
	r := NewRenderer(ds, DefaultLayout())
	sc := Scene{Cells: cells, Cursor: 3, Highlighted: cells[8].Event, ContainerHeight: 480, DPR: 1}
	a, err := r.Render(sc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := r.Render(sc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !reflect.DeepEqual(a.Geometry.Bars(), b.Geometry.Bars()) {
		t.Fatalf("geometry differs between identical passes")
	}
	if !reflect.DeepEqual(a.Image.Pix, b.Image.Pix) {
		t.Fatalf("pixels differ between identical passes")
	}
}

func TestRenderHighlightDarkensBar(t *testing.T) {
	ds := testDataset()
	cells := testCells(ds)
	r := NewRenderer(ds, DefaultLayout())
	f, err := r.Render(Scene{Cells: cells, Cursor: NoCursor, Highlighted: cells[8].Event, ContainerHeight: 500, DPR: 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	bar, _ := f.Geometry.At(8)
	// sample just below the top, away from the rounded corners
	got := f.Image.RGBAAt(int(bar.X), int(bar.TopY)+20)
	want := Darken(r.CategoryColor(terror), 0.3)
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Fatalf("highlighted pixel = %v, want %v", got, want)
	}
}
