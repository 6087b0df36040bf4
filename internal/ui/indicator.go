package ui

import (
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
)

// PlaybackIndicator is a small circle that glows through warm hues while the
// timeline is playing and rests gray otherwise.
type PlaybackIndicator struct {
	wrap   *fyne.Container
	circle *canvas.Circle

	mu  sync.Mutex
	on  bool
	gen uint64 // bumped on every state change; an animator owns one value

	animators atomic.Int32
}

var indicatorIdle = color.NRGBA{0x80, 0x80, 0x80, 0xFF}

const (
	indicatorHueLow  = 0.0
	indicatorHueHigh = 45.0
)

// NewPlaybackIndicator constructs an indicator with the given diameter.
func NewPlaybackIndicator(diameter float32) *PlaybackIndicator {
	c := canvas.NewCircle(indicatorIdle)
	c.StrokeColor = color.NRGBA{0, 0, 0, 0}
	inner := container.New(layout.NewGridWrapLayout(fyne.NewSize(diameter, diameter)), c)
	wrap := container.NewCenter(inner)
	return &PlaybackIndicator{wrap: wrap, circle: c}
}

// CanvasObject returns the fyne object suitable for embedding in layouts.
func (s *PlaybackIndicator) CanvasObject() fyne.CanvasObject { return s.wrap }

// SetActive starts or stops the glow. Safe to call from any goroutine.
func (s *PlaybackIndicator) SetActive(on bool) {
	s.mu.Lock()
	if s.on == on {
		s.mu.Unlock()
		return
	}
	s.on = on
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if on {
		go s.animate(gen)
		return
	}
	CallOnMain(func() {
		s.circle.FillColor = indicatorIdle
		s.circle.Refresh()
	})
}

// current reports whether gen is still the live generation.
func (s *PlaybackIndicator) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func (s *PlaybackIndicator) animate(gen uint64) {
	s.animators.Add(1)
	defer s.animators.Add(-1)

	t := time.NewTicker(90 * time.Millisecond)
	defer t.Stop()
	phase := 0.0
	for s.current(gen) {
		<-t.C
		phase += 0.15
		col := hsvToNRGBA(indicatorHue(phase), 0.8, 0.95)
		CallOnMain(func() {
			// a stale tick must not repaint over the idle colour
			if !s.current(gen) {
				return
			}
			s.circle.FillColor = col
			s.circle.Refresh()
		})
	}
}

// indicatorHue swings between the low and high hue as phase advances.
func indicatorHue(phase float64) float64 {
	t := (1 - math.Cos(phase)) / 2
	return indicatorHueLow + t*(indicatorHueHigh-indicatorHueLow)
}

// hsvToNRGBA converts HSV (0..360, 0..1, 0..1) to color.NRGBA.
func hsvToNRGBA(h, s, v float64) color.NRGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60.0, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.NRGBA{
		R: uint8((r+m)*255 + 0.5),
		G: uint8((g+m)*255 + 0.5),
		B: uint8((b+m)*255 + 0.5),
		A: 0xFF,
	}
}
