// Package audio plays the per-category cue sounds used while hovering and
// during playback.
package audio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/edward-ap/pizzaindex/internal/dataset"
)

const (
	// DefaultHoverInterval is the minimum spacing between hover cues.
	DefaultHoverInterval = 400 * time.Millisecond
	// hoverGainDB attenuates hover cues relative to event cues.
	hoverGainDB = -10.0
)

// Backend is the audio collaborator used by the chart and the playback
// controller.
type Backend interface {
	// Init primes the backend and reports readiness. It is idempotent.
	Init(ctx context.Context) bool
	PlayEventSound(ev *dataset.Event)
	// PlayHoverSound is rate limited; calls inside the interval are dropped.
	PlayHoverSound(ev *dataset.Event)
	StopAllSounds()
	SetVolume(level int)
	// ToggleMute flips the mute flag and returns it with the stored volume.
	ToggleMute() (muted bool, volume int)
	Volume() int
	Release()
}

// Options configures New.
type Options struct {
	Enabled       bool
	SoundDir      string
	Volume        int
	HoverInterval time.Duration
}

// New returns a libVLC backed player when audio is enabled and a silent one
// otherwise.
func New(ds *dataset.Dataset, opts Options) Backend {
	if !opts.Enabled {
		return NewSilent(opts.Volume)
	}
	return NewVLC(ds, opts)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// effectiveVolume is what the mixer gets for a stored level.
func effectiveVolume(level int, muted bool) int {
	if muted {
		return 0
	}
	return clamp(level, 0, 100)
}

// hoverVolume applies the hover attenuation to an effective volume.
func hoverVolume(v int) int {
	return int(math.Round(float64(v) * math.Pow(10, hoverGainDB/20)))
}

// rateGate lets one call through per interval.
type rateGate struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

func newRateGate(interval time.Duration) *rateGate {
	if interval <= 0 {
		interval = DefaultHoverInterval
	}
	return &rateGate{interval: interval, now: time.Now}
}

func (g *rateGate) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := g.now()
	if !g.last.IsZero() && t.Sub(g.last) < g.interval {
		return false
	}
	g.last = t
	return true
}

// Silent satisfies Backend without producing sound. It is always ready.
type Silent struct {
	mu     sync.Mutex
	volume int
	muted  bool
}

// NewSilent returns a silent backend holding the given volume.
func NewSilent(volume int) *Silent {
	return &Silent{volume: clamp(volume, 0, 100)}
}

func (s *Silent) Init(context.Context) bool     { return true }
func (s *Silent) PlayEventSound(*dataset.Event) {}
func (s *Silent) PlayHoverSound(*dataset.Event) {}
func (s *Silent) StopAllSounds()                {}
func (s *Silent) Release()                      {}

func (s *Silent) SetVolume(level int) {
	s.mu.Lock()
	s.volume = clamp(level, 0, 100)
	s.mu.Unlock()
}

func (s *Silent) ToggleMute() (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
	return s.muted, s.volume
}

func (s *Silent) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}
