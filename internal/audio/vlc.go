package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	vlc "github.com/adrg/libvlc-go/v3"

	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/logger"
)

// VLC plays cue files through libVLC. Hover cues use their own player so
// they can run at a lower volume; any new cue replaces the one playing.
// Every libVLC call is serialised by vlcMu.
type VLC struct {
	ds       *dataset.Dataset
	soundDir string
	hover    *rateGate

	// single lock guarding all C/libVLC invocations
	vlcMu       sync.Mutex
	ready       bool
	initialised bool
	eventPlayer *vlc.Player
	hoverPlayer *vlc.Player
	media       map[dataset.CategoryID]*vlc.Media

	// internal lock for volume state (not for libVLC)
	mu     sync.Mutex
	volume int
	muted  bool
}

// NewVLC builds an uninitialised libVLC backend. Call Init before playing.
func NewVLC(ds *dataset.Dataset, opts Options) *VLC {
	return &VLC{
		ds:       ds,
		soundDir: opts.SoundDir,
		hover:    newRateGate(opts.HoverInterval),
		volume:   clamp(opts.Volume, 0, 100),
		media:    make(map[dataset.CategoryID]*vlc.Media),
	}
}

// SoundPath resolves the cue file for a category.
func SoundPath(dir string, c dataset.Category) string {
	if dir == "" {
		dir = "sounds"
	}
	return filepath.Join(dir, c.Sound)
}

// Init starts libVLC and loads every category cue. A failed attempt leaves
// the backend not ready and may be retried.
func (a *VLC) Init(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	a.vlcMu.Lock()
	defer a.vlcMu.Unlock()
	if a.ready {
		return true
	}
	if err := a.initLocked(); err != nil {
		logger.Warn("audio init failed: %v", err)
		a.releaseLocked()
		return false
	}
	a.ready = true
	logger.Info("audio ready: %d cues from %s", len(a.media), a.soundDir)
	return true
}

func (a *VLC) initLocked() error {
	if a.ds == nil {
		return fmt.Errorf("no dataset")
	}
	for _, c := range a.ds.Categories {
		p := SoundPath(a.soundDir, c)
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("cue for %q: %w", c.ID, err)
		}
	}

	if exe, err := os.Executable(); err == nil {
		plugins := filepath.Join(filepath.Dir(exe), "plugins")
		if st, err := os.Stat(plugins); err == nil && st.IsDir() {
			_ = os.Setenv("VLC_PLUGIN_PATH", plugins)
		}
	}
	if err := vlc.Init(vlcArgs(isTraceLoggingEnabled())...); err != nil {
		return fmt.Errorf("libvlc init failed: %w", err)
	}
	a.initialised = true

	var err error
	if a.eventPlayer, err = vlc.NewPlayer(); err != nil {
		return fmt.Errorf("new event player failed: %w", err)
	}
	if a.hoverPlayer, err = vlc.NewPlayer(); err != nil {
		return fmt.Errorf("new hover player failed: %w", err)
	}
	for _, c := range a.ds.Categories {
		m, err := vlc.NewMediaFromPath(SoundPath(a.soundDir, c))
		if err != nil {
			return fmt.Errorf("load cue %q: %w", c.Sound, err)
		}
		a.media[c.ID] = m
	}
	a.applyVolumeLocked()
	return nil
}

// Cue reverb, rendered by libVLC's spatializer filter. A room size of 0.6
// rings out in roughly a second and a half.
const (
	reverbRoomSize = 0.6
	reverbWet      = 0.4
	reverbDry      = 1 - reverbWet
)

func vlcArgs(trace bool) []string {
	args := []string{
		"--no-video", "--no-color", "--quiet",
		"--audio-filter=spatializer",
		fmt.Sprintf("--spatializer-roomsize=%.2f", reverbRoomSize),
		fmt.Sprintf("--spatializer-wet=%.2f", reverbWet),
		fmt.Sprintf("--spatializer-dry=%.2f", reverbDry),
	}
	if trace {
		args = append(args, "--verbose=2", "--file-logging", "--log-verbose=2", "--logfile=vlc.log")
	}
	return args
}

func (a *VLC) applyVolumeLocked() {
	a.mu.Lock()
	v := effectiveVolume(a.volume, a.muted)
	a.mu.Unlock()
	if a.eventPlayer != nil {
		_ = a.eventPlayer.SetVolume(v)
	}
	if a.hoverPlayer != nil {
		_ = a.hoverPlayer.SetVolume(hoverVolume(v))
	}
}

func (a *VLC) playOn(hover bool, ev *dataset.Event) {
	if ev == nil {
		return
	}
	a.vlcMu.Lock()
	defer a.vlcMu.Unlock()
	if !a.ready {
		return
	}
	p := a.eventPlayer
	if hover {
		p = a.hoverPlayer
	}
	m, ok := a.media[ev.Category]
	if !ok {
		logger.Debug("no cue for category %q", ev.Category)
		return
	}
	// a new cue replaces whatever was playing
	_ = a.eventPlayer.Stop()
	_ = a.hoverPlayer.Stop()
	if err := p.SetMedia(m); err != nil {
		logger.Warn("set cue media failed: %v", err)
		return
	}
	if err := p.Play(); err != nil {
		logger.Warn("play cue failed: %v", err)
	}
}

// PlayEventSound plays the category cue of ev.
func (a *VLC) PlayEventSound(ev *dataset.Event) {
	a.playOn(false, ev)
}

// PlayHoverSound plays an attenuated cue, at most once per hover interval.
func (a *VLC) PlayHoverSound(ev *dataset.Event) {
	if !a.hover.Allow() {
		return
	}
	a.playOn(true, ev)
}

// StopAllSounds silences both players.
func (a *VLC) StopAllSounds() {
	a.vlcMu.Lock()
	defer a.vlcMu.Unlock()
	if a.eventPlayer != nil {
		_ = a.eventPlayer.Stop()
	}
	if a.hoverPlayer != nil {
		_ = a.hoverPlayer.Stop()
	}
}

// SetVolume clamps and applies an absolute volume level (0-100).
func (a *VLC) SetVolume(level int) {
	a.mu.Lock()
	a.volume = clamp(level, 0, 100)
	a.mu.Unlock()
	a.vlcMu.Lock()
	a.applyVolumeLocked()
	a.vlcMu.Unlock()
}

// ToggleMute flips the mute state, returning the new muted flag and volume.
func (a *VLC) ToggleMute() (bool, int) {
	a.mu.Lock()
	a.muted = !a.muted
	muted, v := a.muted, a.volume
	a.mu.Unlock()
	a.vlcMu.Lock()
	a.applyVolumeLocked()
	a.vlcMu.Unlock()
	return muted, v
}

// Volume returns the stored volume level.
func (a *VLC) Volume() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.volume
}

// Release frees every libVLC resource.
func (a *VLC) Release() {
	a.vlcMu.Lock()
	defer a.vlcMu.Unlock()
	a.releaseLocked()
}

func (a *VLC) releaseLocked() {
	for id, m := range a.media {
		_ = m.Release()
		delete(a.media, id)
	}
	for _, p := range []*vlc.Player{a.eventPlayer, a.hoverPlayer} {
		if p != nil {
			_ = p.Stop()
			_ = p.Release()
		}
	}
	a.eventPlayer, a.hoverPlayer = nil, nil
	if a.initialised {
		_ = vlc.Release()
		a.initialised = false
	}
	a.ready = false
}
