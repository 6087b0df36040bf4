// Package playback walks the monthly grid one cell at a time, keeping the
// chart cursor, highlight, tooltip and audio cues in step.
package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/logger"
	"github.com/edward-ap/pizzaindex/internal/timeline"
)

const (
	DefaultEventDwell = 4000 * time.Millisecond
	DefaultEmptyDwell = 25 * time.Millisecond
)

// ErrAudioNotReady is returned by Start when the audio backend could not be
// primed. The controller stays idle and the caller may try again.
var ErrAudioNotReady = errors.New("audio not ready")

// Audio is the part of the audio backend playback drives.
type Audio interface {
	Init(ctx context.Context) bool
	PlayEventSound(ev *dataset.Event)
	StopAllSounds()
}

// View is the part of the chart and host UI playback drives.
type View interface {
	SetPlaybackPosition(i int)
	ClearPlaybackLine()
	ScrollToIndex(i int)
	SetHighlightedEvent(ev *dataset.Event)
	ShowTooltipForIndex(i int)
	HideTooltip()
	// SetPlaying toggles the play/stop affordances.
	SetPlaying(playing bool)
}

// State is a snapshot of the controller.
type State struct {
	Playing     bool
	RunID       string
	Cursor      int // -1 when idle
	Highlighted *dataset.Event
}

// Options tunes the dwell times. Zero values use the defaults.
type Options struct {
	EventDwell time.Duration
	EmptyDwell time.Duration
	Scheduler  Scheduler
}

type run struct {
	id      string
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// Controller is the Idle/Playing state machine.
type Controller struct {
	audio Audio
	view  View
	sched Scheduler
	event time.Duration
	empty time.Duration

	mu          sync.Mutex
	cur         *run
	cursor      int
	highlighted *dataset.Event
}

// New returns an idle controller.
func New(audio Audio, view View, opts Options) *Controller {
	c := &Controller{
		audio:  audio,
		view:   view,
		sched:  opts.Scheduler,
		event:  opts.EventDwell,
		empty:  opts.EmptyDwell,
		cursor: -1,
	}
	if c.sched == nil {
		c.sched = TimerScheduler{}
	}
	if c.event <= 0 {
		c.event = DefaultEventDwell
	}
	if c.empty <= 0 {
		c.empty = DefaultEmptyDwell
	}
	return c
}

// Start begins walking the grid returned by cells. It returns
// ErrAudioNotReady if the audio backend refuses to initialise. Starting while
// playing is a no-op.
//
// cells is read under the controller lock once the backend is ready, so a
// grid rebuilt while Init blocks is the one that gets walked.
func (c *Controller) Start(ctx context.Context, cells func() []timeline.MonthCell) error {
	if c.IsPlaying() {
		return nil
	}
	if !c.audio.Init(ctx) {
		logger.Warn("playback refused: audio not ready")
		return ErrAudioNotReady
	}

	c.mu.Lock()
	if c.cur != nil {
		c.mu.Unlock()
		return nil
	}
	grid := cells()
	runCtx, cancel := context.WithCancel(ctx)
	r := &run{id: uuid.NewString(), cancel: cancel, done: make(chan struct{})}
	c.cur = r
	c.view.SetPlaying(true)
	c.mu.Unlock()

	logger.Info("playback %s started: %d months", r.id, len(grid))
	go c.loop(runCtx, r, grid)
	return nil
}

func (c *Controller) loop(ctx context.Context, r *run, cells []timeline.MonthCell) {
	defer close(r.done)
	for i := range cells {
		d, ok := c.step(r, i, cells[i])
		if !ok {
			return
		}
		if err := c.sched.Wait(ctx, d); err != nil {
			logger.Debug("playback %s wait interrupted at %d: %v", r.id, i, err)
			break
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r.stopped || c.cur != r {
		return
	}
	logger.Info("playback %s finished", r.id)
	c.teardown(r)
}

// step runs one step body under the lock. ok is false once r was stopped.
func (c *Controller) step(r *run, i int, cell timeline.MonthCell) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.stopped || c.cur != r {
		return 0, false
	}
	c.cursor = i
	c.view.SetPlaybackPosition(i)
	c.view.ScrollToIndex(i)
	if cell.Event != nil {
		logger.Debug("playback %s: %s %s", r.id, cell.Date, cell.Event.Label)
		c.audio.PlayEventSound(cell.Event)
		c.highlighted = cell.Event
		c.view.SetHighlightedEvent(cell.Event)
		c.view.ShowTooltipForIndex(i)
		return c.event, true
	}
	c.highlighted = nil
	c.view.SetHighlightedEvent(nil)
	c.view.HideTooltip()
	return c.empty, true
}

// Stop ends the current run, if any, and returns everything to rest.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.cur
	if r == nil {
		return
	}
	logger.Info("playback %s stopped at %d", r.id, c.cursor)
	c.teardown(r)
}

// teardown must be called with c.mu held.
func (c *Controller) teardown(r *run) {
	r.stopped = true
	r.cancel()
	c.cur = nil
	c.cursor = -1
	c.highlighted = nil
	c.audio.StopAllSounds()
	c.view.ClearPlaybackLine()
	c.view.SetHighlightedEvent(nil)
	c.view.HideTooltip()
	c.view.SetPlaying(false)
}

// IsPlaying reports whether a run is active.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil
}

// State returns a snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{Cursor: c.cursor, Highlighted: c.highlighted}
	if c.cur != nil {
		st.Playing = true
		st.RunID = c.cur.id
	}
	return st
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Done is closed when the current run's goroutine has exited. When idle it
// returns an already closed channel.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return closedCh
	}
	return c.cur.done
}
