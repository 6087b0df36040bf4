package playback

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/timeline"
)

type fakeAudio struct {
	mu     sync.Mutex
	ready  bool
	inits  int
	played []string
	active int
}

func (a *fakeAudio) Init(context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inits++
	return a.ready
}

func (a *fakeAudio) PlayEventSound(ev *dataset.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.played = append(a.played, ev.Date)
	a.active = 1
}

func (a *fakeAudio) StopAllSounds() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = 0
}

type fakeView struct {
	mu        sync.Mutex
	positions []int
	cursor    int
	highlight *dataset.Event
	tooltip   bool
	playing   bool
}

func (v *fakeView) SetPlaybackPosition(i int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.positions = append(v.positions, i)
	v.cursor = i
}
func (v *fakeView) ClearPlaybackLine() { v.mu.Lock(); v.cursor = -1; v.mu.Unlock() }
func (v *fakeView) ScrollToIndex(int)  {}
func (v *fakeView) SetHighlightedEvent(ev *dataset.Event) {
	v.mu.Lock()
	v.highlight = ev
	v.mu.Unlock()
}
func (v *fakeView) ShowTooltipForIndex(int) { v.mu.Lock(); v.tooltip = true; v.mu.Unlock() }
func (v *fakeView) HideTooltip()            { v.mu.Lock(); v.tooltip = false; v.mu.Unlock() }
func (v *fakeView) SetPlaying(p bool)       { v.mu.Lock(); v.playing = p; v.mu.Unlock() }

// fakeScheduler records dwells and returns immediately. onWait, if set, runs
// before a wait returns with the zero-based wait number.
type fakeScheduler struct {
	mu     sync.Mutex
	waits  []time.Duration
	onWait func(n int)
}

func (s *fakeScheduler) Wait(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	n := len(s.waits)
	s.waits = append(s.waits, d)
	hook := s.onWait
	s.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return nil
}

func threeCells() []timeline.MonthCell {
	ev := &dataset.Event{Date: "2001-09-11", Magnitude: 220, Label: "11 de Septiembre", Category: "Atentados Terroristas"}
	return []timeline.MonthCell{
		{MonthIndex: 0, Date: "2001-08", Baseline: 61},
		{MonthIndex: 1, Date: "2001-09", Baseline: 61, Excess: 159, Event: ev},
		{MonthIndex: 2, Date: "2001-10", Baseline: 61},
	}
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("playback did not finish")
	}
}

func TestPlaybackDwells(t *testing.T) {
	audio := &fakeAudio{ready: true}
	view := &fakeView{}
	sched := &fakeScheduler{}
	c := New(audio, view, Options{Scheduler: sched})

	if err := c.Start(context.Background(), threeCells); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, c.Done())

	want := []time.Duration{25 * time.Millisecond, 4000 * time.Millisecond, 25 * time.Millisecond}
	if !reflect.DeepEqual(sched.waits, want) {
		t.Fatalf("dwells = %v, want %v", sched.waits, want)
	}
	var total time.Duration
	for _, d := range sched.waits {
		total += d
	}
	if total != 4050*time.Millisecond {
		t.Fatalf("total dwell = %v", total)
	}
	if !reflect.DeepEqual(view.positions, []int{0, 1, 2}) {
		t.Fatalf("positions = %v", view.positions)
	}
	if !reflect.DeepEqual(audio.played, []string{"2001-09-11"}) {
		t.Fatalf("played = %v", audio.played)
	}
	assertIdle(t, c, audio, view)
}

func TestPlaybackStopAtAnyStep(t *testing.T) {
	cells := threeCells()
	for stopAt := range cells {
		audio := &fakeAudio{ready: true}
		view := &fakeView{}
		sched := &fakeScheduler{}
		c := New(audio, view, Options{Scheduler: sched})
		sched.onWait = func(n int) {
			if n == stopAt {
				c.Stop()
			}
		}
		if err := c.Start(context.Background(), func() []timeline.MonthCell { return cells }); err != nil {
			t.Fatalf("Start: %v", err)
		}
		done := c.Done()
		waitDone(t, done)

		if got := len(view.positions); got != stopAt+1 {
			t.Fatalf("stop at %d: ran %d steps", stopAt, got)
		}
		assertIdle(t, c, audio, view)
	}
}

func TestPlaybackRefusedWhenAudioNotReady(t *testing.T) {
	audio := &fakeAudio{}
	view := &fakeView{}
	c := New(audio, view, Options{Scheduler: &fakeScheduler{}})
	err := c.Start(context.Background(), threeCells)
	if !errors.Is(err, ErrAudioNotReady) {
		t.Fatalf("expected ErrAudioNotReady, got %v", err)
	}
	if c.IsPlaying() || view.playing || len(view.positions) != 0 {
		t.Fatalf("controller left idle state")
	}
}

func TestPlaybackStartWhilePlayingIsNoop(t *testing.T) {
	audio := &fakeAudio{ready: true}
	view := &fakeView{}
	release := make(chan struct{})
	sched := &fakeScheduler{}
	sched.onWait = func(n int) {
		if n == 0 {
			<-release
		}
	}
	c := New(audio, view, Options{Scheduler: sched})
	if err := c.Start(context.Background(), threeCells); err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := c.State().RunID
	if err := c.Start(context.Background(), threeCells); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if c.State().RunID != id {
		t.Fatalf("second Start replaced the run")
	}
	done := c.Done()
	close(release)
	waitDone(t, done)
}

func TestPlaybackStopInterruptsRealTimer(t *testing.T) {
	audio := &fakeAudio{ready: true}
	view := &fakeView{}
	c := New(audio, view, Options{EventDwell: time.Hour, EmptyDwell: time.Hour})
	if err := c.Start(context.Background(), threeCells); err != nil {
		t.Fatalf("Start: %v", err)
	}
	done := c.Done()
	c.Stop()
	waitDone(t, done)
	assertIdle(t, c, audio, view)
	if len(view.positions) > 1 {
		t.Fatalf("steps after stop: %v", view.positions)
	}
}

func TestTimerSchedulerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (TimerScheduler{}).Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := (TimerScheduler{}).Wait(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func assertIdle(t *testing.T, c *Controller, audio *fakeAudio, view *fakeView) {
	t.Helper()
	st := c.State()
	if st.Playing || st.Cursor != -1 || st.Highlighted != nil {
		t.Fatalf("state not idle: %+v", st)
	}
	view.mu.Lock()
	defer view.mu.Unlock()
	if view.cursor != -1 || view.highlight != nil || view.tooltip || view.playing {
		t.Fatalf("view not reset: cursor=%d highlight=%v tooltip=%v playing=%v", view.cursor, view.highlight, view.tooltip, view.playing)
	}
	audio.mu.Lock()
	defer audio.mu.Unlock()
	if audio.active != 0 {
		t.Fatalf("sounds still active")
	}
}

// gatedAudio blocks Init until released, like a backend still loading cues.
type gatedAudio struct {
	fakeAudio
	entered chan struct{}
	release chan struct{}
}

func (a *gatedAudio) Init(ctx context.Context) bool {
	close(a.entered)
	<-a.release
	return a.fakeAudio.Init(ctx)
}

func TestPlaybackWalksGridRebuiltDuringInit(t *testing.T) {
	audio := &gatedAudio{fakeAudio: fakeAudio{ready: true}, entered: make(chan struct{}), release: make(chan struct{})}
	view := &fakeView{}
	c := New(audio, view, Options{Scheduler: &fakeScheduler{}})

	var mu sync.Mutex
	grid := threeCells()
	current := func() []timeline.MonthCell {
		mu.Lock()
		defer mu.Unlock()
		return grid
	}

	started := make(chan error, 1)
	go func() { started <- c.Start(context.Background(), current) }()
	<-audio.entered

	// the filters drop the only event while the backend is still loading
	mu.Lock()
	grid = []timeline.MonthCell{
		{MonthIndex: 0, Date: "2001-08", Baseline: 61},
		{MonthIndex: 1, Date: "2001-09", Baseline: 61},
	}
	mu.Unlock()
	close(audio.release)

	if err := <-started; err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, c.Done())

	if !reflect.DeepEqual(view.positions, []int{0, 1}) {
		t.Fatalf("positions = %v, want the rebuilt grid", view.positions)
	}
	if len(audio.played) != 0 {
		t.Fatalf("played cues for filtered-out events: %v", audio.played)
	}
	assertIdle(t, c, &audio.fakeAudio, view)
}

