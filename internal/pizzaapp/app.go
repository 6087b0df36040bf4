// Package pizzaapp wires the chart, playback, audio and configuration layers
// together to present the Pizza Index desktop window.
package pizzaapp

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/pizzaindex/internal/audio"
	"github.com/edward-ap/pizzaindex/internal/chart"
	"github.com/edward-ap/pizzaindex/internal/config"
	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/logger"
	"github.com/edward-ap/pizzaindex/internal/playback"
	"github.com/edward-ap/pizzaindex/internal/timeline"
	"github.com/edward-ap/pizzaindex/internal/ui"
)

const windowTitle = "Pizza Index"

// App owns the fyne application, main window, chart, playback controller,
// audio backend and the side panel widgets.
type App struct {
	fa     fyne.App
	w      fyne.Window
	config *config.Config
	ds     *dataset.Dataset

	ctx    context.Context
	cancel context.CancelFunc

	mgr     *chart.Manager
	ctrl    *playback.Controller
	audio   audio.Backend
	filters *FilterState

	chartView *ui.ChartView

	// side panel
	filterBtns  map[dataset.CategoryID]*widget.Button
	filterBgs   map[dataset.CategoryID]*canvas.Rectangle
	startSlider *ui.MiniThumbSlider
	endSlider   *ui.MiniThumbSlider
	startLbl    *widget.Label
	endLbl      *widget.Label
	statValues  []*widget.Label

	// control bar
	playBtn   *widget.Button
	stopBtn   *widget.Button
	resetBtn  *widget.Button
	volBtn    *widget.Button
	volSlider *ui.MiniThumbSlider
	ind       *ui.PlaybackIndicator
	centerLbl *widget.Label
	ticker    *ui.TickerController

	shortcutCatcher *shortcutCatcher

	mu    sync.Mutex
	muted bool
}

// NewApp builds the window for ds using cfg. The audio backend is primed in
// the background so the window appears immediately.
func NewApp(cfg *config.Config, ds *dataset.Dataset) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	fa := app.NewWithID(config.AppID)
	ui.UseAppTheme()
	if AppIcon != nil {
		fa.SetIcon(AppIcon)
	}
	w := fa.NewWindow(windowTitle)
	w.SetMaster()
	if AppIcon != nil {
		w.SetIcon(AppIcon)
	}
	w.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	layoutCfg := chart.DefaultLayout()
	layoutCfg.MaxScale = cfg.Chart.MaxScale
	layoutCfg.MinHeight = cfg.Chart.MinHeight

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		fa:      fa,
		w:       w,
		config:  cfg,
		ds:      ds,
		ctx:     ctx,
		cancel:  cancel,
		filters: NewFilterState(ds.CategoryIDs()),
		audio: audio.New(ds, audio.Options{
			Enabled:       cfg.Audio.Enabled,
			SoundDir:      cfg.Audio.SoundDir,
			Volume:        cfg.Audio.Volume,
			HoverInterval: cfg.Audio.HoverInterval,
		}),
		mgr: chart.NewManager(ds, chart.Options{
			Layout:        layoutCfg,
			HitTolerance:  cfg.Chart.HitTolerance,
			HoverCooldown: cfg.Chart.HoverCooldown,
		}),
	}
	a.mgr.OnHover(a.audio.PlayHoverSound)

	a.buildUI()

	view := &playbackView{
		Manager:   a.mgr,
		onPlaying: a.setPlaying,
		onMonth:   a.UpdateTicker,
	}
	a.ctrl = playback.New(a.audio, view, playback.Options{
		EventDwell: cfg.Playback.EventDwell,
		EmptyDwell: cfg.Playback.EmptyDwell,
	})

	a.UpdateTicker("Preparando audio…")
	go func() {
		if !a.audio.Init(a.ctx) {
			if a.ctx.Err() != nil {
				return
			}
			ui.CallOnMain(func() {
				dialog.ShowError(fmt.Errorf("cannot initialize audio: %w\n\nInstall VLC (libvlc and its plugins folder) and place the cue files in %q.", playback.ErrAudioNotReady, cfg.Audio.SoundDir), w)
			})
			a.UpdateTicker("Audio no disponible")
			return
		}
		a.UpdateTicker("")
	}()

	w.SetCloseIntercept(func() {
		a.cancel()
		if a.ctrl != nil {
			a.ctrl.Stop()
		}
		if a.ticker != nil {
			a.ticker.Close()
		}
		if a.ind != nil {
			a.ind.SetActive(false)
		}
		if a.chartView != nil {
			a.chartView.Close()
		}
		if a.audio != nil {
			a.audio.Release()
		}
		w.Close()
		fa.Quit()
	})

	w.Canvas().SetOnTypedKey(func(ke *fyne.KeyEvent) {
		a.handleShortcutKey(ke)
	})

	return a
}

// handleShortcutKey centralizes keyboard shortcuts regardless of which widget
// currently owns focus.
func (a *App) handleShortcutKey(ke *fyne.KeyEvent) {
	if ke == nil {
		return
	}
	switch ke.Name {
	case fyne.KeySpace:
		a.togglePlay()
	case fyne.KeyEscape:
		a.stopPlayback()
	case fyne.KeyUp:
		a.changeVolume(+10)
	case fyne.KeyDown:
		a.changeVolume(-10)
	case fyne.KeyPlus:
		a.changeVolume(+1)
	case fyne.KeyMinus:
		a.changeVolume(-1)
	case fyne.KeyAsterisk:
		a.toggleMute()
	}
}

// Run enters the fyne event loop.
func (a *App) Run() {
	a.w.ShowAndRun()
}

func (a *App) buildUI() {
	a.chartView = ui.NewChartView(a.mgr, CategoryIcon, a.config.Chart.ResizeDebounce)

	top := a.buildControlBar()
	side := a.buildSidePanel()
	chartBg := canvas.NewRectangle(color.White)
	center := container.NewStack(chartBg, a.chartView)

	root := container.NewBorder(top, nil, side, nil, center)
	a.w.SetContent(root)
	a.refreshStats()
	a.ensureShortcutFocus()
}

// buildControlBar constructs the playback strip: play/stop/reset, the
// playing indicator with the month ticker, and the sound controls.
func (a *App) buildControlBar() fyne.CanvasObject {
	if a.shortcutCatcher == nil {
		a.shortcutCatcher = newShortcutCatcher(a.handleShortcutKey)
	}

	a.playBtn = widget.NewButtonWithIcon(playLabel, theme.MediaPlayIcon(), func() { a.togglePlay() })
	a.playBtn.Importance = widget.HighImportance
	a.stopBtn = widget.NewButtonWithIcon("Detener", theme.MediaStopIcon(), func() { a.stopPlayback() })
	a.resetBtn = widget.NewButtonWithIcon("Restablecer filtros", theme.ViewRefreshIcon(), func() { a.resetFilters() })

	leftBlock := container.NewHBox(a.playBtn, a.stopBtn, a.resetBtn, widget.NewSeparator())

	// --- CENTER: indicator + ticker -----------------------------------

	a.centerLbl = widget.NewLabel("")
	a.centerLbl.Truncation = fyne.TextTruncateClip
	a.centerLbl.Alignment = fyne.TextAlignLeading

	tickerBg := canvas.NewRectangle(color.NRGBA{0x0e, 0x74, 0x90, 0x26})
	tickerBg.CornerRadius = 4

	a.ind = ui.NewPlaybackIndicator(14)
	gap := canvas.NewRectangle(color.NRGBA{0, 0, 0, 0})
	gap.SetMinSize(fyne.NewSize(6, 1))

	labelWrap := container.NewStack(a.centerLbl)
	a.ticker = ui.NewTickerController(a.centerLbl, labelWrap, tickerIdle)

	centerRow := container.NewBorder(nil, nil, container.NewHBox(a.ind.CanvasObject(), gap), nil, labelWrap)
	centerContent := container.NewStack(tickerBg, container.NewPadded(centerRow))

	// --- RIGHT: volume ------------------------------------------------

	a.volBtn = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), func() { a.toggleMute() })
	a.volBtn.Importance = widget.LowImportance

	a.volSlider = ui.NewMiniThumbSlider(0, 100)
	a.volSlider.Step = 1
	a.volSlider.Value = float64(a.audio.Volume())
	a.volSlider.OnChanged = func(v float64) {
		a.ensureVolumeUnmuted()
		a.audio.SetVolume(int(v + 0.5))
		a.updateVolumeIcon()
	}
	a.updateVolumeIcon()

	longVol := container.New(
		layout.NewGridWrapLayout(fyne.NewSize(110, a.volSlider.MinSize().Height)),
		a.volSlider,
	)
	rightBlock := container.NewHBox(widget.NewSeparator(), a.volBtn, container.NewCenter(longVol))

	bar := container.NewBorder(nil, nil, leftBlock, rightBlock, centerContent)

	a.shortcutCatcher.Resize(fyne.NewSize(1, 1))
	a.shortcutCatcher.Move(fyne.NewPos(-5, -5))
	return container.NewStack(container.NewPadded(bar), container.NewWithoutLayout(a.shortcutCatcher))
}

// buildSidePanel holds the category filters, the year range and the stats.
func (a *App) buildSidePanel() fyne.CanvasObject {
	a.filterBtns = make(map[dataset.CategoryID]*widget.Button)
	a.filterBgs = make(map[dataset.CategoryID]*canvas.Rectangle)

	filters := container.NewVBox(widget.NewLabelWithStyle("Categorías", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, c := range a.ds.Categories {
		id := c.ID
		btn := widget.NewButtonWithIcon(string(id), CategoryIcon(c.Icon), func() { a.toggleCategory(id) })
		btn.Alignment = widget.ButtonAlignLeading
		btn.Importance = widget.LowImportance
		bg := canvas.NewRectangle(filterColor(c.Color, true))
		bg.CornerRadius = 4
		a.filterBtns[id] = btn
		a.filterBgs[id] = bg
		filters.Add(container.NewStack(bg, btn))
	}

	a.startLbl = widget.NewLabel(strconv.Itoa(dataset.EpochYear))
	a.endLbl = widget.NewLabel(strconv.Itoa(dataset.TerminusYear))
	a.startSlider = ui.NewMiniThumbSlider(dataset.EpochYear, dataset.TerminusYear)
	a.endSlider = ui.NewMiniThumbSlider(dataset.EpochYear, dataset.TerminusYear)
	a.endSlider.SetValueSilently(dataset.TerminusYear)
	a.startSlider.OnChanged = func(v float64) {
		yr := a.filters.SetStart(int(v + 0.5))
		a.syncYearControls(yr)
		a.applyFilters()
	}
	a.endSlider.OnChanged = func(v float64) {
		yr := a.filters.SetEnd(int(v + 0.5))
		a.syncYearControls(yr)
		a.applyFilters()
	}
	resetYears := widget.NewButtonWithIcon("", theme.HistoryIcon(), func() { a.resetYearRange() })
	resetYears.Importance = widget.LowImportance

	years := container.NewVBox(
		container.NewBorder(nil, nil, nil, resetYears,
			widget.NewLabelWithStyle("Rango de años", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})),
		container.NewBorder(nil, nil, widget.NewLabel("Desde"), a.startLbl, a.startSlider),
		container.NewBorder(nil, nil, widget.NewLabel("Hasta"), a.endLbl, a.endSlider),
	)

	stats := container.New(layout.NewGridLayout(2))
	for _, card := range StatCards(timeline.Stats{Largest: timeline.NoEventLabel}) {
		val := widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		val.Wrapping = fyne.TextWrapWord
		a.statValues = append(a.statValues, val)
		title := canvas.NewText(card.Title, theme.ForegroundColor())
		title.TextSize = theme.CaptionTextSize()
		bg := canvas.NewRectangle(color.NRGBA{0xf3, 0xf4, 0xf6, 0xff})
		bg.CornerRadius = 6
		stats.Add(container.NewStack(bg, container.NewPadded(container.NewVBox(title, val))))
	}

	panel := container.NewVBox(
		filters,
		widget.NewSeparator(),
		years,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Estadísticas", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		stats,
	)
	scroll := container.NewVScroll(container.NewPadded(panel))
	scroll.SetMinSize(fyne.NewSize(260, 0))
	return scroll
}

// filterColor tints a category swatch; inactive filters are washed out.
func filterColor(hex string, active bool) color.NRGBA {
	c, err := chart.ParseHex(hex)
	if err != nil {
		c = color.NRGBA{0x80, 0x80, 0x80, 0xff}
	}
	if active {
		c.A = 0x55
	} else {
		c.A = 0x12
	}
	return c
}

func (a *App) toggleCategory(id dataset.CategoryID) {
	on := a.filters.Toggle(id)
	if c, ok := a.ds.Category(id); ok {
		if bg := a.filterBgs[id]; bg != nil {
			bg.FillColor = filterColor(c.Color, on)
			bg.Refresh()
		}
	}
	if btn := a.filterBtns[id]; btn != nil {
		if on {
			btn.Importance = widget.LowImportance
		} else {
			btn.Importance = widget.DangerImportance
		}
		btn.Refresh()
	}
	a.applyFilters()
}

func (a *App) resetFilters() {
	a.filters.ResetCategories()
	for _, c := range a.ds.Categories {
		if bg := a.filterBgs[c.ID]; bg != nil {
			bg.FillColor = filterColor(c.Color, true)
			bg.Refresh()
		}
		if btn := a.filterBtns[c.ID]; btn != nil {
			btn.Importance = widget.LowImportance
			btn.Refresh()
		}
	}
	a.applyFilters()
}

func (a *App) resetYearRange() {
	yr := a.filters.ResetYears()
	a.syncYearControls(yr)
	a.applyFilters()
}

// syncYearControls moves both handles and labels to yr without re-entering
// the slider callbacks.
func (a *App) syncYearControls(yr timeline.YearRange) {
	if a.startSlider != nil && int(a.startSlider.Value) != yr.Start {
		a.startSlider.SetValueSilently(float64(yr.Start))
	}
	if a.endSlider != nil && int(a.endSlider.Value) != yr.End {
		a.endSlider.SetValueSilently(float64(yr.End))
	}
	if a.startLbl != nil {
		a.startLbl.SetText(strconv.Itoa(yr.Start))
	}
	if a.endLbl != nil {
		a.endLbl.SetText(strconv.Itoa(yr.End))
	}
}

// applyFilters rebuilds the chart and the stats for the current filters. A
// running playback walks a grid that no longer matches the chart, so it is
// stopped.
func (a *App) applyFilters() {
	active, yr := a.filters.Snapshot()
	a.refreshStats()
	// rebuild first so a start still waiting on the audio backend walks the
	// new grid
	a.mgr.UpdateWithYearRange(active, yr)
	if a.ctrl != nil && a.ctrl.IsPlaying() {
		a.ctrl.Stop()
	}
}

func (a *App) refreshStats() {
	active, yr := a.filters.Snapshot()
	cards := StatCards(timeline.Summarize(a.ds, active, yr))
	for i, l := range a.statValues {
		if i < len(cards) {
			l.SetText(cards[i].Value)
		}
	}
}

// ensureShortcutFocus keeps the invisible shortcut catcher focused so global
// key handling works after clicking buttons.
func (a *App) ensureShortcutFocus() {
	if a == nil || a.w == nil || a.shortcutCatcher == nil {
		return
	}
	ui.CallOnMain(func() {
		a.w.Canvas().Focus(a.shortcutCatcher)
	})
}

type shortcutCatcher struct {
	widget.BaseWidget
	onKey func(*fyne.KeyEvent)
}

func newShortcutCatcher(handler func(*fyne.KeyEvent)) *shortcutCatcher {
	c := &shortcutCatcher{onKey: handler}
	c.ExtendBaseWidget(c)
	return c
}

func (s *shortcutCatcher) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(color.NRGBA{0, 0, 0, 0})
	rect.SetMinSize(fyne.NewSize(1, 1))
	return widget.NewSimpleRenderer(rect)
}

func (s *shortcutCatcher) MinSize() fyne.Size { return fyne.NewSize(1, 1) }

func (s *shortcutCatcher) FocusGained() {}

func (s *shortcutCatcher) FocusLost() {}

func (s *shortcutCatcher) TypedKey(ev *fyne.KeyEvent) {
	if s.onKey != nil {
		s.onKey(ev)
	}
}

func (s *shortcutCatcher) TypedRune(r rune) {}

// togglePlay starts playback over the current grid, or stops it.
func (a *App) togglePlay() {
	defer a.ensureShortcutFocus()
	if a.ctrl.IsPlaying() {
		a.stopPlayback()
		return
	}
	// Start primes the audio backend, which can block on first use. The grid
	// is read once the backend is ready so filter changes made meanwhile apply.
	go func() {
		err := a.ctrl.Start(a.ctx, a.mgr.Cells)
		if err == nil {
			return
		}
		logger.Warn("playback start failed: %v", err)
		if errors.Is(err, playback.ErrAudioNotReady) {
			a.UpdateTicker("Audio no disponible")
		}
		ui.CallOnMain(func() { dialog.ShowError(err, a.w) })
	}()
}

func (a *App) stopPlayback() {
	a.ctrl.Stop()
}

// setPlaying restores or swaps the play affordances. The controller calls it
// while holding its lock.
func (a *App) setPlaying(playing bool) {
	if a.ind != nil {
		a.ind.SetActive(playing)
	}
	ui.CallOnMain(func() {
		if playing {
			a.playBtn.SetText(playingLabel)
			a.playBtn.SetIcon(theme.MediaPauseIcon())
			return
		}
		a.playBtn.SetText(playLabel)
		a.playBtn.SetIcon(theme.MediaPlayIcon())
	})
	if !playing && a.ticker != nil {
		a.ticker.Reset()
	}
}

// changeVolume nudges the slider, which forwards the level to the backend.
func (a *App) changeVolume(delta int) {
	if a.volSlider == nil {
		return
	}
	v := a.audio.Volume() + delta
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	a.volSlider.SetValue(float64(v))
}

// toggleMute flips muting in the backend; a muted slider shows 0.
func (a *App) toggleMute() {
	muted, vol := a.audio.ToggleMute()
	a.mu.Lock()
	a.muted = muted
	a.mu.Unlock()
	if a.volSlider != nil {
		if muted {
			a.volSlider.SetValueSilently(0)
		} else {
			a.volSlider.SetValueSilently(float64(vol))
		}
	}
	a.updateVolumeIcon()
}

// ensureVolumeUnmuted unmutes when the user drags the slider after muting.
func (a *App) ensureVolumeUnmuted() {
	a.mu.Lock()
	muted := a.muted
	a.muted = false
	a.mu.Unlock()
	if muted {
		a.audio.ToggleMute()
	}
}

// updateVolumeIcon adjusts the mute button icon to represent the current level.
func (a *App) updateVolumeIcon() {
	if a.volBtn == nil {
		return
	}
	a.mu.Lock()
	muted := a.muted
	a.mu.Unlock()
	icon := theme.VolumeUpIcon()
	if muted || a.audio.Volume() <= 0 {
		icon = theme.VolumeMuteIcon()
	}
	a.volBtn.SetIcon(icon)
}

// UpdateTicker sets the ticker text from any goroutine. An empty text shows
// the idle line.
func (a *App) UpdateTicker(text string) {
	if a.ticker != nil {
		ui.CallOnMain(func() { a.ticker.SetText(text) })
	}
}
