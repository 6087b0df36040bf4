package ui

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
)

// TickerController shows the month and event currently under the playback
// cursor, marquee-scrolling the text when it is wider than its container.
// SetText is safe to call from any goroutine.
type TickerController struct {
	lbl      *widget.Label
	parent   fyne.CanvasObject // container used to measure visible width
	idle     string
	mu       sync.Mutex
	cancel   context.CancelFunc
	lastText string

	bind binding.String

	speed   time.Duration
	padding string
}

// NewTickerController binds lbl and shows idle until the first SetText.
func NewTickerController(lbl *widget.Label, parent fyne.CanvasObject, idle string) *TickerController {
	b := binding.NewString()
	lbl.Bind(b)
	_ = b.Set(idle)
	return &TickerController{
		lbl:     lbl,
		parent:  parent,
		idle:    idle,
		bind:    b,
		speed:   120 * time.Millisecond,
		padding: "   ",
	}
}

// Close stops any scrolling goroutine.
func (tc *TickerController) Close() {
	tc.mu.Lock()
	if tc.cancel != nil {
		tc.cancel()
		tc.cancel = nil
	}
	tc.mu.Unlock()
}

// Reset shows the idle text.
func (tc *TickerController) Reset() { tc.SetText("") }

// SetText updates the ticker text and animates scrolling if it no longer fits.
func (tc *TickerController) SetText(text string) {
	tc.mu.Lock()
	if text == "" {
		text = tc.idle
	}
	if tc.cancel != nil {
		tc.cancel()
		tc.cancel = nil
	}
	tc.lastText = text
	lbl, parent, b := tc.lbl, tc.parent, tc.bind
	tc.mu.Unlock()

	_ = b.Set(text)

	textW := measureLabelTextWidth(lbl, text)
	if !tickerNeedsScroll(textW, parent.Size().Width) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	tc.mu.Lock()
	tc.cancel = cancel
	tc.mu.Unlock()
	go tc.scroll(ctx, text, textW)
}

func (tc *TickerController) scroll(ctx context.Context, orig string, neededW float32) {
	work := []rune(tc.padding + orig + tc.padding)
	if len(work) == 0 {
		return
	}
	offset := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(tc.speed):
			tc.mu.Lock()
			stale := tc.cancel == nil || tc.lastText != orig
			tc.mu.Unlock()
			if stale || !tickerNeedsScroll(neededW, tc.parent.Size().Width) {
				return
			}
			offset = (offset + 1) % len(work)
			_ = tc.bind.Set(rotateRunes(work, offset))
		}
	}
}

const tickerWidthEpsilon float32 = 0.5

// tickerNeedsScroll decides whether marquee scrolling is required.
func tickerNeedsScroll(textWidth, viewportWidth float32) bool {
	if textWidth <= 0 {
		return false
	}
	if viewportWidth < 0 {
		viewportWidth = 0
	}
	return textWidth-viewportWidth > tickerWidthEpsilon
}

// rotateRunes rotates r left by offset runes.
func rotateRunes(r []rune, offset int) string {
	if len(r) == 0 {
		return ""
	}
	offset %= len(r)
	if offset < 0 {
		offset += len(r)
	}
	return string(r[offset:]) + string(r[:offset])
}

// measureLabelTextWidth estimates the width the label would need for the text.
func measureLabelTextWidth(lbl *widget.Label, text string) float32 {
	if lbl == nil {
		return 0
	}
	tmp := widget.NewLabel(text)
	tmp.Alignment = lbl.Alignment
	tmp.TextStyle = lbl.TextStyle
	tmp.Importance = lbl.Importance
	tmp.Refresh()
	return tmp.MinSize().Width
}
