package pizzaapp

import (
	"fmt"

	"github.com/edward-ap/pizzaindex/internal/chart"
	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/playback"
)

const (
	playLabel    = "Reproducir"
	playingLabel = "Reproduciendo..."
	tickerIdle   = "Pizza Index 1983–2025"
)

// playbackView is what the controller drives: the chart manager for the
// cursor, highlight and tooltip, and the app for the play affordances.
// The controller calls it with its own lock held, so nothing here may call
// back into the controller.
type playbackView struct {
	*chart.Manager
	onPlaying func(bool)
	onMonth   func(string)
}

var _ playback.View = (*playbackView)(nil)

func (v *playbackView) SetPlaying(playing bool) {
	if v.onPlaying != nil {
		v.onPlaying(playing)
	}
}

func (v *playbackView) SetPlaybackPosition(i int) {
	v.Manager.SetPlaybackPosition(i)
	if v.onMonth == nil {
		return
	}
	cells := v.Manager.Cells()
	if i >= 0 && i < len(cells) {
		v.onMonth(tickerText(cells[i].Date, cells[i].Event))
	}
}

// tickerText is the line shown while the cursor sits on a month.
func tickerText(month string, ev *dataset.Event) string {
	if ev == nil {
		return month
	}
	return fmt.Sprintf("%s · %s (%s)", month, ev.Label, ev.Category)
}
