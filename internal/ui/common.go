// Package ui contains the fyne widgets of the Pizza Index window: the chart
// view with its tooltip overlay, sliders, the playing indicator and the
// month ticker.
package ui

import "fyne.io/fyne/v2"

type runOnMainDriver interface {
	RunOnMain(func())
}

type callOnMainDriver interface {
	CallOnMain(func())
}

// CallOnMain dispatches f onto the UI thread if the current Fyne driver
// supports it; otherwise executes f inline.
func CallOnMain(f func()) {
	if f == nil {
		return
	}
	app := fyne.CurrentApp()
	if app == nil || app.Driver() == nil {
		f()
		return
	}
	switch drv := app.Driver().(type) {
	case runOnMainDriver:
		drv.RunOnMain(f)
	case callOnMainDriver:
		drv.CallOnMain(f)
	default:
		f()
	}
}

// deviceScale is the pixel ratio of the canvas showing obj. Before obj is
// attached it falls back to the app scale setting, then to 1.
func deviceScale(obj fyne.CanvasObject) float64 {
	app := fyne.CurrentApp()
	if app == nil {
		return 1
	}
	if drv := app.Driver(); drv != nil && obj != nil {
		if c := drv.CanvasForObject(obj); c != nil && c.Scale() > 0 {
			return float64(c.Scale())
		}
	}
	if set := app.Settings(); set != nil && set.Scale() > 0 {
		return float64(set.Scale())
	}
	return 1
}

// clampFloat64 constrains v to the [min, max] interval.
func clampFloat64(v, min, max float64) float64 {
	if max <= min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
