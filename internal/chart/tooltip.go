package chart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/edward-ap/pizzaindex/internal/dataset"
)

// TooltipStyle controls tooltip placement.
type TooltipStyle struct {
	Width  float64
	Gutter float64
	Margin float64
}

// DefaultTooltipStyle is a 240px panel kept 20px from its anchor.
func DefaultTooltipStyle() TooltipStyle {
	return TooltipStyle{Width: 240, Gutter: 20, Margin: 10}
}

// PlaceTooltip returns the top-left corner of a tooltip of size tip anchored
// at anchor. anchor is relative to the visible container; the result is in
// scrolled content coordinates, so scrollX is added back.
//
// The tooltip goes right of the anchor unless it would overflow the visible
// width, in which case it flips left. Vertically it is centered on the
// anchor and clamped into [Margin, container.H-tip.H-Margin].
func PlaceTooltip(anchor Point, container Size, scrollX float64, tip Size, st TooltipStyle) Point {
	w := tip.W
	if w <= 0 {
		w = st.Width
	}
	var left float64
	if container.W-anchor.X < w+st.Gutter {
		left = scrollX + anchor.X - w - st.Gutter
	} else {
		left = scrollX + anchor.X + st.Gutter
	}

	top := anchor.Y - tip.H/2
	if top < st.Margin {
		top = st.Margin
	}
	if maxTop := container.H - tip.H - st.Margin; top > maxTop {
		top = maxTop
	}
	return Point{X: left, Y: top}
}

// TooltipContent is the text shown for an event.
type TooltipContent struct {
	Title    string
	Color    string
	Icon     string
	Date     string
	Category string
	Orders   string
	Normal   string
	Increase string
}

// Lines returns the body rows as label/value pairs in display order.
func (c TooltipContent) Lines() [][2]string {
	return [][2]string{
		{"Fecha", c.Date},
		{"Categoría", c.Category},
		{"Pizzas pedidas", c.Orders},
		{"Promedio normal", c.Normal},
		{"Incremento", c.Increase},
	}
}

// DescribeEvent builds tooltip content. The baseline is read from the full
// series at the event month, not from the filtered grid. ok is false when the
// event month lies outside the series.
func DescribeEvent(ds *dataset.Dataset, ev *dataset.Event) (TooltipContent, bool) {
	if ds == nil || ev == nil {
		return TooltipContent{}, false
	}
	base, ok := ds.BaselineAt(dataset.MonthIndex(ev.Date))
	if !ok {
		return TooltipContent{}, false
	}
	c := TooltipContent{
		Title:    ev.Label,
		Date:     ev.Date,
		Category: string(ev.Category),
		Orders:   formatNumber(ev.Magnitude),
		Normal:   formatNumber(base),
		Increase: "n/a",
	}
	if cat, ok := ds.Category(ev.Category); ok {
		c.Color = cat.Color
		c.Icon = cat.Icon
	}
	if base > 0 {
		c.Increase = fmt.Sprintf("+%d%%", int(math.Round((ev.Magnitude-base)/base*100)))
	}
	return c, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
