package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/pizzaindex/internal/chart"
)

// IconLookup resolves a category icon file name to a resource.
type IconLookup func(name string) fyne.Resource

// TooltipPanel is the floating info panel shown over the chart.
type TooltipPanel struct {
	box      *fyne.Container
	icon     *canvas.Image
	title    *canvas.Text
	values   []*widget.Label
	increase *canvas.Text
	icons    IconLookup
	width    float32
}

// NewTooltipPanel builds a hidden panel of the given width.
func NewTooltipPanel(width float32, icons IconLookup) *TooltipPanel {
	t := &TooltipPanel{
		icon:     canvas.NewImageFromResource(nil),
		title:    canvas.NewText("", theme.ForegroundColor()),
		increase: canvas.NewText("", theme.ForegroundColor()),
		icons:    icons,
		width:    width,
	}
	t.icon.FillMode = canvas.ImageFillContain
	t.icon.SetMinSize(fyne.NewSize(24, 24))
	t.title.TextStyle = fyne.TextStyle{Bold: true}
	t.increase.TextStyle = fyne.TextStyle{Bold: true}

	form := container.New(layout.NewFormLayout())
	for _, kv := range (chart.TooltipContent{}).Lines() {
		key := widget.NewLabelWithStyle(kv[0]+":", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		if kv[0] == "Incremento" {
			form.Add(key)
			form.Add(container.NewPadded(t.increase))
			continue
		}
		val := widget.NewLabel("")
		val.Truncation = fyne.TextTruncateEllipsis
		t.values = append(t.values, val)
		form.Add(key)
		form.Add(val)
	}

	bg := canvas.NewRectangle(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xf2})
	bg.StrokeColor = color.NRGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
	bg.StrokeWidth = 1
	bg.CornerRadius = 6
	header := container.NewBorder(nil, nil, t.icon, nil, t.title)
	t.box = container.NewStack(bg, container.NewPadded(container.NewVBox(header, form)))
	t.box.Hide()
	return t
}

// CanvasObject returns the panel for embedding.
func (t *TooltipPanel) CanvasObject() fyne.CanvasObject { return t.box }

// Size is the panel size used for placement.
func (t *TooltipPanel) Size() fyne.Size {
	return fyne.NewSize(t.width, t.box.MinSize().Height)
}

// Apply shows or hides the panel according to st. Must run on the UI thread.
func (t *TooltipPanel) Apply(st chart.TooltipState) {
	if !st.Visible {
		t.box.Hide()
		return
	}
	c := st.Content
	col := theme.ForegroundColor()
	if parsed, err := chart.ParseHex(c.Color); err == nil {
		col = parsed
	}
	t.title.Text = c.Title
	t.title.Color = col
	t.increase.Text = c.Increase
	t.increase.Color = col
	vals := []string{c.Date, c.Category, c.Orders, c.Normal}
	for i, l := range t.values {
		if i < len(vals) {
			l.SetText(vals[i])
		}
	}
	if t.icons != nil {
		t.icon.Resource = t.icons(c.Icon)
	}
	t.box.Move(fyne.NewPos(float32(st.Pos.X), float32(st.Pos.Y)))
	t.box.Resize(t.Size())
	t.box.Show()
	t.title.Refresh()
	t.increase.Refresh()
	t.icon.Refresh()
}
