package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Palette groups the fixed chart colors.
type Palette struct {
	Background color.NRGBA
	Baseline   color.NRGBA
	Text       color.NRGBA
	Axis       color.NRGBA
	Cursor     color.NRGBA
}

// DefaultPalette is the light chart theme. The
// baseline area is drawn at 0xCC alpha.
func DefaultPalette() Palette {
	return Palette{
		Background: mustHex("#ffffff"),
		Baseline:   withAlpha(mustHex("#0e7490"), 0xCC),
		Text:       mustHex("#6b7280"),
		Axis:       mustHex("#6b7280"),
		Cursor:     mustHex("#1f2937"),
	}
}

// ParseHex parses #rrggbb (or rrggbb) into an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

func mustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Darken lowers every channel by the same amount (fraction of full scale),
// keeping the hue family recognisable.
func Darken(c color.NRGBA, fraction float64) color.NRGBA {
	amt := int(math.Round(2.55 * fraction * 100))
	sub := func(v uint8) uint8 {
		n := int(v) - amt
		if n < 0 {
			n = 0
		}
		return uint8(n)
	}
	return color.NRGBA{R: sub(c.R), G: sub(c.G), B: sub(c.B), A: c.A}
}

// Hex formats c as #rrggbb.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
