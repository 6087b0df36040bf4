package chart

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/edward-ap/pizzaindex/internal/logger"
)

const (
	labelPt = 12
	titlePt = 16
)

// loadFace builds a face from embedded TTF data, falling back to the basic
// bitmap face when parsing fails.
func loadFace(ttf []byte, size float64) font.Face {
	if size < 6 {
		size = 6
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		logger.Warn("chart font parse failed, using bitmap face: %v", err)
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		logger.Warn("chart font face failed, using bitmap face: %v", err)
		return basicfont.Face7x13
	}
	return face
}

func labelFace() font.Face { return loadFace(goregular.TTF, labelPt) }

func titleFace() font.Face { return loadFace(gobold.TTF, titlePt) }
