package render

import (
	"fmt"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/example/snapmark/internal/annotation"
)

// boldWeightThreshold is the lowest font weight drawn with the bold
// face.
const boldWeightThreshold = 600

// FontSet holds the parsed font sources text objects draw with. The
// bundled Go fonts carry no serif face, so the serif family falls
// back to the sans sources.
type FontSet struct {
	sans, sansBold *text.FontSource
	mono, monoBold *text.FontSource
}

// NewFontSet parses the bundled fonts once for the process lifetime.
func NewFontSet() (*FontSet, error) {
	sans, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	sansBold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	mono, err := text.NewFontSource(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse mono font: %w", err)
	}
	monoBold, err := text.NewFontSource(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse mono bold font: %w", err)
	}
	return &FontSet{sans: sans, sansBold: sansBold, mono: mono, monoBold: monoBold}, nil
}

// Face returns the face for a family, weight, and pixel size.
func (f *FontSet) Face(family annotation.FontFamily, weight uint16, size float64) text.Face {
	bold := weight >= boldWeightThreshold
	source := f.sans
	switch family {
	case annotation.FontMono:
		if bold {
			source = f.monoBold
		} else {
			source = f.mono
		}
	default:
		if bold {
			source = f.sansBold
		}
	}
	return source.Face(size)
}

// Measure returns the pixel width of one line in the given face.
func (f *FontSet) Measure(face text.Face, line string) float64 {
	w, _ := text.Measure(line, face)
	return w
}

// MeasureTextElement sizes a text element using real font metrics.
func (f *FontSet) MeasureTextElement(t *annotation.TextElement) (width, height int) {
	face := f.Face(t.Options.Family, t.Options.Weight, float64(t.Options.Size))
	return t.Dimensions(func(line string) float64 {
		return f.Measure(face, line)
	})
}
