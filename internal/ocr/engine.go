package ocr

import (
	"errors"
	"image"
	"image/draw"
	"sort"
	"strings"

	"github.com/example/snapmark/internal/geometry"
)

var (
	ErrModelDirNotFound = errors.New("ocr: model directory not found")
	ErrInvalidRegion    = errors.New("ocr: invalid region")
	ErrBusy             = errors.New("ocr: recognition already in flight")
)

// Line is one recognized text fragment with its vertical position in
// the source region.
type Line struct {
	Text string
	Top  float64
}

// Engine recognizes text in an image. Implementations are not safe
// for concurrent use; the Recognizer serializes access.
type Engine interface {
	Recognize(img image.Image) ([]Line, error)
	Close() error
}

// EngineFactory builds an engine for a model directory and language.
// The factory runs on the worker goroutine.
type EngineFactory func(modelDir string, language Language) (Engine, error)

// JoinLines orders fragments top to bottom and joins them with
// newlines.
func JoinLines(lines []Line) string {
	if len(lines) == 0 {
		return ""
	}
	ordered := make([]Line, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Top < ordered[j].Top })
	parts := make([]string, len(ordered))
	for i, line := range ordered {
		parts[i] = line.Text
	}
	return strings.Join(parts, "\n")
}

// RegionImage extracts the clamped region from src as a standalone
// image for recognition.
func RegionImage(src *image.RGBA, b geometry.Bounds) (*image.RGBA, error) {
	if b.Width <= 0 || b.Height <= 0 {
		return nil, ErrInvalidRegion
	}
	rect := image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height).Intersect(src.Bounds())
	if rect.Empty() {
		return nil, ErrInvalidRegion
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), src, rect.Min, draw.Src)
	return out, nil
}

// ProcessingStatus is the status line shown while a request runs.
func ProcessingStatus(engineReady bool) string {
	if engineReady {
		return "Recognizing text..."
	}
	return "Initializing OCR engine..."
}

// PreviewText shortens recognized text for notifications.
func PreviewText(text string) string {
	runes := []rune(text)
	if len(runes) <= 60 {
		return text
	}
	return string(runes[:57]) + "..."
}
