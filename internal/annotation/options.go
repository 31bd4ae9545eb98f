package annotation

// Color is an opaque RGB triple used by stroke and text options.
type Color struct {
	R, G, B uint8
}

// FontFamily selects a text rendering face.
type FontFamily int

const (
	FontSans FontFamily = iota
	FontSerif
	FontMono
)

func (f FontFamily) String() string {
	switch f {
	case FontSerif:
		return "Serif"
	case FontMono:
		return "Mono"
	default:
		return "Sans"
	}
}

// BlurOptions controls the strength of a blur region.
type BlurOptions struct {
	Intensity uint8 // 1..=100
}

// PenOptions controls freehand strokes.
type PenOptions struct {
	Color     Color
	Thickness uint8
	Opacity   uint8 // percent, 1..=100
}

// ArrowOptions controls arrow strokes; HeadSize scales the arrow head
// relative to its default of 8.
type ArrowOptions struct {
	Color     Color
	Thickness uint8
	HeadSize  uint8
}

// RectangleOptions controls outlined rectangles.
type RectangleOptions struct {
	Color        Color
	Thickness    uint8
	BorderRadius uint16
	FillEnabled  bool
}

// TextOptions controls text boxes.
type TextOptions struct {
	Family FontFamily
	Size   uint8
	Weight uint16 // 100..=1000
	Color  Color
}

// CropOptions carries the aspect preset active when a crop is drawn.
type CropOptions struct {
	Preset CropPreset
}

func DefaultBlurOptions() BlurOptions {
	return BlurOptions{Intensity: 55}
}

func DefaultPenOptions() PenOptions {
	return PenOptions{Color: Color{}, Thickness: 3, Opacity: 100}
}

func DefaultArrowOptions() ArrowOptions {
	return ArrowOptions{Color: Color{}, Thickness: 3, HeadSize: 8}
}

func DefaultRectangleOptions() RectangleOptions {
	return RectangleOptions{Color: Color{}, Thickness: 3, BorderRadius: 8}
}

func DefaultTextOptions() TextOptions {
	return TextOptions{Family: FontSans, Size: 16, Weight: 500}
}

func clampUint8(v, lo, hi uint8) uint8 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetIntensity clamps the blur intensity into 1..=100.
func (o *BlurOptions) SetIntensity(v uint8) {
	o.Intensity = clampUint8(v, 1, 100)
}

// SetThickness keeps the pen stroke at least one pixel wide.
func (o *PenOptions) SetThickness(v uint8) {
	if v < 1 {
		v = 1
	}
	o.Thickness = v
}

// SetOpacity clamps pen opacity into 1..=100 percent.
func (o *PenOptions) SetOpacity(v uint8) {
	o.Opacity = clampUint8(v, 1, 100)
}

func (o *ArrowOptions) SetThickness(v uint8) {
	if v < 1 {
		v = 1
	}
	o.Thickness = v
}

func (o *ArrowOptions) SetHeadSize(v uint8) {
	if v < 1 {
		v = 1
	}
	o.HeadSize = v
}

func (o *RectangleOptions) SetThickness(v uint8) {
	if v < 1 {
		v = 1
	}
	o.Thickness = v
}

// SetSize keeps the font size at least one pixel.
func (o *TextOptions) SetSize(v uint8) {
	if v < 1 {
		v = 1
	}
	o.Size = v
}

// SetWeight clamps the font weight into 100..=1000.
func (o *TextOptions) SetWeight(v uint16) {
	if v < 100 {
		v = 100
	}
	if v > 1000 {
		v = 1000
	}
	o.Weight = v
}

// CropPreset constrains a crop's aspect ratio. Free applies no
// constraint; Original uses the canvas's own aspect ratio.
type CropPreset int

const (
	CropFree CropPreset = iota
	Crop16x9
	Crop1x1
	Crop9x16
	CropOriginal
)

// String returns the preset's display string.
func (p CropPreset) String() string {
	switch p {
	case Crop16x9:
		return "16:9"
	case Crop1x1:
		return "1:1"
	case Crop9x16:
		return "9:16"
	case CropOriginal:
		return "Original"
	default:
		return "Free"
	}
}

// IsFree reports whether the preset applies no aspect constraint.
func (p CropPreset) IsFree() bool {
	return p == CropFree
}

// ResolveRatio resolves the preset to an integer aspect ratio for a
// canvas of the given size. Free yields no ratio; Original requires a
// bounded canvas.
func (p CropPreset) ResolveRatio(canvasWidth, canvasHeight int) (int, int, bool) {
	switch p {
	case Crop16x9:
		return 16, 9, true
	case Crop1x1:
		return 1, 1, true
	case Crop9x16:
		return 9, 16, true
	case CropOriginal:
		if canvasWidth <= 0 || canvasHeight <= 0 {
			return 0, 0, false
		}
		return canvasWidth, canvasHeight, true
	default:
		return 0, 0, false
	}
}
