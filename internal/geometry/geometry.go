// Package geometry holds the integer pixel math shared by annotation
// objects: box normalization, hit testing, and handle-based resizing.
// Coordinates are image-space pixels.
package geometry

// Point is an image-space pixel coordinate.
type Point struct {
	X, Y int
}

// Bounds is an axis-aligned rectangle in image space. Width and Height
// are positive once a bounds has been produced by a sizing operation.
type Bounds struct {
	X, Y          int
	Width, Height int
}

// ImageBounds is the fixed pixel size of the source capture.
type ImageBounds struct {
	Width, Height int
}

// Handle identifies one of the four corner resize handles.
type Handle int

const (
	HandleTopLeft Handle = iota
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

const (
	// HandleHitRadius is the Chebyshev distance within which a point
	// grabs a corner handle.
	HandleHitRadius = 8
	// MinResizeSize is the smallest dimension a handle resize may
	// produce for rectangle-like objects.
	MinResizeSize = 4
	// CropMinSize is the smallest usable crop dimension.
	CropMinSize = 16
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ClampPoint clamps a point to valid placement coordinates,
// [0,width-1] x [0,height-1].
func ClampPoint(p Point, img ImageBounds) Point {
	return Point{
		X: clampInt(p.X, 0, maxInt(img.Width-1, 0)),
		Y: clampInt(p.Y, 0, maxInt(img.Height-1, 0)),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// NormalizeBox returns the min-corner rectangle spanning two drag
// points. Degenerate drags, where either dimension would be zero, are
// rejected.
func NormalizeBox(start, end Point) (Bounds, bool) {
	width := absInt(end.X - start.X)
	height := absInt(end.Y - start.Y)
	if width == 0 || height == 0 {
		return Bounds{}, false
	}
	return Bounds{
		X:      minInt(start.X, end.X),
		Y:      minInt(start.Y, end.Y),
		Width:  width,
		Height: height,
	}, true
}

// PointInBounds reports whether p falls inside b expanded by padding
// pixels on every side. The test is inclusive on all edges so thin
// objects stay hittable.
func PointInBounds(p Point, b Bounds, padding int) bool {
	return p.X >= b.X-padding && p.X <= b.X+b.Width+padding &&
		p.Y >= b.Y-padding && p.Y <= b.Y+b.Height+padding
}

// BoundsIntersect reports whether two rectangles overlap, treating each
// as a half-open interval on both axes.
func BoundsIntersect(a, b Bounds) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

// CornerPoints returns the four corner handle positions in the order
// top-left, top-right, bottom-left, bottom-right.
func CornerPoints(b Bounds) [4]Point {
	return [4]Point{
		{X: b.X, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y},
		{X: b.X, Y: b.Y + b.Height},
		{X: b.X + b.Width, Y: b.Y + b.Height},
	}
}

// HandleAtPoint finds which corner handle, if any, the point hits.
func HandleAtPoint(b Bounds, p Point) (Handle, bool) {
	for i, corner := range CornerPoints(b) {
		if absInt(p.X-corner.X) <= HandleHitRadius && absInt(p.Y-corner.Y) <= HandleHitRadius {
			return Handle(i), true
		}
	}
	return 0, false
}

// OppositeCorner returns the corner diagonally opposite the handle; it
// stays fixed while the handle corner is dragged.
func OppositeCorner(b Bounds, h Handle) Point {
	corners := CornerPoints(b)
	switch h {
	case HandleTopLeft:
		return corners[3]
	case HandleTopRight:
		return corners[2]
	case HandleBottomLeft:
		return corners[1]
	default:
		return corners[0]
	}
}

// ResizedBoundsFromHandle computes the rectangle produced by dragging
// one corner handle to p while the opposite corner stays anchored. The
// result is clamped into the image and rejected when either dimension
// falls under MinResizeSize.
func ResizedBoundsFromHandle(b Bounds, h Handle, p Point, img ImageBounds) (Bounds, bool) {
	anchor := OppositeCorner(b, h)

	left := clampInt(minInt(p.X, anchor.X), 0, maxInt(img.Width-1, 0))
	top := clampInt(minInt(p.Y, anchor.Y), 0, maxInt(img.Height-1, 0))
	right := clampInt(maxInt(p.X, anchor.X), 1, img.Width)
	bottom := clampInt(maxInt(p.Y, anchor.Y), 1, img.Height)

	width := right - left
	height := bottom - top
	if width < MinResizeSize || height < MinResizeSize {
		return Bounds{}, false
	}
	return Bounds{X: left, Y: top, Width: width, Height: height}, true
}

// ResizedCropFromHandle is the crop variant of ResizedBoundsFromHandle:
// the dragged point is clamped to the canvas, the box is optionally
// snapped to ratioX:ratioY, and the result is rejected below
// CropMinSize. The adjusted box keeps the anchored corner fixed.
func ResizedCropFromHandle(b Bounds, h Handle, p Point, img ImageBounds, ratioX, ratioY int) (Bounds, bool) {
	anchor := OppositeCorner(b, h)
	px := clampInt(p.X, 0, img.Width)
	py := clampInt(p.Y, 0, img.Height)

	width := absInt(px - anchor.X)
	height := absInt(py - anchor.Y)
	if ratioX > 0 && ratioY > 0 {
		width, height = AdjustRatioToFit(width, height, ratioX, ratioY)
	}
	if width < CropMinSize || height < CropMinSize {
		return Bounds{}, false
	}

	out := Bounds{Width: width, Height: height}
	switch h {
	case HandleTopLeft:
		out.X = anchor.X - width
		out.Y = anchor.Y - height
	case HandleTopRight:
		out.X = anchor.X
		out.Y = anchor.Y - height
	case HandleBottomLeft:
		out.X = anchor.X - width
		out.Y = anchor.Y
	default:
		out.X = anchor.X
		out.Y = anchor.Y
	}
	if out.X < 0 || out.Y < 0 || out.X+out.Width > img.Width || out.Y+out.Height > img.Height {
		return Bounds{}, false
	}
	return out, true
}

// AdjustRatioToFit shrinks one of the two dimensions so width/height
// matches ratioX/ratioY without exceeding the original box.
func AdjustRatioToFit(width, height, ratioX, ratioY int) (int, int) {
	if width <= 0 || height <= 0 || ratioX <= 0 || ratioY <= 0 {
		return width, height
	}
	if width*ratioY > height*ratioX {
		width = maxInt(height*ratioX/ratioY, 1)
	} else if width*ratioY < height*ratioX {
		height = maxInt(width*ratioY/ratioX, 1)
	}
	return width, height
}
