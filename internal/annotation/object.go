// Package annotation owns the editor's object model: the six annotation
// kinds, their option records, and the EditorTools collection that
// creates, mutates, and queries them.
package annotation

import "github.com/example/snapmark/internal/geometry"

// Object is the closed union of annotation kinds. Every object carries
// a session-unique id assigned at creation; ids are the only stable
// handle across undo snapshots.
type Object interface {
	ID() uint64
	// Clone returns a deep copy; snapshots rely on it.
	Clone() Object

	annotationObject()
}

// BlurElement obscures a rectangular region of the source image.
type BlurElement struct {
	id      uint64
	Region  geometry.Bounds
	Options BlurOptions
}

// PenStroke is a freehand polyline built point by point during a drag.
type PenStroke struct {
	id      uint64
	Points  []geometry.Point
	Options PenOptions
}

// ArrowElement is a directed line with a filled triangular head at End.
type ArrowElement struct {
	id         uint64
	Start, End geometry.Point
	Options    ArrowOptions
}

// RectangleElement is an outlined, optionally filled rectangle.
type RectangleElement struct {
	id      uint64
	Bounds  geometry.Bounds
	Options RectangleOptions
}

// CropElement marks the output crop region. It is non-destructive
// until save/copy time.
type CropElement struct {
	id      uint64
	Bounds  geometry.Bounds
	Options CropOptions
}

func (b *BlurElement) ID() uint64      { return b.id }
func (p *PenStroke) ID() uint64        { return p.id }
func (a *ArrowElement) ID() uint64     { return a.id }
func (r *RectangleElement) ID() uint64 { return r.id }
func (c *CropElement) ID() uint64      { return c.id }

func (b *BlurElement) Clone() Object {
	out := *b
	return &out
}

func (p *PenStroke) Clone() Object {
	out := *p
	out.Points = append([]geometry.Point(nil), p.Points...)
	return &out
}

func (a *ArrowElement) Clone() Object {
	out := *a
	return &out
}

func (r *RectangleElement) Clone() Object {
	out := *r
	return &out
}

func (c *CropElement) Clone() Object {
	out := *c
	return &out
}

func (*BlurElement) annotationObject()      {}
func (*PenStroke) annotationObject()        {}
func (*ArrowElement) annotationObject()     {}
func (*RectangleElement) annotationObject() {}
func (*CropElement) annotationObject()      {}

// ObjectBounds returns the object's axis-aligned bounding box. Pen and
// arrow boxes include a one pixel extent so single-point geometry still
// occupies area. Empty pen strokes have no bounds.
func ObjectBounds(obj Object) (geometry.Bounds, bool) {
	switch o := obj.(type) {
	case *BlurElement:
		return o.Region, true
	case *RectangleElement:
		return o.Bounds, true
	case *CropElement:
		return o.Bounds, true
	case *ArrowElement:
		return pointSpanBounds([]geometry.Point{o.Start, o.End}), true
	case *PenStroke:
		if len(o.Points) == 0 {
			return geometry.Bounds{}, false
		}
		return pointSpanBounds(o.Points), true
	case *TextElement:
		w, h := o.Dimensions(nil)
		return geometry.Bounds{X: o.Pos.X, Y: o.Pos.Y, Width: w, Height: h}, true
	default:
		return geometry.Bounds{}, false
	}
}

func pointSpanBounds(points []geometry.Point) geometry.Bounds {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return geometry.Bounds{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}
