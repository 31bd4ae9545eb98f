package annotation

import (
	"math"

	"github.com/example/snapmark/internal/geometry"
)

// Tool is the current interaction mode.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolBlur
	ToolPen
	ToolArrow
	ToolRectangle
	ToolCrop
	ToolText
	ToolOcr
)

// String returns the tool's toolbar label.
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "Select"
	case ToolPan:
		return "Pan"
	case ToolBlur:
		return "Blur"
	case ToolPen:
		return "Pen"
	case ToolArrow:
		return "Arrow"
	case ToolRectangle:
		return "Rect"
	case ToolCrop:
		return "Crop"
	case ToolText:
		return "Text"
	case ToolOcr:
		return "OCR"
	default:
		return "Select"
	}
}

// HitTestPadding widens point hit tests so thin strokes stay clickable.
const HitTestPadding = 4

// EditorTools owns the ordered annotation object list for one editor
// session. Insertion order is draw z-order; ids are allocated
// monotonically starting at 1 and never reused within a session.
type EditorTools struct {
	objects []Object
	nextID  uint64

	activeTool Tool

	blur      BlurOptions
	pen       PenOptions
	arrow     ArrowOptions
	rectangle RectangleOptions
	text      TextOptions
	crop      CropOptions

	activePenID  uint64 // 0 when no stroke is being drawn
	activeTextID uint64 // 0 when no text box has edit focus
	preedit      TextPreedit
}

// Option configures a new EditorTools.
type Option func(*EditorTools)

func WithBlurOptions(o BlurOptions) Option   { return func(t *EditorTools) { t.blur = o } }
func WithPenOptions(o PenOptions) Option     { return func(t *EditorTools) { t.pen = o } }
func WithArrowOptions(o ArrowOptions) Option { return func(t *EditorTools) { t.arrow = o } }
func WithRectangleOptions(o RectangleOptions) Option {
	return func(t *EditorTools) { t.rectangle = o }
}
func WithTextOptions(o TextOptions) Option { return func(t *EditorTools) { t.text = o } }
func WithCropPreset(p CropPreset) Option   { return func(t *EditorTools) { t.crop.Preset = p } }

// NewEditorTools creates an empty collection with default options.
func NewEditorTools(opts ...Option) *EditorTools {
	t := &EditorTools{
		nextID:     1,
		activeTool: ToolSelect,
		blur:       DefaultBlurOptions(),
		pen:        DefaultPenOptions(),
		arrow:      DefaultArrowOptions(),
		rectangle:  DefaultRectangleOptions(),
		text:       DefaultTextOptions(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *EditorTools) allocateID() uint64 {
	id := t.nextID
	if t.nextID < math.MaxUint64 {
		t.nextID++
	}
	return id
}

// ActiveTool returns the current interaction mode.
func (t *EditorTools) ActiveTool() Tool { return t.activeTool }

// SetActiveTool switches the interaction mode without side effects;
// tool-switch policy lives in the editor session.
func (t *EditorTools) SetActiveTool(tool Tool) { t.activeTool = tool }

// Option accessors return the defaults applied to the next object of
// each kind.
func (t *EditorTools) BlurOptions() BlurOptions           { return t.blur }
func (t *EditorTools) PenOptions() PenOptions             { return t.pen }
func (t *EditorTools) ArrowOptions() ArrowOptions         { return t.arrow }
func (t *EditorTools) RectangleOptions() RectangleOptions { return t.rectangle }
func (t *EditorTools) TextOptions() TextOptions           { return t.text }
func (t *EditorTools) CropOptions() CropOptions           { return t.crop }

// SetSharedStrokeColor applies one stroke color to the pen, arrow,
// rectangle, and text defaults. Existing objects are not touched.
func (t *EditorTools) SetSharedStrokeColor(c Color) {
	t.pen.Color = c
	t.arrow.Color = c
	t.rectangle.Color = c
	t.text.Color = c
}

// SetSharedStrokeThickness applies one thickness to the pen, arrow,
// and rectangle defaults.
func (t *EditorTools) SetSharedStrokeThickness(v uint8) {
	t.pen.SetThickness(v)
	t.arrow.SetThickness(v)
	t.rectangle.SetThickness(v)
}

func (t *EditorTools) SetBlurIntensity(v uint8)          { t.blur.SetIntensity(v) }
func (t *EditorTools) SetPenOpacity(v uint8)             { t.pen.SetOpacity(v) }
func (t *EditorTools) SetArrowHeadSize(v uint8)          { t.arrow.SetHeadSize(v) }
func (t *EditorTools) SetTextSize(v uint8)               { t.text.SetSize(v) }
func (t *EditorTools) SetTextWeight(v uint16)            { t.text.SetWeight(v) }
func (t *EditorTools) SetTextFamily(f FontFamily)        { t.text.Family = f }
func (t *EditorTools) SetRectangleBorderRadius(v uint16) { t.rectangle.BorderRadius = v }
func (t *EditorTools) SetRectangleFill(enabled bool)     { t.rectangle.FillEnabled = enabled }
func (t *EditorTools) SetCropPreset(p CropPreset)        { t.crop.Preset = p }

// Objects returns the collection in insertion order.
func (t *EditorTools) Objects() []Object { return t.objects }

// ObjectByID resolves an id to its live object.
func (t *EditorTools) ObjectByID(id uint64) (Object, bool) {
	for _, obj := range t.objects {
		if obj.ID() == id {
			return obj, true
		}
	}
	return nil, false
}

// Snapshot deep-copies the object list for undo bookkeeping.
func (t *EditorTools) Snapshot() []Object {
	out := make([]Object, len(t.objects))
	for i, obj := range t.objects {
		out[i] = obj.Clone()
	}
	return out
}

// ReplaceObjects swaps in a snapshot, re-seeding the id counter past
// every restored id and dropping stale pen/text editing state.
func (t *EditorTools) ReplaceObjects(objects []Object) {
	t.objects = make([]Object, len(objects))
	maxID := uint64(0)
	for i, obj := range objects {
		t.objects[i] = obj.Clone()
		if obj.ID() > maxID {
			maxID = obj.ID()
		}
	}
	if maxID == math.MaxUint64 {
		t.nextID = maxID
	} else {
		t.nextID = maxID + 1
	}
	if t.activePenID != 0 {
		if _, ok := t.ObjectByID(t.activePenID); !ok {
			t.activePenID = 0
		}
	}
	if t.activeTextID != 0 {
		if _, ok := t.ObjectByID(t.activeTextID); !ok {
			t.activeTextID = 0
		}
	}
}

// AddBlur appends a blur region. Zero-area regions are rejected.
func (t *EditorTools) AddBlur(region geometry.Bounds) (uint64, error) {
	if region.Width <= 0 || region.Height <= 0 {
		return 0, ErrInvalidBlurRegion
	}
	el := &BlurElement{id: t.allocateID(), Region: region, Options: t.blur}
	t.objects = append(t.objects, el)
	return el.id, nil
}

// AddArrow appends an arrow. Zero-length arrows are rejected.
func (t *EditorTools) AddArrow(start, end geometry.Point) (uint64, error) {
	if start == end {
		return 0, ErrInvalidArrowGeometry
	}
	el := &ArrowElement{id: t.allocateID(), Start: start, End: end, Options: t.arrow}
	t.objects = append(t.objects, el)
	return el.id, nil
}

// AddRectangle appends the normalized rectangle spanned by two drag
// points; degenerate drags are rejected.
func (t *EditorTools) AddRectangle(start, end geometry.Point) (uint64, error) {
	b, ok := geometry.NormalizeBox(start, end)
	if !ok {
		return 0, ErrInvalidRectangleGeometry
	}
	el := &RectangleElement{id: t.allocateID(), Bounds: b, Options: t.rectangle}
	t.objects = append(t.objects, el)
	return el.id, nil
}

// AddCropInBounds builds a crop from a drag, clamped into the canvas
// and snapped to the active aspect preset. Results below the minimum
// crop size are rejected.
func (t *EditorTools) AddCropInBounds(start, end geometry.Point, canvasWidth, canvasHeight int) (uint64, error) {
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return 0, ErrInvalidCropGeometry
	}
	start = clampCropPoint(start, canvasWidth, canvasHeight)
	end = clampCropPoint(end, canvasWidth, canvasHeight)
	b, ok := geometry.NormalizeBox(start, end)
	if !ok {
		return 0, ErrInvalidCropGeometry
	}
	if rx, ry, constrained := t.crop.Preset.ResolveRatio(canvasWidth, canvasHeight); constrained {
		b.Width, b.Height = geometry.AdjustRatioToFit(b.Width, b.Height, rx, ry)
	} else if t.crop.Preset == CropOriginal {
		return 0, ErrInvalidCropGeometry
	}
	if b.Width < geometry.CropMinSize || b.Height < geometry.CropMinSize {
		return 0, ErrInvalidCropGeometry
	}
	el := &CropElement{id: t.allocateID(), Bounds: b, Options: t.crop}
	t.objects = append(t.objects, el)
	return el.id, nil
}

func clampCropPoint(p geometry.Point, canvasWidth, canvasHeight int) geometry.Point {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.X > canvasWidth {
		p.X = canvasWidth
	}
	if p.Y > canvasHeight {
		p.Y = canvasHeight
	}
	return p
}

// BeginPenStroke starts an incremental stroke at the given point and
// marks it active.
func (t *EditorTools) BeginPenStroke(p geometry.Point) uint64 {
	el := &PenStroke{id: t.allocateID(), Points: []geometry.Point{p}, Options: t.pen}
	t.objects = append(t.objects, el)
	t.activePenID = el.id
	return el.id
}

// AppendPenPoint extends the active stroke. Appending without an
// active stroke, or to a different id, fails.
func (t *EditorTools) AppendPenPoint(id uint64, p geometry.Point) error {
	if t.activePenID == 0 {
		return ErrToolNotSelected
	}
	if t.activePenID != id {
		return ErrPenStrokeNotFound
	}
	stroke, ok := t.penByID(id)
	if !ok {
		return ErrPenStrokeNotFound
	}
	stroke.Points = append(stroke.Points, p)
	return nil
}

// FinishPenStroke validates and closes the active stroke.
func (t *EditorTools) FinishPenStroke(id uint64) error {
	stroke, ok := t.penByID(id)
	if !ok {
		return ErrPenStrokeNotFound
	}
	if len(stroke.Points) == 0 {
		return ErrEmptyPenStroke
	}
	if t.activePenID == id {
		t.activePenID = 0
	}
	return nil
}

func (t *EditorTools) penByID(id uint64) (*PenStroke, bool) {
	obj, ok := t.ObjectByID(id)
	if !ok {
		return nil, false
	}
	stroke, ok := obj.(*PenStroke)
	return stroke, ok
}

// AddTextBox creates an empty text box, focuses it for editing, and
// switches the active tool to Text.
func (t *EditorTools) AddTextBox(p geometry.Point) uint64 {
	el := &TextElement{id: t.allocateID(), Pos: p, Options: t.text}
	t.objects = append(t.objects, el)
	t.activeTextID = el.id
	t.preedit = TextPreedit{}
	t.activeTool = ToolText
	return el.id
}

// FocusTextBox gives edit focus to an existing text box, placing the
// cursor at the end. Focusing a non-text id fails.
func (t *EditorTools) FocusTextBox(id uint64) error {
	obj, ok := t.ObjectByID(id)
	if !ok {
		return ErrObjectNotFound
	}
	text, ok := obj.(*TextElement)
	if !ok {
		return ErrObjectNotFound
	}
	text.MoveCursorToEnd()
	t.activeTextID = id
	t.preedit = TextPreedit{}
	return nil
}

// FinishTextBox clears text edit focus, dropping any composition that
// the input method never committed.
func (t *EditorTools) FinishTextBox() {
	t.activeTextID = 0
	t.preedit = TextPreedit{}
}

// UpdateTextPreedit replaces the composition shown in the focused
// text box; empty content withdraws it. It reports whether a text box
// has edit focus. Display-only state: the committed content changes
// only when the input method delivers ordinary character input.
func (t *EditorTools) UpdateTextPreedit(content string, cursorBytes int) bool {
	if t.activeTextID == 0 {
		t.preedit = TextPreedit{}
		return false
	}
	if content == "" {
		t.preedit = TextPreedit{}
		return true
	}
	t.preedit = TextPreedit{
		Content:     content,
		CursorChars: PreeditCursorChars(content, cursorBytes),
	}
	return true
}

// TextPreedit returns the active composition, if one is shown.
func (t *EditorTools) TextPreedit() (TextPreedit, bool) {
	if t.activeTextID == 0 || t.preedit.Content == "" {
		return TextPreedit{}, false
	}
	return t.preedit, true
}

// ActiveTextID returns the id of the text box in edit focus.
func (t *EditorTools) ActiveTextID() (uint64, bool) {
	return t.activeTextID, t.activeTextID != 0
}

// ActiveTextBox resolves the focused text box, if any.
func (t *EditorTools) ActiveTextBox() (*TextElement, bool) {
	if t.activeTextID == 0 {
		return nil, false
	}
	obj, ok := t.ObjectByID(t.activeTextID)
	if !ok {
		return nil, false
	}
	text, ok := obj.(*TextElement)
	return text, ok
}

// ResizeRectangle replaces a rectangle's geometry after clamping it to
// the image.
func (t *EditorTools) ResizeRectangle(id uint64, b geometry.Bounds, img geometry.ImageBounds) error {
	obj, ok := t.ObjectByID(id)
	if !ok {
		return ErrObjectNotFound
	}
	rect, ok := obj.(*RectangleElement)
	if !ok {
		return ErrObjectNotFound
	}
	clamped, ok := clampBoundsToImage(b, img)
	if !ok {
		return ErrInvalidRectangleGeometry
	}
	rect.Bounds = clamped
	return nil
}

// ResizeBlur replaces a blur region's geometry after clamping it to
// the image.
func (t *EditorTools) ResizeBlur(id uint64, b geometry.Bounds, img geometry.ImageBounds) error {
	obj, ok := t.ObjectByID(id)
	if !ok {
		return ErrObjectNotFound
	}
	blur, ok := obj.(*BlurElement)
	if !ok {
		return ErrObjectNotFound
	}
	clamped, ok := clampBoundsToImage(b, img)
	if !ok {
		return ErrInvalidBlurRegion
	}
	blur.Region = clamped
	return nil
}

// ResizeCrop replaces a crop's geometry; the crop minimum applies both
// before and after clamping.
func (t *EditorTools) ResizeCrop(id uint64, b geometry.Bounds, img geometry.ImageBounds) error {
	obj, ok := t.ObjectByID(id)
	if !ok {
		return ErrObjectNotFound
	}
	crop, ok := obj.(*CropElement)
	if !ok {
		return ErrObjectNotFound
	}
	if b.Width < geometry.CropMinSize || b.Height < geometry.CropMinSize {
		return ErrInvalidCropGeometry
	}
	clamped, ok := clampBoundsToImage(b, img)
	if !ok || clamped.Width < geometry.CropMinSize || clamped.Height < geometry.CropMinSize {
		return ErrInvalidCropGeometry
	}
	crop.Bounds = clamped
	return nil
}

func clampBoundsToImage(b geometry.Bounds, img geometry.ImageBounds) (geometry.Bounds, bool) {
	if b.Width <= 0 || b.Height <= 0 || img.Width <= 0 || img.Height <= 0 {
		return geometry.Bounds{}, false
	}
	if b.X < 0 {
		b.Width += b.X
		b.X = 0
	}
	if b.Y < 0 {
		b.Height += b.Y
		b.Y = 0
	}
	if b.X >= img.Width || b.Y >= img.Height {
		return geometry.Bounds{}, false
	}
	if b.X+b.Width > img.Width {
		b.Width = img.Width - b.X
	}
	if b.Y+b.Height > img.Height {
		b.Height = img.Height - b.Y
	}
	if b.Width <= 0 || b.Height <= 0 {
		return geometry.Bounds{}, false
	}
	return b, true
}

// ResizeObjectFromHandle recomputes an object's geometry from a corner
// drag. Crops snap to their aspect preset. It reports whether the
// geometry changed.
func (t *EditorTools) ResizeObjectFromHandle(id uint64, h geometry.Handle, p geometry.Point, img geometry.ImageBounds) (bool, error) {
	obj, ok := t.ObjectByID(id)
	if !ok {
		return false, ErrObjectNotFound
	}
	switch o := obj.(type) {
	case *RectangleElement:
		b, ok := geometry.ResizedBoundsFromHandle(o.Bounds, h, p, img)
		if !ok {
			return false, nil
		}
		changed := b != o.Bounds
		o.Bounds = b
		return changed, nil
	case *BlurElement:
		b, ok := geometry.ResizedBoundsFromHandle(o.Region, h, p, img)
		if !ok {
			return false, nil
		}
		changed := b != o.Region
		o.Region = b
		return changed, nil
	case *CropElement:
		rx, ry, constrained := o.Options.Preset.ResolveRatio(img.Width, img.Height)
		if !constrained {
			rx, ry = 0, 0
		}
		b, ok := geometry.ResizedCropFromHandle(o.Bounds, h, p, img, rx, ry)
		if !ok {
			return false, nil
		}
		changed := b != o.Bounds
		o.Bounds = b
		return changed, nil
	default:
		return false, ErrObjectNotFound
	}
}

// MoveObjectBy translates an object, clamping the delta per axis so
// its geometry stays inside the image. It reports whether the object
// actually moved.
func (t *EditorTools) MoveObjectBy(id uint64, dx, dy int, img geometry.ImageBounds) (bool, error) {
	obj, ok := t.ObjectByID(id)
	if !ok {
		return false, ErrObjectNotFound
	}
	switch o := obj.(type) {
	case *BlurElement:
		dx, dy = clampBoundsDelta(o.Region, dx, dy, img)
		o.Region.X += dx
		o.Region.Y += dy
	case *RectangleElement:
		dx, dy = clampBoundsDelta(o.Bounds, dx, dy, img)
		o.Bounds.X += dx
		o.Bounds.Y += dy
	case *CropElement:
		dx, dy = clampBoundsDelta(o.Bounds, dx, dy, img)
		o.Bounds.X += dx
		o.Bounds.Y += dy
	case *ArrowElement:
		dx, dy = clampPointsDelta([]geometry.Point{o.Start, o.End}, dx, dy, img)
		o.Start.X += dx
		o.Start.Y += dy
		o.End.X += dx
		o.End.Y += dy
	case *PenStroke:
		dx, dy = clampPointsDelta(o.Points, dx, dy, img)
		for i := range o.Points {
			o.Points[i].X += dx
			o.Points[i].Y += dy
		}
	case *TextElement:
		dx, dy = clampPointsDelta([]geometry.Point{o.Pos}, dx, dy, img)
		o.Pos.X += dx
		o.Pos.Y += dy
	}
	return dx != 0 || dy != 0, nil
}

// clampBoundsDelta limits a translation so the box stays within
// [0,width] x [0,height].
func clampBoundsDelta(b geometry.Bounds, dx, dy int, img geometry.ImageBounds) (int, int) {
	return clampAxisDelta(b.X, b.X+b.Width, dx, img.Width),
		clampAxisDelta(b.Y, b.Y+b.Height, dy, img.Height)
}

// clampPointsDelta limits a translation so every point stays on a
// valid pixel, [0,width-1] x [0,height-1].
func clampPointsDelta(points []geometry.Point, dx, dy int, img geometry.ImageBounds) (int, int) {
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
	return clampAxisDelta(minX, maxX, dx, img.Width-1),
		clampAxisDelta(minY, maxY, dy, img.Height-1)
}

func clampAxisDelta(lo, hi, delta, max int) int {
	if delta < -lo {
		delta = -lo
	}
	if delta > max-hi {
		delta = max - hi
	}
	return delta
}

// RemoveObject removes and returns the object with the given id.
func (t *EditorTools) RemoveObject(id uint64) (Object, bool) {
	for i, obj := range t.objects {
		if obj.ID() == id {
			t.objects = append(t.objects[:i], t.objects[i+1:]...)
			if t.activePenID == id {
				t.activePenID = 0
			}
			if t.activeTextID == id {
				t.activeTextID = 0
			}
			return obj, true
		}
	}
	return nil, false
}

// Crops returns every crop element in insertion order.
func (t *EditorTools) Crops() []*CropElement {
	var out []*CropElement
	for _, obj := range t.objects {
		if crop, ok := obj.(*CropElement); ok {
			out = append(out, crop)
		}
	}
	return out
}

// ObjectsInDrawOrder yields blurs first in insertion order, then every
// other object in insertion order. Blur must composite beneath the
// annotations drawn on top of it.
func (t *EditorTools) ObjectsInDrawOrder() []Object {
	out := make([]Object, 0, len(t.objects))
	for _, obj := range t.objects {
		if _, ok := obj.(*BlurElement); ok {
			out = append(out, obj)
		}
	}
	for _, obj := range t.objects {
		if _, ok := obj.(*BlurElement); !ok {
			out = append(out, obj)
		}
	}
	return out
}

// ObjectsInHitTestOrder yields non-blur objects newest first, then
// blurs newest first: visually topmost annotations win hit tests even
// though blur draws beneath them.
func (t *EditorTools) ObjectsInHitTestOrder() []Object {
	out := make([]Object, 0, len(t.objects))
	for i := len(t.objects) - 1; i >= 0; i-- {
		if _, ok := t.objects[i].(*BlurElement); !ok {
			out = append(out, t.objects[i])
		}
	}
	for i := len(t.objects) - 1; i >= 0; i-- {
		if _, ok := t.objects[i].(*BlurElement); ok {
			out = append(out, t.objects[i])
		}
	}
	return out
}

// TopObjectIDAt returns the topmost object under a point, using the
// padded hit test.
func (t *EditorTools) TopObjectIDAt(p geometry.Point) (uint64, bool) {
	for _, obj := range t.ObjectsInHitTestOrder() {
		b, ok := ObjectBounds(obj)
		if !ok {
			continue
		}
		if geometry.PointInBounds(p, b, HitTestPadding) {
			return obj.ID(), true
		}
	}
	return 0, false
}

// TopTextIDAt returns the topmost text box under a point.
func (t *EditorTools) TopTextIDAt(p geometry.Point) (uint64, bool) {
	for _, obj := range t.ObjectsInHitTestOrder() {
		text, ok := obj.(*TextElement)
		if !ok {
			continue
		}
		b, ok := ObjectBounds(text)
		if !ok {
			continue
		}
		if geometry.PointInBounds(p, b, HitTestPadding) {
			return text.ID(), true
		}
	}
	return 0, false
}

// ObjectIDsInDragBox collects every object intersecting a drag
// rectangle, in hit-test order.
func (t *EditorTools) ObjectIDsInDragBox(box geometry.Bounds) []uint64 {
	var out []uint64
	for _, obj := range t.ObjectsInHitTestOrder() {
		b, ok := ObjectBounds(obj)
		if !ok {
			continue
		}
		if geometry.BoundsIntersect(box, b) {
			out = append(out, obj.ID())
		}
	}
	return out
}

// TopObjectIDInDragBox returns only the first (top) intersecting
// object; drag-box multi-select is intentionally not exposed.
func (t *EditorTools) TopObjectIDInDragBox(box geometry.Bounds) (uint64, bool) {
	ids := t.ObjectIDsInDragBox(box)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}
