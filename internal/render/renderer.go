// Package render composites the annotation model over a captured
// image. Blur regions sample the unannotated source and are drawn
// first; every other object draws on top in insertion order. Crops
// never affect canvas compositing and are applied only when an output
// image is produced.
package render

import (
	"image"
	"image/draw"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geometry"
)

const (
	rectangleFillAlpha        = 24.0 / 255.0
	rectanglePreviewFillAlpha = 20.0 / 255.0
	rectanglePreviewStroke    = 0.95

	selectionDashOn    = 4.0
	selectionDashOff   = 3.0
	selectionLineWidth = 1.5

	cropMaskAlpha    = 0.35
	cropOutlineWidth = 2.0
	cropHandleRadius = 4.0
	resizeHandleSize = 8.0
	defaultArrowHead = 8.0
	caretWidth       = 1.5

	preeditUnderlineAlpha = 0.92
	resizeHandleAlpha     = 0.9
)

// Palette holds the overlay colors that are not part of any object's
// own options.
type Palette struct {
	Selection        annotation.Color
	HandleFill       annotation.Color
	CropOutline      annotation.Color
	OcrOverlay       annotation.Color
	PreeditUnderline annotation.Color
}

func DefaultPalette() Palette {
	return Palette{
		Selection:        annotation.Color{R: 66, G: 133, B: 244},
		HandleFill:       annotation.Color{R: 24, G: 24, B: 27},
		CropOutline:      annotation.Color{R: 255, G: 255, B: 255},
		OcrOverlay:       annotation.Color{R: 52, G: 199, B: 89},
		PreeditUnderline: annotation.Color{R: 31, G: 87, B: 235},
	}
}

// GesturePreview mirrors an in-progress drag for overlay drawing.
// Arrow and rectangle previews carry the tool options they will be
// committed with.
type GesturePreview struct {
	Tool           annotation.Tool
	Start, Current geometry.Point
	Arrow          annotation.ArrowOptions
	Rectangle      annotation.RectangleOptions
}

// Scene is everything one editor frame draws beyond the base pixels.
// Objects must already be in draw order.
type Scene struct {
	Objects       []annotation.Object
	Selection     []uint64
	PendingCrop   *annotation.CropElement
	Preview       *GesturePreview
	EditingTextID uint64
	CaretVisible  bool

	// Preedit is the input method's in-progress composition, shown
	// spliced into the EditingTextID box.
	Preedit *annotation.TextPreedit
}

// Renderer draws frames and output images. It owns the blur cache, so
// one Renderer should live as long as its editing session.
type Renderer struct {
	fonts   *FontSet
	blurs   *BlurCache
	palette Palette
}

func NewRenderer(fonts *FontSet) *Renderer {
	return &Renderer{fonts: fonts, blurs: NewBlurCache(), palette: DefaultPalette()}
}

// MeasureTextElement exposes font-accurate text sizing for hit tests.
func (r *Renderer) MeasureTextElement(t *annotation.TextElement) (int, int) {
	return r.fonts.MeasureTextElement(t)
}

// RenderEditorFrame composites an interactive frame: downsampled
// blurs through the cache, all objects, then the selection, pending
// crop, gesture preview, and caret overlays.
func (r *Renderer) RenderEditorFrame(base *image.RGBA, scene Scene) *image.RGBA {
	dc := r.compose(base, scene.Objects, true, scene)

	for _, id := range scene.Selection {
		if obj := objectByID(scene.Objects, id); obj != nil {
			r.drawSelectionOutline(dc, obj)
		}
	}
	if scene.PendingCrop != nil {
		r.drawCropOverlay(dc, scene.PendingCrop.Bounds, base.Bounds())
	}
	if scene.Preview != nil {
		r.drawGesturePreview(dc, *scene.Preview)
	}
	return dc.Image().(*image.RGBA)
}

// RenderOutput composites at full resolution with no overlays and
// applies crop, when given, as the final step.
func (r *Renderer) RenderOutput(base *image.RGBA, objects []annotation.Object, crop *geometry.Bounds) *image.RGBA {
	out := r.compose(base, objects, false, Scene{}).Image().(*image.RGBA)
	if crop == nil {
		return out
	}
	rect := image.Rect(crop.X, crop.Y, crop.X+crop.Width, crop.Y+crop.Height).Intersect(out.Bounds())
	if rect.Empty() {
		return out
	}
	cropped := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(cropped, cropped.Bounds(), out, rect.Min, draw.Src)
	return cropped
}

// compose draws blurs first, sampling base, then the remaining
// objects in their given order.
func (r *Renderer) compose(base *image.RGBA, objects []annotation.Object, preview bool, scene Scene) *gg.Context {
	dc := gg.NewContextForImage(base)

	visible := make(map[uint64]struct{})
	for _, obj := range objects {
		if blur, ok := obj.(*annotation.BlurElement); ok {
			visible[blur.ID()] = struct{}{}
			r.drawBlur(dc, base, blur, preview)
		}
	}
	if preview {
		r.blurs.Retain(visible)
	}

	for _, obj := range objects {
		switch o := obj.(type) {
		case *annotation.BlurElement:
			// Drawn in the first pass.
		case *annotation.PenStroke:
			r.drawPen(dc, o)
		case *annotation.ArrowElement:
			r.drawArrow(dc, o.Start, o.End, o.Options, 1.0)
		case *annotation.RectangleElement:
			r.drawRectangle(dc, o.Bounds, o.Options, false)
		case *annotation.TextElement:
			editing := preview && o.ID() == scene.EditingTextID
			var pe *annotation.TextPreedit
			if editing {
				pe = scene.Preedit
			}
			r.drawText(dc, o, editing && scene.CaretVisible, pe)
		}
	}
	return dc
}

func objectByID(objects []annotation.Object, id uint64) annotation.Object {
	for _, obj := range objects {
		if obj.ID() == id {
			return obj
		}
	}
	return nil
}

func (r *Renderer) drawBlur(dc *gg.Context, base *image.RGBA, blur *annotation.BlurElement, preview bool) {
	rect := image.Rect(
		blur.Region.X, blur.Region.Y,
		blur.Region.X+blur.Region.Width, blur.Region.Y+blur.Region.Height,
	).Intersect(base.Bounds())
	if rect.Empty() {
		return
	}
	intensity := blur.Options.Intensity

	var pixels *image.RGBA
	if preview {
		if cached, ok := r.blurs.Lookup(blur.ID(), base.Bounds(), rect, intensity); ok {
			pixels = cached
		} else {
			pixels = BlurRegion(base, rect, intensity, true)
			r.blurs.Store(blur.ID(), base.Bounds(), rect, intensity, pixels)
		}
	} else {
		pixels = BlurRegion(base, rect, intensity, false)
	}
	dc.DrawImage(gg.ImageBufFromImage(pixels), float64(rect.Min.X), float64(rect.Min.Y))
}

func (r *Renderer) drawPen(dc *gg.Context, pen *annotation.PenStroke) {
	if len(pen.Points) == 0 {
		return
	}
	setColor(dc, pen.Options.Color, float64(pen.Options.Opacity)/100.0)
	dc.SetLineWidth(float64(pen.Options.Thickness))
	dc.SetLineCap(gg.LineCapRound)
	if len(pen.Points) == 1 {
		p := pen.Points[0]
		dc.DrawCircle(float64(p.X), float64(p.Y), float64(pen.Options.Thickness)/2)
		dc.Fill()
		return
	}
	dc.MoveTo(float64(pen.Points[0].X), float64(pen.Points[0].Y))
	for _, p := range pen.Points[1:] {
		dc.LineTo(float64(p.X), float64(p.Y))
	}
	dc.Stroke()
}

// drawArrow draws a round-capped shaft shortened to the head base,
// then the filled triangular head at the end point.
func (r *Renderer) drawArrow(dc *gg.Context, start, end geometry.Point, opts annotation.ArrowOptions, opacity float64) {
	x0, y0 := float64(start.X), float64(start.Y)
	x1, y1 := float64(end.X), float64(end.Y)
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length

	thickness := float64(opts.Thickness)
	scale := float64(opts.HeadSize) / defaultArrowHead
	headLength := thickness * 3.5 * scale
	if headLength < thickness*2 {
		headLength = thickness * 2
	}
	if headLength > length*0.7 {
		headLength = length * 0.7
	}
	headHalfWidth := thickness * 1.8 * scale
	if headHalfWidth < thickness*0.8 {
		headHalfWidth = thickness * 0.8
	}

	baseX := x1 - ux*headLength
	baseY := y1 - uy*headLength

	setColor(dc, opts.Color, opacity)
	dc.SetLineWidth(thickness)
	dc.SetLineCap(gg.LineCapRound)
	dc.DrawLine(x0, y0, baseX, baseY)
	dc.Stroke()

	px, py := -uy, ux
	dc.MoveTo(x1, y1)
	dc.LineTo(baseX+px*headHalfWidth, baseY+py*headHalfWidth)
	dc.LineTo(baseX-px*headHalfWidth, baseY-py*headHalfWidth)
	dc.ClosePath()
	dc.Fill()
}

func (r *Renderer) drawRectangle(dc *gg.Context, b geometry.Bounds, opts annotation.RectangleOptions, preview bool) {
	w, h := float64(b.Width), float64(b.Height)
	radius := float64(opts.BorderRadius)
	if max := math.Min(w, h) / 2; radius > max {
		radius = max
	}

	fillAlpha := rectangleFillAlpha
	strokeAlpha := 1.0
	if preview {
		fillAlpha = rectanglePreviewFillAlpha
		strokeAlpha = rectanglePreviewStroke
	}

	if opts.FillEnabled {
		setColor(dc, opts.Color, fillAlpha)
		dc.DrawRoundedRectangle(float64(b.X), float64(b.Y), w, h, radius)
		dc.Fill()
	}
	setColor(dc, opts.Color, strokeAlpha)
	dc.SetLineWidth(float64(opts.Thickness))
	dc.DrawRoundedRectangle(float64(b.X), float64(b.Y), w, h, radius)
	dc.Stroke()
}

func (r *Renderer) drawText(dc *gg.Context, t *annotation.TextElement, caret bool, preedit *annotation.TextPreedit) {
	size := float64(t.Options.Size)
	face := r.fonts.Face(t.Options.Family, t.Options.Weight, size)
	dc.SetFont(face)
	setColor(dc, t.Options.Color, 1.0)

	content := t.Content()
	if preedit != nil && preedit.Content != "" {
		content = t.ContentWithPreedit(*preedit)
	}
	lines := strings.Split(content, "\n")
	lineHeight := t.LineHeight()
	x := float64(t.Pos.X)
	for i, line := range lines {
		baseline := t.BaselineY() + float64(i)*lineHeight
		if line != "" {
			dc.DrawString(line, x, baseline)
		}
	}

	if !caret && preedit == nil {
		return
	}
	layout := r.caretLayout(face, t, preedit)
	if preedit != nil && preedit.Content != "" {
		setColor(dc, r.palette.PreeditUnderline, preeditUnderlineAlpha)
		dc.SetLineWidth(1)
		dc.DrawLine(layout.preeditStartX, layout.baselineY+2, layout.preeditEndX, layout.baselineY+2)
		dc.Stroke()
	}
	if caret {
		setColor(dc, t.Options.Color, 1.0)
		dc.SetLineWidth(caretWidth)
		dc.DrawLine(layout.caretX, layout.top, layout.caretX, layout.top+size)
		dc.Stroke()
	}
}

// textCaretLayout is the caret geometry for a focused text box, in
// image-space pixels. The preedit span sits on the caret's line.
type textCaretLayout struct {
	caretX, top, baselineY     float64
	preeditStartX, preeditEndX float64
}

func (r *Renderer) caretLayout(face text.Face, t *annotation.TextElement, preedit *annotation.TextPreedit) textCaretLayout {
	line, column := caretPosition(t)
	lines := t.Lines()
	lineRunes := []rune(lines[line])
	if column > len(lineRunes) {
		column = len(lineRunes)
	}
	lineHeight := t.LineHeight()
	committedX := float64(t.Pos.X) + r.fonts.Measure(face, string(lineRunes[:column]))

	layout := textCaretLayout{
		caretX:        committedX,
		top:           float64(t.Pos.Y) + float64(line)*lineHeight,
		baselineY:     t.BaselineY() + float64(line)*lineHeight,
		preeditStartX: committedX,
		preeditEndX:   committedX,
	}
	if preedit != nil && preedit.Content != "" {
		peRunes := []rune(preedit.Content)
		cursor := preedit.CursorChars
		if cursor > len(peRunes) {
			cursor = len(peRunes)
		}
		layout.preeditEndX = committedX + r.fonts.Measure(face, preedit.Content)
		layout.caretX = committedX + r.fonts.Measure(face, string(peRunes[:cursor]))
	}
	return layout
}

// TextCaretRect reports the caret's image-space pixel rectangle for a
// focused text box. Input methods use it to place candidate windows,
// so it accounts for the caret's position inside an active preedit.
func (r *Renderer) TextCaretRect(t *annotation.TextElement, preedit *annotation.TextPreedit) geometry.Bounds {
	face := r.fonts.Face(t.Options.Family, t.Options.Weight, float64(t.Options.Size))
	layout := r.caretLayout(face, t, preedit)
	return geometry.Bounds{
		X:      int(layout.caretX),
		Y:      int(layout.top),
		Width:  int(math.Ceil(caretWidth)),
		Height: int(t.LineHeight()),
	}
}

// caretPosition locates the cursor as a line and rune column.
func caretPosition(t *annotation.TextElement) (line, column int) {
	runes := []rune(t.Content())
	cursor := t.CursorChars()
	if cursor > len(runes) {
		cursor = len(runes)
	}
	column = cursor
	for i := 0; i < cursor; i++ {
		if runes[i] == '\n' {
			line++
			column = cursor - i - 1
		}
	}
	return line, column
}

func (r *Renderer) drawSelectionOutline(dc *gg.Context, obj annotation.Object) {
	var b geometry.Bounds
	if t, ok := obj.(*annotation.TextElement); ok {
		w, h := r.fonts.MeasureTextElement(t)
		b = geometry.Bounds{X: t.Pos.X, Y: t.Pos.Y, Width: w, Height: h}
	} else {
		bounds, ok := annotation.ObjectBounds(obj)
		if !ok {
			return
		}
		b = bounds
	}
	setColor(dc, r.palette.Selection, 1.0)
	dc.SetLineWidth(selectionLineWidth)
	dc.SetDash(selectionDashOn, selectionDashOff)
	dc.DrawRectangle(float64(b.X), float64(b.Y), float64(b.Width), float64(b.Height))
	dc.Stroke()
	dc.ClearDash()

	switch obj.(type) {
	case *annotation.RectangleElement, *annotation.BlurElement, *annotation.CropElement:
		r.drawResizeHandles(dc, b)
	}
}

// drawResizeHandles marks the four grabbable corners of a selected
// resizable object.
func (r *Renderer) drawResizeHandles(dc *gg.Context, b geometry.Bounds) {
	setColor(dc, r.palette.HandleFill, resizeHandleAlpha)
	for _, corner := range geometry.CornerPoints(b) {
		dc.DrawRectangle(
			float64(corner.X)-resizeHandleSize/2,
			float64(corner.Y)-resizeHandleSize/2,
			resizeHandleSize, resizeHandleSize,
		)
		dc.Fill()
	}
}

// drawCropOverlay dims everything outside the crop with four masked
// regions, then outlines the kept region and its corner handles.
func (r *Renderer) drawCropOverlay(dc *gg.Context, crop geometry.Bounds, canvas image.Rectangle) {
	cw, ch := float64(canvas.Dx()), float64(canvas.Dy())
	x, y := float64(crop.X), float64(crop.Y)
	w, h := float64(crop.Width), float64(crop.Height)

	dc.SetRGBA(0, 0, 0, cropMaskAlpha)
	dc.DrawRectangle(0, 0, cw, y)
	dc.Fill()
	dc.DrawRectangle(0, y+h, cw, ch-y-h)
	dc.Fill()
	dc.DrawRectangle(0, y, x, h)
	dc.Fill()
	dc.DrawRectangle(x+w, y, cw-x-w, h)
	dc.Fill()

	setColor(dc, r.palette.CropOutline, 1.0)
	dc.SetLineWidth(cropOutlineWidth)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()

	for _, corner := range geometry.CornerPoints(crop) {
		setColor(dc, r.palette.CropOutline, 1.0)
		dc.DrawCircle(float64(corner.X), float64(corner.Y), cropHandleRadius)
		dc.Fill()
		setColor(dc, r.palette.Selection, 1.0)
		dc.SetLineWidth(1)
		dc.DrawCircle(float64(corner.X), float64(corner.Y), cropHandleRadius)
		dc.Stroke()
	}
}

func (r *Renderer) drawGesturePreview(dc *gg.Context, p GesturePreview) {
	box, hasBox := geometry.NormalizeBox(p.Start, p.Current)

	switch p.Tool {
	case annotation.ToolArrow:
		r.drawArrow(dc, p.Start, p.Current, p.Arrow, rectanglePreviewStroke)
	case annotation.ToolRectangle:
		if !hasBox {
			return
		}
		r.drawRectangle(dc, box, p.Rectangle, true)
	case annotation.ToolSelect:
		if !hasBox {
			return
		}
		setColor(dc, r.palette.Selection, 1.0)
		dc.SetLineWidth(selectionLineWidth)
		dc.SetDash(selectionDashOn, selectionDashOff)
		dc.DrawRectangle(float64(box.X), float64(box.Y), float64(box.Width), float64(box.Height))
		dc.Stroke()
		dc.ClearDash()
	case annotation.ToolBlur:
		if !hasBox {
			return
		}
		dc.SetRGBA(0.5, 0.5, 0.5, 0.25)
		dc.DrawRectangle(float64(box.X), float64(box.Y), float64(box.Width), float64(box.Height))
		dc.Fill()
		setColor(dc, r.palette.Selection, 1.0)
		dc.SetLineWidth(selectionLineWidth)
		dc.SetDash(selectionDashOn, selectionDashOff)
		dc.DrawRectangle(float64(box.X), float64(box.Y), float64(box.Width), float64(box.Height))
		dc.Stroke()
		dc.ClearDash()
	case annotation.ToolCrop:
		if !hasBox {
			return
		}
		setColor(dc, r.palette.CropOutline, 1.0)
		dc.SetLineWidth(cropOutlineWidth)
		dc.SetDash(selectionDashOn, selectionDashOff)
		dc.DrawRectangle(float64(box.X), float64(box.Y), float64(box.Width), float64(box.Height))
		dc.Stroke()
		dc.ClearDash()
	case annotation.ToolOcr:
		if !hasBox {
			return
		}
		setColor(dc, r.palette.OcrOverlay, 1.0)
		dc.SetLineWidth(selectionLineWidth)
		dc.SetDash(selectionDashOn, selectionDashOff)
		dc.DrawRectangle(float64(box.X), float64(box.Y), float64(box.Width), float64(box.Height))
		dc.Stroke()
		dc.ClearDash()
	}
}

func setColor(dc *gg.Context, c annotation.Color, alpha float64) {
	dc.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, alpha)
}
