package editor

import (
	"log"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geometry"
)

// DragPreview is the live overlay for an in-progress drawing drag. The
// committed object is created only when the drag ends.
type DragPreview struct {
	Tool           annotation.Tool
	Start, Current geometry.Point
}

type dragKind int

const (
	dragMove dragKind = iota
	dragResizeObject
	dragPen
	dragMovePendingCrop
	dragResizePendingCrop
	dragPan
)

// dragState tracks an active move/resize/pen gesture. Drawing-tool
// drags use the preview instead.
type dragState struct {
	kind dragKind

	// move
	objectIDs []uint64
	last      geometry.Point

	// resize
	resizeID uint64
	handle   geometry.Handle

	// pen
	penID uint64

	// pending crop move
	pressPoint geometry.Point
	cropOrigin geometry.Point
}

// Preview returns the live drawing overlay, if one is active.
func (s *Session) Preview() (*DragPreview, bool) {
	return s.preview, s.preview != nil
}

// BeginDrag starts a pointer gesture at p, branching on the active
// tool. Drawing tools record their undo snapshot here, before the
// mutation; a later failed commit leaves that snapshot as a no-op
// entry.
func (s *Session) BeginDrag(p geometry.Point) {
	p = geometry.ClampPoint(p, s.img)
	tool := s.tools.ActiveTool()

	if tool == annotation.ToolCrop && s.pendingCrop != nil {
		if handle, ok := geometry.HandleAtPoint(s.pendingCrop.Bounds, p); ok {
			s.drag = &dragState{kind: dragResizePendingCrop, handle: handle}
			return
		}
		if geometry.PointInBounds(p, s.pendingCrop.Bounds, 0) {
			s.drag = &dragState{
				kind:       dragMovePendingCrop,
				pressPoint: p,
				cropOrigin: geometry.Point{X: s.pendingCrop.Bounds.X, Y: s.pendingCrop.Bounds.Y},
			}
			return
		}
		// Starting a fresh crop drag replaces the old pending crop.
		s.pendingCrop = nil
	}

	switch tool {
	case annotation.ToolSelect:
		id, hit := s.tools.TopObjectIDAt(p)
		if !hit {
			s.preview = &DragPreview{Tool: tool, Start: p, Current: p}
			return
		}
		s.setSingleSelection(id)
		if handle, ok := s.resizeHandleAt(id, p); ok {
			s.RecordSnapshot()
			s.drag = &dragState{kind: dragResizeObject, resizeID: id, handle: handle}
			return
		}
		s.RecordSnapshot()
		s.drag = &dragState{kind: dragMove, objectIDs: []uint64{id}, last: p}
	case annotation.ToolBlur, annotation.ToolArrow, annotation.ToolRectangle:
		s.RecordSnapshot()
		s.preview = &DragPreview{Tool: tool, Start: p, Current: p}
	case annotation.ToolCrop, annotation.ToolOcr:
		s.preview = &DragPreview{Tool: tool, Start: p, Current: p}
	case annotation.ToolPen:
		s.RecordSnapshot()
		id := s.tools.BeginPenStroke(p)
		s.drag = &dragState{kind: dragPen, penID: id}
	case annotation.ToolText:
		s.TextClick(p, false)
	case annotation.ToolPan:
		s.drag = &dragState{kind: dragPan, last: p}
	}
}

// resizeHandleAt reports the corner handle under p for objects that
// support handle resizing (rectangle, blur, crop).
func (s *Session) resizeHandleAt(id uint64, p geometry.Point) (geometry.Handle, bool) {
	obj, ok := s.tools.ObjectByID(id)
	if !ok {
		return 0, false
	}
	switch o := obj.(type) {
	case *annotation.RectangleElement:
		return geometry.HandleAtPoint(o.Bounds, p)
	case *annotation.BlurElement:
		return geometry.HandleAtPoint(o.Region, p)
	case *annotation.CropElement:
		return geometry.HandleAtPoint(o.Bounds, p)
	default:
		return 0, false
	}
}

// UpdateDrag advances the gesture to p. Moves accumulate per-update
// deltas; resizes recompute the whole rectangle from the anchor.
func (s *Session) UpdateDrag(p geometry.Point) {
	p = geometry.ClampPoint(p, s.img)

	if s.drag != nil {
		switch s.drag.kind {
		case dragMove:
			dx := p.X - s.drag.last.X
			dy := p.Y - s.drag.last.Y
			if dx == 0 && dy == 0 {
				return
			}
			anyMoved := false
			for _, id := range s.drag.objectIDs {
				moved, err := s.tools.MoveObjectBy(id, dx, dy, s.img)
				if err != nil {
					continue
				}
				if moved {
					anyMoved = true
				}
			}
			if anyMoved {
				s.drag.last = p
			}
		case dragResizeObject:
			if _, err := s.tools.ResizeObjectFromHandle(s.drag.resizeID, s.drag.handle, p, s.img); err != nil {
				log.Printf("editor: resize drag: %v", err)
			}
		case dragPen:
			if err := s.tools.AppendPenPoint(s.drag.penID, p); err != nil {
				log.Printf("editor: pen drag: %v", err)
			}
		case dragMovePendingCrop:
			s.movePendingCropTo(p)
		case dragResizePendingCrop:
			s.resizePendingCropTo(p)
		case dragPan:
			// The canvas follows the pointer, so the viewport shifts
			// against the pointer delta.
			dx := p.X - s.drag.last.X
			dy := p.Y - s.drag.last.Y
			if dx == 0 && dy == 0 {
				return
			}
			s.viewport.PanBy(-dx, -dy)
			s.drag.last = p
		}
		return
	}
	if s.preview != nil {
		s.preview.Current = p
	}
}

func (s *Session) movePendingCropTo(p geometry.Point) {
	if s.pendingCrop == nil || s.drag == nil {
		return
	}
	b := s.pendingCrop.Bounds
	x := s.drag.cropOrigin.X + (p.X - s.drag.pressPoint.X)
	y := s.drag.cropOrigin.Y + (p.Y - s.drag.pressPoint.Y)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+b.Width > s.img.Width {
		x = s.img.Width - b.Width
	}
	if y+b.Height > s.img.Height {
		y = s.img.Height - b.Height
	}
	s.pendingCrop.Bounds.X = x
	s.pendingCrop.Bounds.Y = y
}

func (s *Session) resizePendingCropTo(p geometry.Point) {
	if s.pendingCrop == nil || s.drag == nil {
		return
	}
	rx, ry, constrained := s.pendingCrop.Options.Preset.ResolveRatio(s.img.Width, s.img.Height)
	if !constrained {
		rx, ry = 0, 0
	}
	if b, ok := geometry.ResizedCropFromHandle(s.pendingCrop.Bounds, s.drag.handle, p, s.img, rx, ry); ok {
		s.pendingCrop.Bounds = b
	}
}

// EndDrag finishes the gesture at p, committing drawing previews into
// the object model.
func (s *Session) EndDrag(p geometry.Point) {
	p = geometry.ClampPoint(p, s.img)

	if s.drag != nil {
		drag := s.drag
		s.drag = nil
		switch drag.kind {
		case dragMove:
			s.unsaved = true
			s.setStatus("moved selection")
		case dragResizeObject:
			s.unsaved = true
			s.setStatus("resized object")
		case dragPen:
			if err := s.tools.AppendPenPoint(drag.penID, p); err != nil {
				log.Printf("editor: pen end: %v", err)
			}
			if err := s.tools.FinishPenStroke(drag.penID); err != nil {
				s.setStatus("pen stroke failed: %v", err)
				return
			}
			s.setSingleSelection(drag.penID)
			s.unsaved = true
			s.setStatus("pen stroke added")
		case dragMovePendingCrop, dragResizePendingCrop:
			s.setStatus("crop adjusted")
		case dragPan:
			s.setStatus("viewport pan (%d, %d)", s.viewport.PanX(), s.viewport.PanY())
		}
		return
	}

	if s.preview == nil {
		return
	}
	preview := *s.preview
	s.preview = nil
	preview.Current = p

	switch preview.Tool {
	case annotation.ToolSelect:
		s.endSelectDrag(preview)
	case annotation.ToolBlur:
		region, ok := geometry.NormalizeBox(preview.Start, p)
		if !ok {
			s.setStatus("blur region too small")
			return
		}
		s.commitAdd(s.tools.AddBlur(region))
	case annotation.ToolArrow:
		s.commitAdd(s.tools.AddArrow(preview.Start, p))
	case annotation.ToolRectangle:
		s.commitAdd(s.tools.AddRectangle(preview.Start, p))
	case annotation.ToolCrop:
		s.endCropDrag(preview, p)
	case annotation.ToolOcr:
		region, ok := geometry.NormalizeBox(preview.Start, p)
		if !ok {
			s.setStatus("ocr region too small")
			return
		}
		if s.OnOcrRegion == nil {
			s.setStatus("ocr unavailable")
			return
		}
		s.OnOcrRegion(region)
	}
}

func (s *Session) commitAdd(id uint64, err error) {
	if err != nil {
		// The snapshot pushed at begin stays behind as a no-op
		// undo entry.
		s.setStatus("draw failed: %v", err)
		log.Printf("editor: draw commit: %v", err)
		return
	}
	s.setSingleSelection(id)
	s.unsaved = true
	s.setStatus("added %s", s.tools.ActiveTool())
}

func (s *Session) endSelectDrag(preview DragPreview) {
	box, ok := geometry.NormalizeBox(preview.Start, preview.Current)
	if !ok {
		// A plain click: select the topmost object under the point.
		if id, hit := s.tools.TopObjectIDAt(preview.Current); hit {
			s.setSingleSelection(id)
		} else {
			s.ClearSelection()
		}
		return
	}
	if id, hit := s.tools.TopObjectIDInDragBox(box); hit {
		s.setSingleSelection(id)
	} else {
		s.ClearSelection()
	}
}

// endCropDrag commits a crop drag into the pending-crop slot via a
// throwaway probe collection; crops never enter the permanent object
// list and never record undo snapshots.
func (s *Session) endCropDrag(preview DragPreview, p geometry.Point) {
	probe := annotation.NewEditorTools(annotation.WithCropPreset(s.tools.CropOptions().Preset))
	id, err := probe.AddCropInBounds(preview.Start, p, s.img.Width, s.img.Height)
	if err != nil {
		s.setStatus("crop failed: %v", err)
		return
	}
	obj, _ := probe.ObjectByID(id)
	crop := obj.(*annotation.CropElement).Clone().(*annotation.CropElement)
	s.pendingCrop = crop
	s.setStatus("crop pending; apply on save or copy")
}

// TextClick implements the text tool's click protocol. A single click
// on empty canvas creates and focuses a new text box; a single click
// on an existing box arms the tool without editing; a double click
// enters editing; any click while editing commits the edit first.
func (s *Session) TextClick(p geometry.Point, double bool) {
	p = geometry.ClampPoint(p, s.img)

	if _, editing := s.tools.ActiveTextID(); editing {
		s.tools.FinishTextBox()
		s.inputMode.EndTextInput()
		s.setStatus("text committed")
		return
	}

	id, onText := s.tools.TopTextIDAt(p)
	if double {
		if !onText {
			return
		}
		if err := s.tools.FocusTextBox(id); err != nil {
			log.Printf("editor: text focus: %v", err)
			return
		}
		s.setSingleSelection(id)
		s.inputMode.StartTextInput()
		s.setStatus("editing text")
		return
	}
	if onText {
		s.setSingleSelection(id)
		s.inputMode.EndTextInput()
		s.setStatus("text selected")
		return
	}

	s.RecordSnapshot()
	newID := s.tools.AddTextBox(p)
	s.setSingleSelection(newID)
	s.inputMode.StartTextInput()
	s.unsaved = true
	s.setStatus("text box added")
}
