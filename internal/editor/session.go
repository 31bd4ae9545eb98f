// Package editor ties the annotation model, undo history, viewport,
// and selection together into one per-capture session, and translates
// pointer gestures into model mutations.
package editor

import (
	"fmt"
	"log"
	"strings"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geometry"
	"github.com/example/snapmark/internal/history"
)

// Session is the mutable editing state for one opened capture. It is
// created when the editor opens and discarded when the session closes;
// nothing about an in-progress edit persists across sessions.
type Session struct {
	tools     *annotation.EditorTools
	stacks    *history.Stacks
	viewport  Viewport
	frame     *Frame
	inputMode InputMode
	img       geometry.ImageBounds

	selection []uint64

	// pendingCrop is the committed-but-unapplied crop. It lives
	// outside the object list and outside undo snapshots; any
	// undo/redo drops it.
	pendingCrop *annotation.CropElement

	drag    *dragState
	preview *DragPreview

	unsaved bool
	status  string

	// OnOcrRegion, when set, receives the region of a finished OCR
	// drag. The shell owns the recognition worker.
	OnOcrRegion func(geometry.Bounds)
}

// Option configures a new Session.
type Option func(*Session)

// WithToolOptions seeds the per-kind tool defaults, typically from the
// loaded config.
func WithToolOptions(opts ...annotation.Option) Option {
	return func(s *Session) {
		s.tools = annotation.NewEditorTools(opts...)
	}
}

// NewSession creates a session for a capture of the given pixel size.
func NewSession(img geometry.ImageBounds, opts ...Option) *Session {
	s := &Session{
		tools:    annotation.NewEditorTools(),
		stacks:   history.New(),
		viewport: NewViewport(),
		frame:    NewFrame(),
		img:      img,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Tools() *annotation.EditorTools { return s.tools }
func (s *Session) Viewport() *Viewport            { return &s.viewport }
func (s *Session) Frame() *Frame                  { return s.frame }
func (s *Session) InputMode() *InputMode          { return &s.inputMode }
func (s *Session) ImageBounds() geometry.ImageBounds {
	return s.img
}

// Status returns the most recent one-line status message.
func (s *Session) Status() string { return s.status }

func (s *Session) setStatus(format string, args ...any) {
	s.status = fmt.Sprintf(format, args...)
}

// Unsaved reports whether edits exist since the last save.
func (s *Session) Unsaved() bool { return s.unsaved }

// MarkSaved clears the unsaved flag after a successful save.
func (s *Session) MarkSaved() { s.unsaved = false }

// Selection returns the selected object ids.
func (s *Session) Selection() []uint64 { return s.selection }

// IsSelected reports whether an id is in the selection.
func (s *Session) IsSelected(id uint64) bool {
	for _, sel := range s.selection {
		if sel == id {
			return true
		}
	}
	return false
}

func (s *Session) setSingleSelection(id uint64) {
	s.selection = []uint64{id}
}

// ClearSelection empties the selection. Selection changes never record
// undo snapshots.
func (s *Session) ClearSelection() {
	s.selection = nil
}

// pruneSelection drops ids that no longer resolve to live objects.
func (s *Session) pruneSelection() {
	kept := s.selection[:0]
	for _, id := range s.selection {
		if _, ok := s.tools.ObjectByID(id); ok {
			kept = append(kept, id)
		}
	}
	s.selection = kept
}

// PendingCrop returns the crop awaiting output finalization.
func (s *Session) PendingCrop() (*annotation.CropElement, bool) {
	return s.pendingCrop, s.pendingCrop != nil
}

// ApplyPendingCrop commits the crop-in-progress as a crop object.
func (s *Session) ApplyPendingCrop() {
	pc := s.pendingCrop
	if pc == nil {
		return
	}
	s.RecordSnapshot()
	start := geometry.Point{X: pc.Bounds.X, Y: pc.Bounds.Y}
	end := geometry.Point{X: pc.Bounds.X + pc.Bounds.Width, Y: pc.Bounds.Y + pc.Bounds.Height}
	if _, err := s.tools.AddCropInBounds(start, end, s.img.Width, s.img.Height); err != nil {
		s.stacks.DropLastSnapshot()
		s.setStatus("crop failed: %v", err)
		return
	}
	s.pendingCrop = nil
	s.unsaved = true
	s.setStatus("crop applied")
}

// CancelPendingCrop discards the crop-in-progress.
func (s *Session) CancelPendingCrop() {
	if s.pendingCrop != nil {
		s.pendingCrop = nil
		s.setStatus("crop cancelled")
	}
}

// SwitchTool applies the tool-switch contract: set the tool, cancel
// any drag in progress, optionally discard the pending crop when
// leaving Crop, and derive the crop/text input modes.
func (s *Session) SwitchTool(tool annotation.Tool, clearPendingCrop bool) {
	s.switchTool(tool, clearPendingCrop, tool == annotation.ToolText)
}

// SwitchToolTextOff is SwitchTool with text input forced off, used
// after finishing a text edit leaves the Text tool armed.
func (s *Session) SwitchToolTextOff(tool annotation.Tool, clearPendingCrop bool) {
	s.switchTool(tool, clearPendingCrop, false)
}

func (s *Session) switchTool(tool annotation.Tool, clearPendingCrop, textInputOn bool) {
	previous := s.tools.ActiveTool()
	s.tools.SetActiveTool(tool)
	s.drag = nil
	s.preview = nil

	if previous == annotation.ToolCrop && tool != annotation.ToolCrop && clearPendingCrop {
		s.pendingCrop = nil
	}
	if tool == annotation.ToolCrop {
		s.inputMode.ActivateCrop()
	} else {
		s.inputMode.DeactivateCrop()
	}
	if textInputOn {
		s.inputMode.StartTextInput()
	} else {
		s.inputMode.EndTextInput()
	}
	if tool != annotation.ToolText {
		s.tools.FinishTextBox()
	}
	s.setStatus("tool %s", tool)
}

// RecordSnapshot pushes the current object list onto the undo stack
// and clears redo.
func (s *Session) RecordSnapshot() {
	s.stacks.Record(s.tools.Snapshot())
}

// Undo restores the previous snapshot. The pending crop is not part of
// snapshots and is always dropped; this is a known limitation, not an
// oversight.
func (s *Session) Undo() string {
	restored, status, ok := s.stacks.Undo(s.tools.Snapshot())
	if ok {
		s.tools.ReplaceObjects(restored)
		s.pruneSelection()
		s.pendingCrop = nil
		s.unsaved = true
	}
	s.setStatus("%s", status)
	return status
}

// Redo is the mirror of Undo.
func (s *Session) Redo() string {
	restored, status, ok := s.stacks.Redo(s.tools.Snapshot())
	if ok {
		s.tools.ReplaceObjects(restored)
		s.pruneSelection()
		s.pendingCrop = nil
		s.unsaved = true
	}
	s.setStatus("%s", status)
	return status
}

// UndoDepth exposes the undo stack depth for the shell UI.
func (s *Session) UndoDepth() int { return s.stacks.UndoDepth() }

// RedoDepth exposes the redo stack depth for the shell UI.
func (s *Session) RedoDepth() int { return s.stacks.RedoDepth() }

// DeleteSelection removes every selected object as one undoable edit.
func (s *Session) DeleteSelection() {
	if len(s.selection) == 0 {
		s.setStatus("nothing selected")
		return
	}
	s.RecordSnapshot()
	removed := 0
	for _, id := range s.selection {
		if _, ok := s.tools.RemoveObject(id); ok {
			removed++
		}
	}
	s.selection = nil
	s.unsaved = true
	s.setStatus("deleted %d object(s)", removed)
}

// UpdateTextPreedit forwards an input-method composition update to
// the focused text box. Display-only state, so no undo snapshot is
// recorded.
func (s *Session) UpdateTextPreedit(content string, cursorBytes int) bool {
	return s.tools.UpdateTextPreedit(content, cursorBytes)
}

// InsertRecognizedText places OCR output as a new, focused text box at
// the scanned region's origin.
func (s *Session) InsertRecognizedText(region geometry.Bounds, text string) {
	if strings.TrimSpace(text) == "" {
		s.setStatus("no text recognized")
		return
	}
	s.RecordSnapshot()
	tool := s.tools.ActiveTool()
	id := s.tools.AddTextBox(geometry.ClampPoint(geometry.Point{X: region.X, Y: region.Y}, s.img))
	if box, ok := s.tools.ActiveTextBox(); ok {
		box.InsertString(text)
	}
	s.tools.FinishTextBox()
	s.tools.SetActiveTool(tool)
	s.setSingleSelection(id)
	s.unsaved = true
	s.setStatus("recognized text inserted")
	log.Printf("ocr: inserted %d bytes as text object %d", len(text), id)
}
