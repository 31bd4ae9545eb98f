package app

import (
	"image"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/geometry"
	"github.com/example/snapmark/internal/input"
)

// frameChromeWidth is the horizontal window space outside the canvas
// when the options panel is expanded.
func frameChromeWidth() int {
	layout := editor.NewFrame().Layout(4096, 4096)
	return layout.Toolbar.Width + layout.Options.Width
}

// screenToImage maps a window point into image coordinates, honoring
// the canvas pane, the zoom level and the pan offset. ok is false when
// the point is outside the canvas.
func (a *App) screenToImage(at image.Point, winW, winH int) (geometry.Point, bool) {
	layout := a.session.Frame().Layout(winW, winH-statusBarHeight)
	c := layout.Canvas
	if at.X < c.X || at.Y < c.Y || at.X >= c.X+c.Width || at.Y >= c.Y+c.Height {
		return geometry.Point{}, false
	}
	vp := a.session.Viewport()
	zoom := vp.ZoomPercent()
	x := (at.X - c.X - vp.PanX()) * 100 / zoom
	y := (at.Y - c.Y - vp.PanY()) * 100 / zoom
	return geometry.Point{X: x, Y: y}, true
}

func (a *App) handleWheel(e mouse.Event) {
	vp := a.session.Viewport()
	up := e.Button == mouse.ButtonWheelUp
	switch {
	case e.Modifiers&key.ModControl != 0:
		if up {
			vp.ZoomIn()
		} else {
			vp.ZoomOut()
		}
	case e.Modifiers&key.ModShift != 0:
		if up {
			vp.PanLeft()
		} else {
			vp.PanRight()
		}
	default:
		if up {
			vp.PanUp()
		} else {
			vp.PanDown()
		}
	}
}

// shortcutFromKey translates a shiny key event for the resolver. ok is
// false for keys the resolver has no representation for.
func shortcutFromKey(e key.Event) (input.ShortcutKey, input.Modifiers, bool) {
	mods := input.Modifiers{
		Ctrl:  e.Modifiers&key.ModControl != 0,
		Shift: e.Modifiers&key.ModShift != 0,
	}
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return input.ShortcutKey{Kind: input.KeyEnter}, mods, true
	case key.CodeEscape:
		return input.ShortcutKey{Kind: input.KeyEscape}, mods, true
	case key.CodeDeleteForward:
		return input.ShortcutKey{Kind: input.KeyDelete}, mods, true
	case key.CodeDeleteBackspace:
		return input.ShortcutKey{Kind: input.KeyBackspace}, mods, true
	}
	if e.Rune > 0 {
		return input.Character(unicode.ToLower(e.Rune)), mods, true
	}
	return input.ShortcutKey{}, mods, false
}

// textEditEvent maps keys to discrete text box edits while a text box
// has focus. Cursor keys never reach the resolver, so they are mapped
// here directly.
func textEditEvent(e key.Event) (annotation.TextInputEvent, bool) {
	switch e.Code {
	case key.CodeDeleteBackspace:
		return annotation.TextInputEvent{Kind: annotation.TextInputBackspace}, true
	case key.CodeLeftArrow:
		return annotation.TextInputEvent{Kind: annotation.TextInputCursorLeft}, true
	case key.CodeRightArrow:
		return annotation.TextInputEvent{Kind: annotation.TextInputCursorRight}, true
	case key.CodeUpArrow:
		return annotation.TextInputEvent{Kind: annotation.TextInputCursorUp}, true
	case key.CodeDownArrow:
		return annotation.TextInputEvent{Kind: annotation.TextInputCursorDown}, true
	}
	if e.Rune > 0 && e.Modifiers&key.ModControl == 0 && !unicode.IsControl(e.Rune) {
		return annotation.TextInputEvent{Kind: annotation.TextInputCharacter, Char: e.Rune}, true
	}
	return annotation.TextInputEvent{}, false
}

func (a *App) resolverContext() input.Context {
	im := a.session.InputMode()
	return input.Context{
		TextInputActive:  im.TextInputActive(),
		CropActive:       im.CropActive(),
		EditorSelectMode: a.session.Tools().ActiveTool() == annotation.ToolSelect,
		InEditor:         true,
	}
}

// handleKey reports true when the window should close.
func (a *App) handleKey(e key.Event) bool {
	ctx := a.resolverContext()
	sk, mods, ok := shortcutFromKey(e)
	action := input.ActionNone
	if ok {
		action = input.Resolve(sk, mods, ctx)
	}
	if action == input.ActionNone && ctx.TextInputActive {
		if ev, ok := textEditEvent(e); ok {
			a.session.Tools().ApplyTextInput(ev)
		}
		return false
	}
	return a.apply(action)
}

var toolForAction = map[input.Action]annotation.Tool{
	input.EditorEnterSelect:    annotation.ToolSelect,
	input.EditorEnterPan:       annotation.ToolPan,
	input.EditorEnterBlur:      annotation.ToolBlur,
	input.EditorEnterPen:       annotation.ToolPen,
	input.EditorEnterArrow:     annotation.ToolArrow,
	input.EditorEnterRectangle: annotation.ToolRectangle,
	input.EditorEnterCrop:      annotation.ToolCrop,
	input.EditorEnterText:      annotation.ToolText,
}

// apply executes a resolved action, reporting true when the window
// should close.
func (a *App) apply(action input.Action) bool {
	s := a.session
	tools := s.Tools()
	switch action {
	case input.TextInsertLineBreak:
		tools.ApplyTextInput(annotation.TextInputEvent{Kind: annotation.TextInputNewline})
	case input.TextCommit:
		tools.ApplyTextInput(annotation.TextInputEvent{Kind: annotation.TextInputCommit})
		s.InputMode().EndTextInput()
		a.showMessage("text committed")
	case input.TextCopySelection:
		if tb, ok := tools.ActiveTextBox(); ok {
			if err := clipboard.WriteText(tb.Content()); err != nil {
				a.showMessage("copy text: %v", err)
			} else {
				a.showMessage("text copied")
			}
		}
	case input.TextExitFocus:
		tools.ApplyTextInput(annotation.TextInputEvent{Kind: annotation.TextInputEscape})
		s.InputMode().EndTextInput()
	case input.CropApply:
		s.ApplyPendingCrop()
	case input.CropCancel:
		s.CancelPendingCrop()
	case input.EditorUndo:
		a.showMessage("%s", s.Undo())
	case input.EditorRedo:
		a.showMessage("%s", s.Redo())
	case input.EditorDeleteSelection:
		s.DeleteSelection()
	case input.EditorSave:
		a.save()
	case input.EditorCopyImage:
		a.copyImage()
	case input.EditorToggleToolOptions:
		s.Frame().ToggleOptionsPanel()
	case input.EditorCloseRequested:
		return true
	default:
		if tool, ok := toolForAction[action]; ok {
			s.SwitchTool(tool, tool != annotation.ToolCrop)
		}
	}
	return false
}
