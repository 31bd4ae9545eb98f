package app

import (
	"image"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geometry"
	"github.com/example/snapmark/internal/input"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	base := image.NewRGBA(image.Rect(0, 0, 400, 300))
	a, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestShortcutFromKey(t *testing.T) {
	tests := []struct {
		name string
		ev   key.Event
		want input.ShortcutKey
		mods input.Modifiers
	}{
		{"enter", key.Event{Code: key.CodeReturnEnter}, input.ShortcutKey{Kind: input.KeyEnter}, input.Modifiers{}},
		{"escape", key.Event{Code: key.CodeEscape}, input.ShortcutKey{Kind: input.KeyEscape}, input.Modifiers{}},
		{"delete", key.Event{Code: key.CodeDeleteForward}, input.ShortcutKey{Kind: input.KeyDelete}, input.Modifiers{}},
		{"backspace", key.Event{Code: key.CodeDeleteBackspace}, input.ShortcutKey{Kind: input.KeyBackspace}, input.Modifiers{}},
		{
			"ctrl shift Z folds case",
			key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift},
			input.Character('z'),
			input.Modifiers{Ctrl: true, Shift: true},
		},
	}
	for _, tt := range tests {
		sk, mods, ok := shortcutFromKey(tt.ev)
		if !ok {
			t.Errorf("%s: not translated", tt.name)
			continue
		}
		if sk != tt.want || mods != tt.mods {
			t.Errorf("%s: got (%+v, %+v), want (%+v, %+v)", tt.name, sk, mods, tt.want, tt.mods)
		}
	}
	if _, _, ok := shortcutFromKey(key.Event{Code: key.CodeF1}); ok {
		t.Errorf("untranslatable key should report ok=false")
	}
}

func TestScreenToImage(t *testing.T) {
	a := newTestApp(t)
	winW := 400 + frameChromeWidth()
	winH := 300 + statusBarHeight

	p, ok := a.screenToImage(image.Pt(78, 20), winW, winH)
	if !ok {
		t.Fatalf("point inside canvas should map")
	}
	if want := (geometry.Point{X: 10, Y: 20}); p != want {
		t.Fatalf("mapped = %+v, want %+v", p, want)
	}

	if _, ok := a.screenToImage(image.Pt(10, 20), winW, winH); ok {
		t.Fatalf("toolbar point should not map to the canvas")
	}

	vp := a.session.Viewport()
	vp.SetZoomPercent(200)
	vp.PanBy(30, 40)
	p, ok = a.screenToImage(image.Pt(68+30+40, 40+60), winW, winH)
	if !ok {
		t.Fatalf("zoomed point should map")
	}
	if want := (geometry.Point{X: 20, Y: 30}); p != want {
		t.Fatalf("zoomed mapped = %+v, want %+v", p, want)
	}
}

func TestApplySwitchesTools(t *testing.T) {
	a := newTestApp(t)
	if quit := a.apply(input.EditorEnterPen); quit {
		t.Fatalf("tool switch should not quit")
	}
	if got := a.session.Tools().ActiveTool(); got != annotation.ToolPen {
		t.Fatalf("tool = %v, want pen", got)
	}
	if !a.apply(input.EditorCloseRequested) {
		t.Fatalf("close request should quit")
	}
}

func TestHandleKeyRoutesTextInput(t *testing.T) {
	a := newTestApp(t)
	a.session.SwitchTool(annotation.ToolText, false)
	a.session.TextClick(geometry.Point{X: 50, Y: 50}, false)
	if !a.session.InputMode().TextInputActive() {
		t.Fatalf("expected text input after click")
	}

	for _, r := range "hi" {
		a.handleKey(key.Event{Rune: r, Direction: key.DirPress})
	}
	tb, ok := a.session.Tools().ActiveTextBox()
	if !ok {
		t.Fatalf("expected active text box")
	}
	if tb.Content() != "hi" {
		t.Fatalf("content = %q, want %q", tb.Content(), "hi")
	}

	// Ctrl+Enter commits and drops focus.
	if quit := a.handleKey(key.Event{Code: key.CodeReturnEnter, Modifiers: key.ModControl, Direction: key.DirPress}); quit {
		t.Fatalf("commit should not quit")
	}
	if a.session.InputMode().TextInputActive() {
		t.Fatalf("text input should end on commit")
	}
}

func TestHandleKeyUndoShortcut(t *testing.T) {
	a := newTestApp(t)
	s := a.session
	s.SwitchTool(annotation.ToolRectangle, false)
	s.BeginDrag(geometry.Point{X: 10, Y: 10})
	s.UpdateDrag(geometry.Point{X: 80, Y: 60})
	s.EndDrag(geometry.Point{X: 80, Y: 60})
	if len(s.Tools().Objects()) != 1 {
		t.Fatalf("expected one object before undo")
	}

	a.handleKey(key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress})
	if len(s.Tools().Objects()) != 0 {
		t.Fatalf("undo shortcut should remove the rectangle")
	}
}
