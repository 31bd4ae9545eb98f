package editor

import "testing"

func TestLayoutWideWindow(t *testing.T) {
	f := NewFrame()
	l := f.Layout(1280, 800)
	if l.Toolbar.Width != 68 {
		t.Fatalf("toolbar width = %d, want 68", l.Toolbar.Width)
	}
	if l.Options.Width != 320 {
		t.Fatalf("options width = %d, want 320", l.Options.Width)
	}
	if l.Canvas.Width != 1280-68-320 {
		t.Fatalf("canvas width = %d, want %d", l.Canvas.Width, 1280-68-320)
	}
	if l.Canvas.X != 68 || l.Options.X != 68+l.Canvas.Width {
		t.Fatalf("pane x offsets wrong: canvas %d options %d", l.Canvas.X, l.Options.X)
	}
}

func TestLayoutShrinksOptionsBeforeCanvas(t *testing.T) {
	f := NewFrame()
	// 600 wide: 68 toolbar leaves 532; canvas keeps its 320 minimum
	// and the options panel gets the 212 remainder.
	l := f.Layout(600, 400)
	if l.Canvas.Width != 320 {
		t.Fatalf("canvas width = %d, want 320", l.Canvas.Width)
	}
	if l.Options.Width != 212 {
		t.Fatalf("options width = %d, want 212", l.Options.Width)
	}

	// Narrower still: the options panel collapses entirely.
	l = f.Layout(380, 400)
	if l.Options.Width != 0 {
		t.Fatalf("options width = %d, want 0", l.Options.Width)
	}
	if l.Canvas.Width != 380-68 {
		t.Fatalf("canvas width = %d, want %d", l.Canvas.Width, 380-68)
	}
}

func TestToggleOptionsPanel(t *testing.T) {
	f := NewFrame()
	f.ToggleOptionsPanel()
	if got := f.Layout(1280, 800).Options.Width; got != 0 {
		t.Fatalf("collapsed options width = %d, want 0", got)
	}
	f.ToggleOptionsPanel()
	if got := f.Layout(1280, 800).Options.Width; got != 320 {
		t.Fatalf("expanded options width = %d, want 320", got)
	}
	f.ToggleOptionsPanel()
	f.OpenSession()
	if f.OptionsPanelState() != OptionsPanelExpanded {
		t.Fatalf("new session should expand the options panel")
	}
}

func TestInputModeMutualExclusion(t *testing.T) {
	var m InputMode
	m.ActivateCrop()
	m.StartTextInput()
	if m.CropActive() {
		t.Fatalf("text input must exit crop mode")
	}
	if !m.TextInputActive() {
		t.Fatalf("text input should be active")
	}
	m.ActivateCrop()
	if m.TextInputActive() {
		t.Fatalf("crop must exit text input mode")
	}
	m.Reset()
	if m.CropActive() || m.TextInputActive() {
		t.Fatalf("reset should clear both modes")
	}
}
