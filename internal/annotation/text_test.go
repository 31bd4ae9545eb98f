package annotation

import (
	"testing"

	"github.com/example/snapmark/internal/geometry"
)

func focusedText(t *testing.T, tools *EditorTools) *TextElement {
	t.Helper()
	text, ok := tools.ActiveTextBox()
	if !ok {
		t.Fatal("no text box in edit focus")
	}
	return text
}

func TestTextInputInsertsAtCursor(t *testing.T) {
	tools := NewEditorTools()
	tools.AddTextBox(geometry.Point{X: 24, Y: 24})
	for _, r := range "hello" {
		tools.ApplyTextInput(TextInputEvent{Kind: TextInputCharacter, Char: r})
	}
	tools.ApplyTextInput(TextInputEvent{Kind: TextInputCursorLeft})
	tools.ApplyTextInput(TextInputEvent{Kind: TextInputCursorLeft})
	tools.ApplyTextInput(TextInputEvent{Kind: TextInputCharacter, Char: 'X'})

	if got := focusedText(t, tools).Content(); got != "helXlo" {
		t.Fatalf("content = %q, want %q", got, "helXlo")
	}
}

func TestTextInputCursorCountsRunesNotBytes(t *testing.T) {
	tools := NewEditorTools()
	tools.AddTextBox(geometry.Point{X: 0, Y: 0})
	for _, r := range "가나다" {
		tools.ApplyTextInput(TextInputEvent{Kind: TextInputCharacter, Char: r})
	}
	tools.ApplyTextInput(TextInputEvent{Kind: TextInputCursorLeft})
	tools.ApplyTextInput(TextInputEvent{Kind: TextInputBackspace})

	text := focusedText(t, tools)
	if got := text.Content(); got != "가다" {
		t.Fatalf("content = %q, want %q", got, "가다")
	}
	if got := text.CursorChars(); got != 1 {
		t.Fatalf("cursor = %d, want 1", got)
	}
}

func TestTextCursorVerticalMovementKeepsColumn(t *testing.T) {
	tools := NewEditorTools()
	tools.AddTextBox(geometry.Point{X: 0, Y: 0})
	text := focusedText(t, tools)
	text.InsertString("alpha\nlong second line\nhi")

	// Cursor ends on "hi" at column 2; moving up lands on column 2 of
	// the longer middle line.
	if !text.MoveCursorUp() {
		t.Fatal("MoveCursorUp failed on the last line")
	}
	line, column := text.cursorLineColumn()
	if line != 1 || column != 2 {
		t.Fatalf("after up: line %d col %d, want line 1 col 2", line, column)
	}

	// From the end of the long middle line, moving up clamps the
	// column to "alpha"'s length.
	text.MoveCursorToEnd()
	text.MoveCursorUp() // line 1, column 2 (length of "hi")
	for text.MoveCursorRight() {
		if l, _ := text.cursorLineColumn(); l != 1 {
			text.MoveCursorLeft()
			break
		}
	}
	if line, column = text.cursorLineColumn(); line != 1 || column != 16 {
		t.Fatalf("cursor at line %d col %d, want end of line 1 (col 16)", line, column)
	}
	text.MoveCursorUp()
	if line, column = text.cursorLineColumn(); line != 0 || column != 5 {
		t.Fatalf("column not clamped: line %d col %d, want line 0 col 5", line, column)
	}
}

func TestTextInputCommitAndEscapeClearFocus(t *testing.T) {
	tools := NewEditorTools()
	tools.AddTextBox(geometry.Point{X: 0, Y: 0})
	if got := tools.ApplyTextInput(TextInputEvent{Kind: TextInputCommit}); got != TextCommitted {
		t.Fatalf("commit action = %v, want TextCommitted", got)
	}
	if _, ok := tools.ActiveTextID(); ok {
		t.Fatal("commit left edit focus set")
	}
	if got := tools.ApplyTextInput(TextInputEvent{Kind: TextInputCharacter, Char: 'a'}); got != TextNoTarget {
		t.Fatalf("action without focus = %v, want TextNoTarget", got)
	}
}

func TestFocusTextBoxMovesCursorToEnd(t *testing.T) {
	tools := NewEditorTools()
	id := tools.AddTextBox(geometry.Point{X: 0, Y: 0})
	text := focusedText(t, tools)
	text.InsertString("note")
	text.MoveCursorLeft()
	tools.FinishTextBox()

	if err := tools.FocusTextBox(id); err != nil {
		t.Fatalf("FocusTextBox: %v", err)
	}
	if got := focusedText(t, tools).CursorChars(); got != 4 {
		t.Fatalf("cursor after focus = %d, want 4", got)
	}
}

func TestFocusTextBoxRejectsNonText(t *testing.T) {
	tools := NewEditorTools()
	id, _ := tools.AddRectangle(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 10})
	if err := tools.FocusTextBox(id); err == nil {
		t.Fatal("FocusTextBox accepted a rectangle id")
	}
}

func TestTextLinesAndLayoutMetrics(t *testing.T) {
	tools := NewEditorTools()
	tools.AddTextBox(geometry.Point{X: 10, Y: 20})
	text := focusedText(t, tools)

	if got := text.Lines(); len(got) != 1 || got[0] != "" {
		t.Fatalf("empty content lines = %v, want one empty line", got)
	}

	text.InsertString("one\ntwo")
	if got := text.Lines(); len(got) != 2 {
		t.Fatalf("lines = %v, want 2 entries", got)
	}
	if got := text.BaselineY(); got != 36 {
		t.Fatalf("baseline = %v, want 36 (y + size)", got)
	}
	if got := text.LineHeight(); got != float64(text.Options.Size)*1.3 {
		t.Fatalf("line height = %v, want size*1.3", got)
	}

	width, height := text.Dimensions(nil)
	if width < 8 || height < int(text.Options.Size) {
		t.Fatalf("dimensions = %dx%d below minimums", width, height)
	}
}

func TestPreeditCursorCharsHandlesMultibyte(t *testing.T) {
	if got := PreeditCursorChars("가나다abc", 6); got != 2 {
		t.Fatalf("cursor chars = %d, want 2", got)
	}
	if got := PreeditCursorChars("abc", -1); got != 0 {
		t.Fatalf("negative byte index gave %d, want 0", got)
	}
	if got := PreeditCursorChars("abc", 99); got != 3 {
		t.Fatalf("past-end byte index gave %d, want 3", got)
	}
}

func TestContentWithPreeditSplicesAtCursor(t *testing.T) {
	tools := NewEditorTools()
	tools.AddTextBox(geometry.Point{X: 0, Y: 0})
	text := focusedText(t, tools)
	text.InsertString("hello")
	text.MoveCursorLeft()
	text.MoveCursorLeft()

	got := text.ContentWithPreedit(TextPreedit{Content: "가나", CursorChars: 1})
	if got != "hel가나lo" {
		t.Fatalf("display content = %q, want %q", got, "hel가나lo")
	}
	if text.Content() != "hello" {
		t.Fatalf("committed content = %q, must stay %q", text.Content(), "hello")
	}
}

func TestUpdateTextPreeditLifecycle(t *testing.T) {
	tools := NewEditorTools()
	if tools.UpdateTextPreedit("か", 3) {
		t.Fatal("preedit accepted with no focused text box")
	}

	tools.AddTextBox(geometry.Point{X: 0, Y: 0})
	if !tools.UpdateTextPreedit("가나다", 6) {
		t.Fatal("preedit rejected with a focused text box")
	}
	pe, ok := tools.TextPreedit()
	if !ok {
		t.Fatal("no active preedit after update")
	}
	if pe.Content != "가나다" || pe.CursorChars != 2 {
		t.Fatalf("preedit = %+v, want content 가나다 cursor 2", pe)
	}

	if !tools.UpdateTextPreedit("", 0) {
		t.Fatal("empty update rejected with a focused text box")
	}
	if _, ok := tools.TextPreedit(); ok {
		t.Fatal("empty update should withdraw the preedit")
	}

	tools.UpdateTextPreedit("x", 1)
	tools.FinishTextBox()
	if _, ok := tools.TextPreedit(); ok {
		t.Fatal("finishing the text box must drop the preedit")
	}
}
