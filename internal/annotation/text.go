package annotation

import (
	"strings"

	"github.com/example/snapmark/internal/geometry"
)

// TextElement is a multi-line text box. The cursor is tracked in
// Unicode scalar values, never bytes, so multi-byte edits stay correct.
type TextElement struct {
	id      uint64
	Pos     geometry.Point
	content string
	cursor  int // rune offset into content
	Options TextOptions
}

func (t *TextElement) ID() uint64 { return t.id }

func (t *TextElement) Clone() Object {
	out := *t
	return &out
}

func (*TextElement) annotationObject() {}

// Content returns the committed text.
func (t *TextElement) Content() string { return t.content }

// CursorChars returns the cursor position as a rune offset.
func (t *TextElement) CursorChars() int { return t.cursor }

func (t *TextElement) runes() []rune { return []rune(t.content) }

// InsertRune inserts one character at the cursor and advances it.
func (t *TextElement) InsertRune(r rune) {
	runes := t.runes()
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:t.cursor]...)
	out = append(out, r)
	out = append(out, runes[t.cursor:]...)
	t.content = string(out)
	t.cursor++
}

// InsertString inserts text at the cursor, advancing past it.
func (t *TextElement) InsertString(s string) {
	if s == "" {
		return
	}
	runes := t.runes()
	ins := []rune(s)
	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:t.cursor]...)
	out = append(out, ins...)
	out = append(out, runes[t.cursor:]...)
	t.content = string(out)
	t.cursor += len(ins)
}

// InsertNewline starts a new line at the cursor.
func (t *TextElement) InsertNewline() {
	t.InsertRune('\n')
}

// DeleteBackward removes the character before the cursor. It reports
// whether anything was deleted.
func (t *TextElement) DeleteBackward() bool {
	if t.cursor == 0 {
		return false
	}
	runes := t.runes()
	out := append(runes[:t.cursor-1:t.cursor-1], runes[t.cursor:]...)
	t.content = string(out)
	t.cursor--
	return true
}

// MoveCursorLeft moves the cursor back one character.
func (t *TextElement) MoveCursorLeft() bool {
	if t.cursor == 0 {
		return false
	}
	t.cursor--
	return true
}

// MoveCursorRight moves the cursor forward one character.
func (t *TextElement) MoveCursorRight() bool {
	if t.cursor >= len(t.runes()) {
		return false
	}
	t.cursor++
	return true
}

// MoveCursorToEnd places the cursor after the last character.
func (t *TextElement) MoveCursorToEnd() {
	t.cursor = len(t.runes())
}

// lineSpans returns (start, end) rune offsets of every line, where end
// excludes the trailing newline.
func (t *TextElement) lineSpans() [][2]int {
	runes := t.runes()
	spans := [][2]int{}
	start := 0
	for i, r := range runes {
		if r == '\n' {
			spans = append(spans, [2]int{start, i})
			start = i + 1
		}
	}
	spans = append(spans, [2]int{start, len(runes)})
	return spans
}

func (t *TextElement) cursorLineColumn() (line, column int) {
	for i, span := range t.lineSpans() {
		if t.cursor >= span[0] && t.cursor <= span[1] {
			return i, t.cursor - span[0]
		}
	}
	return 0, t.cursor
}

// MoveCursorUp moves to the previous line, keeping the column when the
// line is long enough.
func (t *TextElement) MoveCursorUp() bool {
	line, column := t.cursorLineColumn()
	if line == 0 {
		return false
	}
	spans := t.lineSpans()
	target := spans[line-1]
	length := target[1] - target[0]
	if column > length {
		column = length
	}
	t.cursor = target[0] + column
	return true
}

// MoveCursorDown moves to the next line, keeping the column when the
// line is long enough.
func (t *TextElement) MoveCursorDown() bool {
	line, column := t.cursorLineColumn()
	spans := t.lineSpans()
	if line >= len(spans)-1 {
		return false
	}
	target := spans[line+1]
	length := target[1] - target[0]
	if column > length {
		column = length
	}
	t.cursor = target[0] + column
	return true
}

// Lines splits the content for rendering; empty content still renders
// one empty line.
func (t *TextElement) Lines() []string {
	if t.content == "" {
		return []string{""}
	}
	return strings.Split(t.content, "\n")
}

// LineHeight is the vertical advance between baselines.
func (t *TextElement) LineHeight() float64 {
	h := float64(t.Options.Size) * 1.3
	if h < 2 {
		h = 2
	}
	return h
}

// BaselineY is the first line's baseline in image space.
func (t *TextElement) BaselineY() float64 {
	return float64(t.Pos.Y) + float64(t.Options.Size)
}

// Dimensions estimates the rendered box size. When measure is non-nil
// it returns a line's pixel advance; otherwise a per-character
// approximation is used.
func (t *TextElement) Dimensions(measure func(string) float64) (width, height int) {
	size := int(t.Options.Size)
	if size < 1 {
		size = 1
	}
	lines := t.Lines()
	maxWidth := 0.0
	for _, line := range lines {
		var w float64
		if measure != nil {
			w = measure(line)
		} else {
			w = float64(len([]rune(line))) * float64(size) * 0.62
		}
		if w > maxWidth {
			maxWidth = w
		}
	}
	width = int(maxWidth)
	if width < 8 {
		width = 8
	}
	height = int(float64(len(lines)) * t.LineHeight())
	if height < size {
		height = size
	}
	return width, height
}

// TextPreedit is an in-progress input-method composition shown
// spliced into the focused text box at the cursor. It never joins the
// committed content; the input method either commits it as ordinary
// character input or withdraws it.
type TextPreedit struct {
	Content     string
	CursorChars int // rune offset into Content
}

// PreeditCursorChars converts an input method's byte cursor index
// into a rune offset, keeping the caret correct inside multi-byte
// compositions.
func PreeditCursorChars(preedit string, cursorBytes int) int {
	if cursorBytes <= 0 {
		return 0
	}
	count := 0
	for i := range preedit {
		if i >= cursorBytes {
			break
		}
		count++
	}
	return count
}

// ContentWithPreedit returns the display content with the composition
// spliced in at the cursor. The committed content is untouched.
func (t *TextElement) ContentWithPreedit(p TextPreedit) string {
	if p.Content == "" {
		return t.content
	}
	runes := t.runes()
	cursor := t.cursor
	if cursor > len(runes) {
		cursor = len(runes)
	}
	return string(runes[:cursor]) + p.Content + string(runes[cursor:])
}

// TextInputEventKind discriminates discrete text edit events.
type TextInputEventKind int

const (
	TextInputCharacter TextInputEventKind = iota
	TextInputBackspace
	TextInputNewline
	TextInputCursorLeft
	TextInputCursorRight
	TextInputCursorUp
	TextInputCursorDown
	TextInputCommit
	TextInputEscape
)

// TextInputEvent is one discrete key event routed at the active text
// box. Char is meaningful only for TextInputCharacter.
type TextInputEvent struct {
	Kind TextInputEventKind
	Char rune
}

// TextInputAction is the outcome of applying a TextInputEvent.
type TextInputAction int

const (
	// TextApplied means the event mutated content or cursor state.
	TextApplied TextInputAction = iota
	// TextCommitted means editing finished and focus should clear.
	TextCommitted
	// TextExitFocus means editing was abandoned without committing.
	TextExitFocus
	// TextNoTarget means no text box is in edit focus.
	TextNoTarget
)

// ApplyTextInput routes an event to the active text box.
func (t *EditorTools) ApplyTextInput(ev TextInputEvent) TextInputAction {
	active, ok := t.ActiveTextBox()
	if !ok {
		return TextNoTarget
	}
	switch ev.Kind {
	case TextInputCharacter:
		active.InsertRune(ev.Char)
	case TextInputBackspace:
		active.DeleteBackward()
	case TextInputNewline:
		active.InsertNewline()
	case TextInputCursorLeft:
		active.MoveCursorLeft()
	case TextInputCursorRight:
		active.MoveCursorRight()
	case TextInputCursorUp:
		active.MoveCursorUp()
	case TextInputCursorDown:
		active.MoveCursorDown()
	case TextInputCommit:
		t.FinishTextBox()
		return TextCommitted
	case TextInputEscape:
		t.FinishTextBox()
		return TextExitFocus
	}
	return TextApplied
}
