// Package input resolves normalized key presses into semantic editor
// actions. It is pure lookup: the caller owns the interaction context
// and performs the resolved action's side effects.
package input

// ShortcutKey is a normalized key press. Printable keys carry their
// lowercased rune in Char; the named keys cover the rest.
type ShortcutKey struct {
	Kind KeyKind
	Char rune
}

type KeyKind int

const (
	KeyCharacter KeyKind = iota
	KeyEnter
	KeyEscape
	KeyDelete
	KeyBackspace
)

// Character builds a printable-key ShortcutKey.
func Character(r rune) ShortcutKey {
	return ShortcutKey{Kind: KeyCharacter, Char: r}
}

// Modifiers is the modifier state at key press time.
type Modifiers struct {
	Ctrl  bool
	Shift bool
}

// Context describes which interaction surfaces are active. Surfaces
// are checked in priority order: dialog, text input, crop, editor,
// preview.
type Context struct {
	DialogOpen       bool
	TextInputActive  bool
	CropActive       bool
	EditorSelectMode bool
	InEditor         bool
	InPreview        bool
}

// Action is the semantic result of a resolved shortcut.
type Action int

const (
	ActionNone Action = iota
	DialogConfirm
	DialogCancel
	TextInsertLineBreak
	TextCommit
	TextCopySelection
	TextExitFocus
	CropApply
	CropCancel
	EditorUndo
	EditorRedo
	EditorDeleteSelection
	EditorSave
	EditorCopyImage
	EditorEnterSelect
	EditorEnterPan
	EditorEnterBlur
	EditorEnterPen
	EditorEnterArrow
	EditorEnterRectangle
	EditorEnterCrop
	EditorEnterText
	EditorToggleToolOptions
	EditorCloseRequested
	PreviewSave
	PreviewCopy
	PreviewEdit
	PreviewDelete
	PreviewClose
)

// Resolve maps a key press to an action for the given context, or
// ActionNone when the press means nothing there. The highest-priority
// active surface claims the key outright; it never falls through to a
// lower surface.
func Resolve(key ShortcutKey, mods Modifiers, ctx Context) Action {
	switch {
	case ctx.DialogOpen:
		return resolveDialog(key)
	case ctx.TextInputActive:
		return resolveText(key, mods)
	case ctx.CropActive:
		return resolveCrop(key)
	case ctx.InEditor:
		return resolveEditor(key, mods, ctx)
	case ctx.InPreview:
		return resolvePreview(key, mods)
	}
	return ActionNone
}

func resolveDialog(key ShortcutKey) Action {
	switch key.Kind {
	case KeyEnter:
		return DialogConfirm
	case KeyEscape:
		return DialogCancel
	}
	return ActionNone
}

func resolveText(key ShortcutKey, mods Modifiers) Action {
	switch {
	case key.Kind == KeyEnter && mods.Ctrl:
		return TextCommit
	case key.Kind == KeyEnter:
		return TextInsertLineBreak
	case key.Kind == KeyCharacter && key.Char == 'c' && mods.Ctrl:
		return TextCopySelection
	case key.Kind == KeyEscape:
		return TextExitFocus
	}
	return ActionNone
}

func resolveCrop(key ShortcutKey) Action {
	switch key.Kind {
	case KeyEnter:
		return CropApply
	case KeyEscape:
		return CropCancel
	}
	return ActionNone
}

func resolveEditor(key ShortcutKey, mods Modifiers, ctx Context) Action {
	if key.Kind == KeyCharacter && mods.Ctrl {
		switch key.Char {
		case 'z':
			if mods.Shift {
				return EditorRedo
			}
			return EditorUndo
		case 's':
			return EditorSave
		case 'c':
			return EditorCopyImage
		}
		return ActionNone
	}
	if mods.Ctrl || mods.Shift {
		if key.Kind == KeyEscape {
			return EditorCloseRequested
		}
		return ActionNone
	}
	switch key.Kind {
	case KeyDelete, KeyBackspace:
		return EditorDeleteSelection
	case KeyEscape:
		// Escape first retreats to the select tool; a second press
		// from there asks to close.
		if ctx.EditorSelectMode {
			return EditorCloseRequested
		}
		return EditorEnterSelect
	case KeyCharacter:
		return editorToolFor(key.Char)
	}
	return ActionNone
}

func editorToolFor(char rune) Action {
	switch char {
	case 'v':
		return EditorEnterSelect
	case 'h':
		return EditorEnterPan
	case 'b':
		return EditorEnterBlur
	case 'p':
		return EditorEnterPen
	case 'a':
		return EditorEnterArrow
	case 'r':
		return EditorEnterRectangle
	case 'c':
		return EditorEnterCrop
	case 't':
		return EditorEnterText
	case 'o':
		return EditorToggleToolOptions
	}
	return ActionNone
}

func resolvePreview(key ShortcutKey, mods Modifiers) Action {
	if mods.Ctrl || mods.Shift {
		return ActionNone
	}
	switch key.Kind {
	case KeyDelete:
		return PreviewDelete
	case KeyEscape:
		return PreviewClose
	case KeyCharacter:
		switch key.Char {
		case 's':
			return PreviewSave
		case 'c':
			return PreviewCopy
		case 'e':
			return PreviewEdit
		}
	}
	return ActionNone
}
