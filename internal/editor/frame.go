package editor

// Pane is one rectangular region of the editor window.
type Pane struct {
	X, Y          int
	Width, Height int
}

// OptionsPanelState tracks whether the tool options panel is shown.
type OptionsPanelState int

const (
	OptionsPanelExpanded OptionsPanelState = iota
	OptionsPanelCollapsed
)

const (
	frameToolbarWidth          = 68
	frameOptionsWidthExpanded  = 320
	frameOptionsWidthCollapsed = 0
	frameMinCanvasWidth        = 320
)

func (s OptionsPanelState) width() int {
	if s == OptionsPanelExpanded {
		return frameOptionsWidthExpanded
	}
	return frameOptionsWidthCollapsed
}

// Layout is the computed pane arrangement: toolbar on the left, canvas
// in the middle, options panel on the right.
type Layout struct {
	Toolbar, Canvas, Options Pane
	OptionsState             OptionsPanelState
}

// Frame models the editor shell layout.
type Frame struct {
	optionsState OptionsPanelState
}

// NewFrame starts with the options panel expanded.
func NewFrame() *Frame {
	return &Frame{optionsState: OptionsPanelExpanded}
}

func (f *Frame) OptionsPanelState() OptionsPanelState { return f.optionsState }

// ToggleOptionsPanel flips the options panel open or closed.
func (f *Frame) ToggleOptionsPanel() {
	if f.optionsState == OptionsPanelExpanded {
		f.optionsState = OptionsPanelCollapsed
	} else {
		f.optionsState = OptionsPanelExpanded
	}
}

// OpenSession resets to the expanded panel for a fresh capture.
func (f *Frame) OpenSession() {
	f.optionsState = OptionsPanelExpanded
}

// Layout arranges the panes for a window size, shrinking the options
// panel before the canvas drops under its minimum width.
func (f *Frame) Layout(windowWidth, windowHeight int) Layout {
	toolbarWidth := frameToolbarWidth
	if toolbarWidth > windowWidth {
		toolbarWidth = windowWidth
	}
	available := windowWidth - toolbarWidth

	optionsWidth := f.optionsState.width()
	if available < frameMinCanvasWidth+optionsWidth {
		optionsWidth = available - frameMinCanvasWidth
		if optionsWidth < 0 {
			optionsWidth = 0
		}
	}
	if toolbarWidth == windowWidth {
		optionsWidth = 0
	}
	canvasWidth := available - optionsWidth

	toolbar := Pane{X: 0, Y: 0, Width: toolbarWidth, Height: windowHeight}
	canvas := Pane{X: toolbarWidth, Y: 0, Width: canvasWidth, Height: windowHeight}
	options := Pane{X: toolbarWidth + canvasWidth, Y: 0, Width: optionsWidth, Height: windowHeight}
	return Layout{Toolbar: toolbar, Canvas: canvas, Options: options, OptionsState: f.optionsState}
}

// InputMode tracks the crop and text input modes; entering one exits
// the other.
type InputMode struct {
	cropActive      bool
	textInputActive bool
}

func (m *InputMode) Reset() {
	m.cropActive = false
	m.textInputActive = false
}

func (m *InputMode) ActivateCrop() {
	m.cropActive = true
	m.textInputActive = false
}

func (m *InputMode) DeactivateCrop() {
	m.cropActive = false
}

func (m *InputMode) StartTextInput() {
	m.textInputActive = true
	m.cropActive = false
}

func (m *InputMode) EndTextInput() {
	m.textInputActive = false
}

func (m *InputMode) CropActive() bool      { return m.cropActive }
func (m *InputMode) TextInputActive() bool { return m.textInputActive }
