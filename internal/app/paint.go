package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/render"
)

const toolButtonHeight = 36

var toolbarTools = []annotation.Tool{
	annotation.ToolSelect,
	annotation.ToolPan,
	annotation.ToolBlur,
	annotation.ToolPen,
	annotation.ToolArrow,
	annotation.ToolRectangle,
	annotation.ToolCrop,
	annotation.ToolText,
	annotation.ToolOcr,
}

func paneRect(p editor.Pane) image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

// scene assembles what the renderer draws on top of the base pixels.
func (a *App) scene() render.Scene {
	tools := a.session.Tools()
	sc := render.Scene{
		Objects:   tools.Objects(),
		Selection: a.session.Selection(),
	}
	if pc, ok := a.session.PendingCrop(); ok {
		sc.PendingCrop = pc
	}
	if pv, ok := a.session.Preview(); ok {
		sc.Preview = &render.GesturePreview{
			Tool:      pv.Tool,
			Start:     pv.Start,
			Current:   pv.Current,
			Arrow:     tools.ArrowOptions(),
			Rectangle: tools.RectangleOptions(),
		}
	}
	if id, ok := tools.ActiveTextID(); ok && a.session.InputMode().TextInputActive() {
		sc.EditingTextID = id
		sc.CaretVisible = (time.Now().UnixMilli()/int64(caretBlink/time.Millisecond))%2 == 0
		if pe, ok := tools.TextPreedit(); ok {
			sc.Preedit = &pe
		}
		// Refresh the caret rectangle the input method positions its
		// candidate window by.
		if box, ok := tools.ActiveTextBox(); ok {
			a.caretRect = a.renderer.TextCaretRect(box, sc.Preedit)
			a.caretRectValid = true
		}
	} else {
		a.caretRectValid = false
	}
	return sc
}

func (a *App) paint(dst *image.RGBA, winW, winH int) {
	layout := a.session.Frame().Layout(winW, winH-statusBarHeight)
	t := a.theme

	fillRect(dst, paneRect(layout.Toolbar), t.ToolbarBackground)
	fillRect(dst, paneRect(layout.Options), t.ToolbarBackground)
	a.paintCheckerboard(dst, paneRect(layout.Canvas))

	frame := a.renderer.RenderEditorFrame(a.base, a.scene())
	a.paintCanvas(dst, layout.Canvas, frame)

	a.paintToolbar(dst, layout.Toolbar)
	if layout.OptionsState == editor.OptionsPanelExpanded {
		a.paintOptions(dst, layout.Options)
	}
	a.paintStatusBar(dst, winW, winH)
}

func (a *App) paintCheckerboard(dst *image.RGBA, r image.Rectangle) {
	const size = 8
	for y := r.Min.Y; y < r.Max.Y; y += size {
		for x := r.Min.X; x < r.Max.X; x += size {
			c := a.theme.CheckerLight
			if ((x-r.Min.X)/size+(y-r.Min.Y)/size)%2 == 1 {
				c = a.theme.CheckerDark
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(r)
			fillRect(dst, cell, c)
		}
	}
}

// paintCanvas blits the rendered frame into the canvas pane at the
// session's zoom and pan.
func (a *App) paintCanvas(dst *image.RGBA, canvas editor.Pane, frame *image.RGBA) {
	clip, ok := dst.SubImage(paneRect(canvas)).(*image.RGBA)
	if !ok {
		return
	}
	vp := a.session.Viewport()
	zoom := vp.ZoomPercent()
	w := frame.Bounds().Dx() * zoom / 100
	h := frame.Bounds().Dy() * zoom / 100
	target := image.Rect(0, 0, w, h).
		Add(image.Pt(canvas.X+vp.PanX(), canvas.Y+vp.PanY()))
	if zoom == 100 {
		draw.Draw(clip, target, frame, frame.Bounds().Min, draw.Src)
		return
	}
	xdraw.NearestNeighbor.Scale(clip, target, frame, frame.Bounds(), draw.Src, nil)
}

func (a *App) paintToolbar(dst *image.RGBA, pane editor.Pane) {
	active := a.session.Tools().ActiveTool()
	for i, tool := range toolbarTools {
		r := image.Rect(pane.X, pane.Y+i*toolButtonHeight, pane.X+pane.Width, pane.Y+(i+1)*toolButtonHeight)
		bg := a.theme.ButtonBackground
		fg := a.theme.ButtonText
		if tool == active {
			bg = a.theme.ButtonBackgroundPress
			fg = a.theme.ButtonTextPress
		}
		fillRect(dst, r.Inset(2), bg)
		drawLabel(dst, tool.String(), r.Min.X+6, r.Min.Y+toolButtonHeight/2+4, fg)
	}
}

// paintOptions renders a plain readout of the active tool's settings.
func (a *App) paintOptions(dst *image.RGBA, pane editor.Pane) {
	tools := a.session.Tools()
	lines := []string{fmt.Sprintf("Tool: %s", tools.ActiveTool())}
	switch tools.ActiveTool() {
	case annotation.ToolBlur:
		lines = append(lines, fmt.Sprintf("Intensity: %d", tools.BlurOptions().Intensity))
	case annotation.ToolPen:
		opts := tools.PenOptions()
		lines = append(lines, fmt.Sprintf("Thickness: %d", opts.Thickness), fmt.Sprintf("Opacity: %d%%", opts.Opacity))
	case annotation.ToolArrow:
		opts := tools.ArrowOptions()
		lines = append(lines, fmt.Sprintf("Thickness: %d", opts.Thickness), fmt.Sprintf("Head size: %d", opts.HeadSize))
	case annotation.ToolRectangle:
		opts := tools.RectangleOptions()
		lines = append(lines, fmt.Sprintf("Thickness: %d", opts.Thickness), fmt.Sprintf("Radius: %d", opts.BorderRadius), fmt.Sprintf("Filled: %v", opts.FillEnabled))
	case annotation.ToolText:
		opts := tools.TextOptions()
		lines = append(lines, fmt.Sprintf("Size: %d", opts.Size), fmt.Sprintf("Weight: %d", opts.Weight))
	case annotation.ToolCrop:
		lines = append(lines, fmt.Sprintf("Preset: %v", tools.CropOptions().Preset))
	}
	for i, line := range lines {
		drawLabel(dst, line, pane.X+8, pane.Y+20+i*18, a.theme.Foreground)
	}
}

func (a *App) paintStatusBar(dst *image.RGBA, winW, winH int) {
	bar := image.Rect(0, winH-statusBarHeight, winW, winH)
	fillRect(dst, bar, a.theme.TabBackground)
	drawLabel(dst, a.statusLine(), 8, winH-8, a.theme.Foreground)

	zoom := fmt.Sprintf("%d%%", a.session.Viewport().ZoomPercent())
	if a.session.Unsaved() {
		zoom += " *"
	}
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := d.MeasureString(zoom).Ceil()
	drawLabel(dst, zoom, winW-w-8, winH-8, a.theme.Foreground)
}

func drawLabel(dst *image.RGBA, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
