// Package app hosts the desktop editor shell: a shiny window that owns
// one editing session and routes mouse and keyboard input to it.
package app

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/geometry"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/ocr"
	"github.com/example/snapmark/internal/output"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/theme"
)

const (
	statusBarHeight = 24
	caretBlink      = 500 * time.Millisecond
	doubleClickMax  = 400 * time.Millisecond
)

// App owns the editor window for a single capture.
type App struct {
	id    uint64
	base  *image.RGBA
	theme *theme.Theme

	session    *editor.Session
	renderer   *render.Renderer
	exporter   *output.Exporter
	recognizer *ocr.Recognizer
	notifier   *notify.Notifier

	toolOpts []annotation.Option

	message      string
	messageUntil time.Time

	caretRect      geometry.Bounds
	caretRectValid bool

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithCaptureID sets the capture id used for storage paths.
func WithCaptureID(id uint64) Option { return func(a *App) { a.id = id } }

// WithExporter overrides the save and copy backend.
func WithExporter(e *output.Exporter) Option { return func(a *App) { a.exporter = e } }

// WithRecognizer enables text recognition for the OCR tool.
func WithRecognizer(r *ocr.Recognizer) Option { return func(a *App) { a.recognizer = r } }

// WithNotifier enables desktop notifications for save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithTheme sets the chrome colors.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.theme = t } }

// WithToolOptions seeds the per-tool defaults, typically from config.
func WithToolOptions(opts ...annotation.Option) Option {
	return func(a *App) { a.toolOpts = opts }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// systemClipboard adapts the process clipboard to output.Clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteImage(img image.Image) error { return clipboard.WriteImage(img) }

// New creates an App editing the given capture pixels.
func New(base *image.RGBA, opts ...Option) (*App, error) {
	fonts, err := render.NewFontSet()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	a := &App{
		id:       1,
		base:     base,
		theme:    theme.Default(),
		renderer: render.NewRenderer(fonts),
	}
	for _, opt := range opts {
		opt(a)
	}
	bounds := geometry.ImageBounds{Width: base.Bounds().Dx(), Height: base.Bounds().Dy()}
	if len(a.toolOpts) > 0 {
		a.session = editor.NewSession(bounds, editor.WithToolOptions(a.toolOpts...))
	} else {
		a.session = editor.NewSession(bounds)
	}
	if a.exporter == nil {
		a.exporter = output.NewExporter(output.NewStorage(), a.renderer, systemClipboard{})
	}
	a.session.OnOcrRegion = a.startRecognition
	return a, nil
}

// Session exposes the editing state, mainly for tests.
func (a *App) Session() *editor.Session { return a.session }

// CaretRect reports the text caret's image-space pixel rectangle from
// the last painted frame. Input methods position candidate windows by
// it; it is only valid while a text box is being edited.
func (a *App) CaretRect() (geometry.Bounds, bool) {
	return a.caretRect, a.caretRectValid
}

// HandlePreedit routes an input-method composition update to the
// focused text box.
func (a *App) HandlePreedit(content string, cursorBytes int) {
	if !a.session.UpdateTextPreedit(content, cursorBytes) && content != "" {
		log.Printf("editor: preedit %q dropped with no focused text box", content)
	}
}

func (a *App) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func (a *App) showMessage(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
	log.Print(a.message)
	a.messageUntil = time.Now().Add(2 * time.Second)
}

// statusLine is what the status bar shows: a transient message wins
// over the session status.
func (a *App) statusLine() string {
	if a.message != "" && time.Now().Before(a.messageUntil) {
		return a.message
	}
	return a.session.Status()
}

// ocrResultEvent carries a worker result back onto the UI thread. The
// result's region identifies the job, so a drag started while another
// job is in flight can never relocate that job's text.
type ocrResultEvent struct {
	result ocr.Result
}

func (a *App) startRecognition(region geometry.Bounds) {
	if a.recognizer == nil {
		a.showMessage("text recognition is not available")
		return
	}
	img, err := ocr.RegionImage(a.base, region)
	if err != nil {
		a.showMessage("recognize: %v", err)
		return
	}
	if err := a.recognizer.Start(context.Background(), img, region); err != nil {
		a.showMessage("recognize: %v", err)
		return
	}
	a.showMessage("%s", ocr.ProcessingStatus(a.recognizer.EngineReady()))
}

func (a *App) save() {
	path, err := a.exporter.Save(a.id, a.base, a.session)
	if err != nil {
		a.showMessage("save: %v", err)
		return
	}
	if a.notifier != nil {
		a.notifier.Save(path)
	}
	a.showMessage("editor saved capture %d", a.id)
}

func (a *App) copyImage() {
	if err := a.exporter.Copy(a.id, a.base, a.session); err != nil {
		a.showMessage("copy: %v", err)
		return
	}
	if a.notifier != nil {
		a.notifier.Copy(fmt.Sprintf("capture %d", a.id))
	}
	a.showMessage("editor copied capture %d", a.id)
}

// Run opens the window and blocks until it closes.
func (a *App) Run() { driver.Main(a.Main) }

// Main is the shiny entry point.
func (a *App) Main(s screen.Screen) {
	defer a.notifyClose()

	winW := a.base.Bounds().Dx() + frameChromeWidth()
	winH := a.base.Bounds().Dy() + statusBarHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: winW, Height: winH, Title: "SnapMark"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	b, err := s.NewBuffer(image.Pt(winW, winH))
	if err != nil {
		log.Fatalf("new buffer: %v", err)
	}
	defer func() { b.Release() }()

	if a.recognizer != nil {
		go func() {
			for res := range a.recognizer.Results() {
				w.Send(ocrResultEvent{result: res})
			}
		}()
		defer a.recognizer.Close()
	}

	blink := time.NewTicker(caretBlink)
	defer blink.Stop()
	go func() {
		for range blink.C {
			if a.session.InputMode().TextInputActive() {
				w.Send(paint.Event{})
			}
		}
	}()

	var lastClick time.Time
	var lastClickAt image.Point
	var dragging bool

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			if e.WidthPx > 0 && e.HeightPx > 0 && (e.WidthPx != winW || e.HeightPx != winH) {
				winW, winH = e.WidthPx, e.HeightPx
				b.Release()
				b, err = s.NewBuffer(image.Pt(winW, winH))
				if err != nil {
					log.Fatalf("new buffer: %v", err)
				}
			}
			w.Send(paint.Event{})
		case paint.Event:
			a.paint(b.RGBA(), winW, winH)
			w.Upload(image.Point{}, b, b.Bounds())
			w.Publish()
		case mouse.Event:
			switch {
			case e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown:
				a.handleWheel(e)
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				at := image.Pt(int(e.X), int(e.Y))
				p, ok := a.screenToImage(at, winW, winH)
				if !ok {
					break
				}
				double := time.Since(lastClick) < doubleClickMax && near(at, lastClickAt, 4)
				lastClick = time.Now()
				lastClickAt = at
				if a.session.Tools().ActiveTool() == annotation.ToolText {
					a.session.TextClick(p, double)
				} else {
					dragging = true
					a.session.BeginDrag(p)
				}
			case e.Direction == mouse.DirNone && dragging:
				if p, ok := a.screenToImage(image.Pt(int(e.X), int(e.Y)), winW, winH); ok {
					a.session.UpdateDrag(p)
				}
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease && dragging:
				dragging = false
				p, _ := a.screenToImage(image.Pt(int(e.X), int(e.Y)), winW, winH)
				a.session.EndDrag(p)
			}
			w.Send(paint.Event{})
		case key.Event:
			if e.Direction == key.DirRelease {
				break
			}
			if a.handleKey(e) {
				return
			}
			w.Send(paint.Event{})
		case ocrResultEvent:
			if e.result.Err != nil {
				a.showMessage("recognize: %v", e.result.Err)
			} else {
				a.session.InsertRecognizedText(e.result.Region, e.result.Text)
				a.showMessage("inserted recognized text")
			}
			w.Send(paint.Event{})
		}
	}
}

func near(a, b image.Point, tolerance int) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= tolerance && dy <= tolerance
}
