package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/example/snapmark/internal/app"
	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/ocr"
	"github.com/example/snapmark/internal/output"
	"github.com/example/snapmark/internal/render"
)

// ocrEngineFactory builds the recognition engine used by the editor's text
// recognition tool. It stays nil when no engine backend is linked in, in
// which case the editor reports recognition as unavailable.
var ocrEngineFactory ocr.EngineFactory

// editCmd captures or loads an image and opens it in the annotation editor.
type editCmd struct {
	file               string
	display            string
	window             string
	rect               string
	includeDecorations bool
	includeCursor      bool
	mode               string
	id                 uint64
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "open this PNG file instead of capturing")
	fs.StringVar(&e.display, "display", "", "target display selector for screen captures")
	fs.StringVar(&e.window, "window", "", "target window selector for window captures")
	fs.StringVar(&e.rect, "rect", "", "capture rectangle x0,y0,x1,y1 when targeting a region")
	fs.BoolVar(&e.includeDecorations, "include-decorations", false, "request window decorations when capturing windows")
	fs.BoolVar(&e.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
	fs.Uint64Var(&e.id, "id", 0, "capture id used for working file names (defaults to a timestamp)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	e.mode = "screen"
	if fs.NArg() > 0 {
		e.mode = strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	}
	if e.file != "" {
		e.mode = "file"
	}
	switch e.mode {
	case "screen", "window", "region", "file":
	default:
		return nil, &UsageError{of: e}
	}
	if e.mode == "file" && e.file == "" {
		return nil, fmt.Errorf("file mode requires -file")
	}
	if e.id == 0 {
		e.id = uint64(time.Now().Unix())
	}
	return e, nil
}

func (e *editCmd) Run() error {
	base, err := e.acquire()
	if err != nil {
		return fmt.Errorf("failed to acquire %s: %w", e.mode, err)
	}
	if e.root != nil {
		e.root.notifyCapture(e.mode, base)
	}

	cfg := e.root.config
	toolOpts, err := cfg.ToolOptions()
	if err != nil {
		return fmt.Errorf("invalid tool configuration: %w", err)
	}

	fonts, err := render.NewFontSet()
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	renderer := render.NewRenderer(fonts)

	var storageOpts []output.StorageOption
	if dir := strings.TrimSpace(cfg.Output.TempDir); dir != "" {
		storageOpts = append(storageOpts, output.WithTempDir(dir))
	}
	if dir := strings.TrimSpace(cfg.Output.SaveDir); dir != "" {
		storageOpts = append(storageOpts, output.WithPicturesDir(dir))
	}
	storage := output.NewStorage(storageOpts...)

	var exporterOpts []output.ExporterOption
	if cfg.Output.Shadow {
		exporterOpts = append(exporterOpts, output.WithShadow(render.DefaultShadowOptions()))
	}
	exporter := output.NewExporter(storage, renderer, imageClipboard{}, exporterOpts...)

	var recognizer *ocr.Recognizer
	if ocrEngineFactory != nil {
		recognizer = ocr.NewRecognizer(ocrEngineFactory, ocr.ResolveLanguage(cfg.OCR.Language))
	}

	opts := []app.Option{
		app.WithCaptureID(e.id),
		app.WithExporter(exporter),
		app.WithNotifier(e.root.notifier),
		app.WithToolOptions(toolOpts...),
	}
	if e.root.activeTheme != nil {
		opts = append(opts, app.WithTheme(e.root.activeTheme))
	}
	if recognizer != nil {
		opts = append(opts, app.WithRecognizer(recognizer))
	}

	editor, err := app.New(base, opts...)
	if err != nil {
		return fmt.Errorf("start editor: %w", err)
	}
	editor.Run()
	return nil
}

func (e *editCmd) acquire() (*image.RGBA, error) {
	opts := capture.CaptureOptions{
		IncludeDecorations: e.includeDecorations,
		IncludeCursor:      e.includeCursor,
	}
	switch e.mode {
	case "file":
		return loadPNGFile(e.file)
	case "screen":
		return captureScreenshotFn(e.display, opts)
	case "window":
		return captureWindowFn(e.window, opts)
	case "region":
		if strings.TrimSpace(e.rect) == "" {
			return captureRegionFn(opts)
		}
		rect, err := parseRect(e.rect)
		if err != nil {
			return nil, err
		}
		return captureRegionRectFn(rect, opts)
	default:
		return nil, fmt.Errorf("unsupported mode %q", e.mode)
	}
}

// imageClipboard adapts the clipboard package to the exporter interface.
type imageClipboard struct{}

func (imageClipboard) WriteImage(img image.Image) error {
	return clipboard.WriteImage(img)
}

func loadPNGFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(f)
	if cerr := f.Close(); cerr != nil {
		log.Printf("close %s: %v", path, cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
