package output

import (
	"fmt"
	"image"

	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/geometry"
	"github.com/example/snapmark/internal/render"
)

// Clipboard abstracts the system clipboard backend.
type Clipboard interface {
	WriteImage(img image.Image) error
}

// Exporter renders the final capture image and performs save and copy
// actions against a Storage.
type Exporter struct {
	storage   *Storage
	renderer  *render.Renderer
	clipboard Clipboard
	shadow    *render.ShadowOptions
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithShadow composites a drop shadow onto rendered output.
func WithShadow(opts render.ShadowOptions) ExporterOption {
	return func(e *Exporter) { e.shadow = &opts }
}

// NewExporter creates an Exporter over the given storage, renderer and
// clipboard backend.
func NewExporter(storage *Storage, renderer *render.Renderer, clip Clipboard, opts ...ExporterOption) *Exporter {
	e := &Exporter{storage: storage, renderer: renderer, clipboard: clip}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// outputCrop resolves the crop region for final output. A pending crop takes
// precedence over the last committed one.
func outputCrop(s *editor.Session) *geometry.Bounds {
	if pc, ok := s.PendingCrop(); ok {
		b := clampCrop(pc.Bounds, s.ImageBounds())
		return &b
	}
	crops := s.Tools().Crops()
	if len(crops) > 0 {
		b := clampCrop(crops[len(crops)-1].Bounds, s.ImageBounds())
		return &b
	}
	return nil
}

func clampCrop(b geometry.Bounds, img geometry.ImageBounds) geometry.Bounds {
	if b.X < 0 {
		b.Width += b.X
		b.X = 0
	}
	if b.Y < 0 {
		b.Height += b.Y
		b.Y = 0
	}
	if b.X > img.Width-1 {
		b.X = img.Width - 1
	}
	if b.Y > img.Height-1 {
		b.Y = img.Height - 1
	}
	if b.Width < 1 {
		b.Width = 1
	}
	if b.Height < 1 {
		b.Height = 1
	}
	if b.Width > img.Width-b.X {
		b.Width = img.Width - b.X
	}
	if b.Height > img.Height-b.Y {
		b.Height = img.Height - b.Y
	}
	return b
}

// EnsureRendered guarantees the capture's working PNG reflects the session.
// The file is re-rendered only when edits are unsaved, a crop is pending, or
// the file is missing.
func (e *Exporter) EnsureRendered(id uint64, base *image.RGBA, s *editor.Session) (string, error) {
	_, pending := s.PendingCrop()
	if !pending && !s.Unsaved() && e.storage.TempExists(id) {
		return e.storage.TempPath(id), nil
	}
	out := e.renderer.RenderOutput(base, s.Tools().Objects(), outputCrop(s))
	if e.shadow != nil {
		out = render.ApplyShadow(out, *e.shadow).Image
	}
	if err := e.storage.WriteTemp(id, out); err != nil {
		return "", err
	}
	return e.storage.TempPath(id), nil
}

// Save renders the capture if needed, copies it into the pictures directory
// and returns the saved path.
func (e *Exporter) Save(id uint64, base *image.RGBA, s *editor.Session) (string, error) {
	if _, err := e.EnsureRendered(id, base, s); err != nil {
		return "", fmt.Errorf("render capture %d: %w", id, err)
	}
	path, err := e.storage.Save(id)
	if err != nil {
		return "", fmt.Errorf("save capture %d: %w", id, err)
	}
	s.MarkSaved()
	return path, nil
}

// Copy renders the capture if needed and places it on the clipboard.
func (e *Exporter) Copy(id uint64, base *image.RGBA, s *editor.Session) error {
	if _, err := e.EnsureRendered(id, base, s); err != nil {
		return fmt.Errorf("render capture %d: %w", id, err)
	}
	img, err := e.storage.ReadTemp(id)
	if err != nil {
		return fmt.Errorf("read capture %d: %w", id, err)
	}
	if err := e.clipboard.WriteImage(img); err != nil {
		return fmt.Errorf("copy capture %d: %w", id, err)
	}
	s.MarkSaved()
	return nil
}
