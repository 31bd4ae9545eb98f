package ocr

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/snapmark/internal/geometry"
)

type stubEngine struct {
	lines  []Line
	err    error
	block  chan struct{}
	closed bool
}

func (e *stubEngine) Recognize(img image.Image) ([]Line, error) {
	if e.block != nil {
		<-e.block
	}
	return e.lines, e.err
}

func (e *stubEngine) Close() error {
	e.closed = true
	return nil
}

func modelDirEnv(t *testing.T) {
	t.Helper()
	dataHome := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dataHome, "snapmark", "models"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	t.Setenv("XDG_DATA_HOME", dataHome)
}

func awaitResult(t *testing.T, r *Recognizer) Result {
	t.Helper()
	select {
	case res := <-r.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for result")
		return Result{}
	}
}

func TestRecognizerJoinsSortedLines(t *testing.T) {
	modelDirEnv(t)
	engine := &stubEngine{lines: []Line{
		{Text: "second", Top: 40},
		{Text: "first", Top: 10},
		{Text: "third", Top: 90},
	}}
	factory := func(modelDir string, language Language) (Engine, error) { return engine, nil }
	r := NewRecognizer(factory, LanguageEnglish)

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := r.Start(context.Background(), img, geometry.Bounds{X: 5, Y: 5, Width: 10, Height: 10}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	res := awaitResult(t, r)
	if res.Err != nil {
		t.Fatalf("result err: %v", res.Err)
	}
	if res.Text != "first\nsecond\nthird" {
		t.Fatalf("text = %q, want sorted lines", res.Text)
	}
}

func TestRecognizerSingleInFlight(t *testing.T) {
	modelDirEnv(t)
	block := make(chan struct{})
	engine := &stubEngine{lines: []Line{{Text: "x", Top: 0}}, block: block}
	factory := func(modelDir string, language Language) (Engine, error) { return engine, nil }
	r := NewRecognizer(factory, LanguageEnglish)

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := r.Start(context.Background(), img, geometry.Bounds{X: 5, Y: 5, Width: 10, Height: 10}); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := r.Start(context.Background(), img, geometry.Bounds{X: 5, Y: 5, Width: 10, Height: 10}); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Start err = %v, want ErrBusy", err)
	}
	if !r.Busy() {
		t.Fatalf("Busy() = false during recognition")
	}

	close(block)
	awaitResult(t, r)
	if r.Busy() {
		t.Fatalf("Busy() = true after result delivery")
	}
	// The worker is free again.
	if err := r.Start(context.Background(), img, geometry.Bounds{X: 5, Y: 5, Width: 10, Height: 10}); err != nil {
		t.Fatalf("Start after completion: %v", err)
	}
	awaitResult(t, r)
}

func TestRecognizerResultCarriesStartRegion(t *testing.T) {
	modelDirEnv(t)
	block := make(chan struct{})
	engine := &stubEngine{lines: []Line{{Text: "x", Top: 0}}, block: block}
	factory := func(modelDir string, language Language) (Engine, error) { return engine, nil }
	r := NewRecognizer(factory, LanguageEnglish)

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	first := geometry.Bounds{X: 10, Y: 20, Width: 30, Height: 40}
	if err := r.Start(context.Background(), img, first); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// A drag started while the first job runs is rejected and must not
	// relocate that job's result.
	second := geometry.Bounds{X: 200, Y: 200, Width: 30, Height: 40}
	if err := r.Start(context.Background(), img, second); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Start err = %v, want ErrBusy", err)
	}
	close(block)
	res := awaitResult(t, r)
	if res.Region != first {
		t.Fatalf("result region = %+v, want %+v", res.Region, first)
	}
}

func TestRecognizerReusesEngine(t *testing.T) {
	modelDirEnv(t)
	created := 0
	factory := func(modelDir string, language Language) (Engine, error) {
		created++
		return &stubEngine{lines: []Line{{Text: "ok", Top: 0}}}, nil
	}
	r := NewRecognizer(factory, LanguageEnglish)
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	if r.EngineReady() {
		t.Fatalf("engine should not exist before first request")
	}
	for i := 0; i < 3; i++ {
		if err := r.Start(context.Background(), img, geometry.Bounds{X: 5, Y: 5, Width: 10, Height: 10}); err != nil {
			t.Fatalf("Start %d: %v", i, err)
		}
		awaitResult(t, r)
	}
	if created != 1 {
		t.Fatalf("factory ran %d times, want 1", created)
	}
	if !r.EngineReady() {
		t.Fatalf("engine should be retained between requests")
	}
}

func TestRecognizerFactoryErrorLeavesWorkerUsable(t *testing.T) {
	modelDirEnv(t)
	factoryErr := errors.New("model load failed")
	calls := 0
	factory := func(modelDir string, language Language) (Engine, error) {
		calls++
		if calls == 1 {
			return nil, factoryErr
		}
		return &stubEngine{lines: []Line{{Text: "ok", Top: 0}}}, nil
	}
	r := NewRecognizer(factory, LanguageEnglish)
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	if err := r.Start(context.Background(), img, geometry.Bounds{X: 5, Y: 5, Width: 10, Height: 10}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	res := awaitResult(t, r)
	if !errors.Is(res.Err, factoryErr) {
		t.Fatalf("result err = %v, want factory error", res.Err)
	}

	if err := r.Start(context.Background(), img, geometry.Bounds{X: 5, Y: 5, Width: 10, Height: 10}); err != nil {
		t.Fatalf("Start after failure: %v", err)
	}
	res = awaitResult(t, r)
	if res.Err != nil || res.Text != "ok" {
		t.Fatalf("retry result = (%q, %v), want (ok, nil)", res.Text, res.Err)
	}
}

func TestRecognizerMissingModelDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("HOME", filepath.Join(t.TempDir(), "missing-home"))
	if _, err := os.Stat(systemModelDir); err == nil {
		t.Skip("system model dir exists on this machine")
	}

	factory := func(modelDir string, language Language) (Engine, error) {
		t.Fatalf("factory must not run without a model dir")
		return nil, nil
	}
	r := NewRecognizer(factory, LanguageEnglish)
	if err := r.Start(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)), geometry.Bounds{Width: 10, Height: 10}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	res := awaitResult(t, r)
	if !errors.Is(res.Err, ErrModelDirNotFound) {
		t.Fatalf("result err = %v, want ErrModelDirNotFound", res.Err)
	}
}

func TestRegionImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 80))
	out, err := RegionImage(src, geometry.Bounds{X: 90, Y: 70, Width: 50, Height: 50})
	if err != nil {
		t.Fatalf("RegionImage: %v", err)
	}
	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 10 {
		t.Fatalf("clamped dims = %v, want 10x10", out.Bounds())
	}

	if _, err := RegionImage(src, geometry.Bounds{X: 0, Y: 0, Width: 0, Height: 10}); !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("zero width err = %v, want ErrInvalidRegion", err)
	}
	if _, err := RegionImage(src, geometry.Bounds{X: 200, Y: 200, Width: 10, Height: 10}); !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("outside err = %v, want ErrInvalidRegion", err)
	}
}

func TestPreviewText(t *testing.T) {
	if got := PreviewText("short"); got != "short" {
		t.Fatalf("got %q", got)
	}
	long := make([]rune, 100)
	for i := range long {
		long[i] = 'a'
	}
	got := PreviewText(string(long))
	if len([]rune(got)) != 60 {
		t.Fatalf("preview length = %d runes, want 60", len([]rune(got)))
	}
	if got[57:] != "..." {
		t.Fatalf("preview should end with ellipsis, got %q", got[50:])
	}
}
