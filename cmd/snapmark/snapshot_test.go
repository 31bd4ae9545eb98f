package main

import (
	"errors"
	"flag"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/config"
)

func newTestRoot() *root {
	return &root{
		fs:      flag.NewFlagSet("snapmark", flag.ContinueOnError),
		program: "snapmark",
		config:  config.New(),
	}
}

func stubCapture(t *testing.T, img *image.RGBA, err error) *capture.CaptureOptions {
	t.Helper()
	var got capture.CaptureOptions
	prevScreen := captureScreenshotFn
	prevWindow := captureWindowFn
	prevRegion := captureRegionFn
	prevRect := captureRegionRectFn
	t.Cleanup(func() {
		captureScreenshotFn = prevScreen
		captureWindowFn = prevWindow
		captureRegionFn = prevRegion
		captureRegionRectFn = prevRect
	})
	captureScreenshotFn = func(string, capture.CaptureOptions) (*image.RGBA, error) {
		return img, err
	}
	captureWindowFn = func(_ string, opts capture.CaptureOptions) (*image.RGBA, error) {
		got = opts
		return img, err
	}
	captureRegionFn = func(capture.CaptureOptions) (*image.RGBA, error) {
		return img, err
	}
	captureRegionRectFn = func(rect image.Rectangle, _ capture.CaptureOptions) (*image.RGBA, error) {
		if img == nil {
			return nil, err
		}
		sub := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		return sub, err
	}
	return &got
}

func TestParseSnapshotCmdModes(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantMode string
		wantErr  bool
	}{
		{name: "screen", args: []string{"screen"}, wantMode: "screen"},
		{name: "window selector operand", args: []string{"window", "firefox"}, wantMode: "window"},
		{name: "region rect flag", args: []string{"-rect", "0,0,10,10", "region"}, wantMode: "region"},
		{name: "missing mode", args: nil, wantErr: true},
		{name: "unknown mode", args: []string{"banana"}, wantErr: true},
		{name: "stdout with clipboard", args: []string{"-stdout", "-to-clipboard", "screen"}, wantErr: true},
		{name: "bad shadow offset", args: []string{"-shadow-offset", "abc", "screen"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := parseSnapshotCmd(tc.args, newTestRoot())
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSnapshotCmd: %v", err)
			}
			if cmd.mode != tc.wantMode {
				t.Fatalf("mode = %q, want %q", cmd.mode, tc.wantMode)
			}
		})
	}
}

func TestParseSnapshotCmdOperandFillsSelector(t *testing.T) {
	cmd, err := parseSnapshotCmd([]string{"window", "class:terminal"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseSnapshotCmd: %v", err)
	}
	if cmd.window != "class:terminal" {
		t.Fatalf("window = %q, want %q", cmd.window, "class:terminal")
	}
}

func TestSnapshotRunWritesFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	stubCapture(t, img, nil)

	out := filepath.Join(t.TempDir(), "shot.png")
	cmd, err := parseSnapshotCmd([]string{"-output", out, "screen"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseSnapshotCmd: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.Bounds().Dx() != 32 || decoded.Bounds().Dy() != 24 {
		t.Fatalf("output size = %v, want 32x24", decoded.Bounds())
	}
}

func TestSnapshotRunForwardsCaptureOptions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	got := stubCapture(t, img, nil)

	out := filepath.Join(t.TempDir(), "shot.png")
	cmd, err := parseSnapshotCmd([]string{"-output", out, "-include-cursor", "-include-decorations", "window", "firefox"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseSnapshotCmd: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !got.IncludeCursor || !got.IncludeDecorations {
		t.Fatalf("capture options not forwarded: %+v", *got)
	}
}

func TestSnapshotRunShadowExpandsOutput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	stubCapture(t, img, nil)

	out := filepath.Join(t.TempDir(), "shot.png")
	cmd, err := parseSnapshotCmd([]string{"-output", out, "-shadow", "screen"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseSnapshotCmd: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.Bounds().Dx() <= 40 || decoded.Bounds().Dy() <= 30 {
		t.Fatalf("expected shadow to expand output, got %v", decoded.Bounds())
	}
}

func TestSnapshotRunWrapsCaptureError(t *testing.T) {
	captureErr := errors.New("portal unavailable")
	stubCapture(t, nil, captureErr)

	cmd, err := parseSnapshotCmd([]string{"screen"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseSnapshotCmd: %v", err)
	}
	err = cmd.Run()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, captureErr) {
		t.Fatalf("expected wrapped capture error, got %v", err)
	}
}

func TestSnapshotRegionRectUsesRectCapture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	stubCapture(t, img, nil)

	out := filepath.Join(t.TempDir(), "shot.png")
	cmd, err := parseSnapshotCmd([]string{"-output", out, "region", "10,10,50,40"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseSnapshotCmd: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.Bounds().Dx() != 40 || decoded.Bounds().Dy() != 30 {
		t.Fatalf("output size = %v, want 40x30", decoded.Bounds())
	}
}

func TestParseRect(t *testing.T) {
	if _, err := parseRect("1,2,3"); err == nil {
		t.Fatalf("expected error for short rect")
	}
	if _, err := parseRect("1,2,1,2"); err == nil {
		t.Fatalf("expected error for empty rect")
	}
	rect, err := parseRect(" 10, 20, 30, 40 ")
	if err != nil {
		t.Fatalf("parseRect: %v", err)
	}
	if rect != image.Rect(10, 20, 30, 40) {
		t.Fatalf("rect = %v", rect)
	}
}
