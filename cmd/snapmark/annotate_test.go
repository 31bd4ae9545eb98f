package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/snapmark/internal/annotation"
)

func writeTestPNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create input: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode input: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close input: %v", err)
	}
	return path
}

func decodeOutput(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return img
}

func TestParseAnnotateCmdRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{"rect", "0", "0", "10", "10"}},
		{name: "missing shape", args: []string{"-file", "in.png"}},
		{name: "unknown shape", args: []string{"-file", "in.png", "star", "1", "2"}},
		{name: "rect short coords", args: []string{"-file", "in.png", "rect", "1", "2", "3"}},
		{name: "rect bad int", args: []string{"-file", "in.png", "rect", "1", "2", "3", "x"}},
		{name: "pen odd coords", args: []string{"-file", "in.png", "pen", "1", "2", "3"}},
		{name: "text without content", args: []string{"-file", "in.png", "text", "1", "2"}},
		{name: "bad color", args: []string{"-file", "in.png", "-color", "nosuch", "rect", "0", "0", "5", "5"}},
		{name: "intensity out of range", args: []string{"-file", "in.png", "-intensity", "150", "blur", "0", "0", "5", "5"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseAnnotateCmd(tc.args, newTestRoot()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("rebeccapurple")
	if err != nil {
		t.Fatalf("parseColor: %v", err)
	}
	if c != (color.RGBA{0x66, 0x33, 0x99, 0xff}) {
		t.Fatalf("rebeccapurple = %v", c)
	}
	c, err = parseColor("#102030")
	if err != nil {
		t.Fatalf("parseColor: %v", err)
	}
	if c != (color.RGBA{0x10, 0x20, 0x30, 0xff}) {
		t.Fatalf("hex = %v", c)
	}
	c, err = parseColor("#10203040")
	if err != nil {
		t.Fatalf("parseColor: %v", err)
	}
	if c.A != 0x40 {
		t.Fatalf("alpha = %#x, want 0x40", c.A)
	}
	if _, err := parseColor(""); err == nil {
		t.Fatalf("expected error for empty color")
	}
}

func TestAnnotateRectKeepsImageSize(t *testing.T) {
	in := writeTestPNG(t, 80, 60)
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseAnnotateCmd([]string{"-file", in, "-output", out, "-color", "blue", "rect", "10", "10", "50", "40"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseAnnotateCmd: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img := decodeOutput(t, out)
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Fatalf("output size = %v, want 80x60", img.Bounds())
	}
}

func TestAnnotateClampsCoordinatesToImage(t *testing.T) {
	cmd, err := parseAnnotateCmd([]string{"-file", "in.png", "rect", "-50", "-50", "2000", "2000"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseAnnotateCmd: %v", err)
	}
	tools, err := cmd.buildTools()
	if err != nil {
		t.Fatalf("buildTools: %v", err)
	}
	if err := cmd.applyShape(tools, 800, 600); err != nil {
		t.Fatalf("applyShape: %v", err)
	}
	objects := tools.Objects()
	if len(objects) != 1 {
		t.Fatalf("object count = %d, want 1", len(objects))
	}
	b, ok := annotation.ObjectBounds(objects[0])
	if !ok {
		t.Fatalf("no bounds for stored rectangle")
	}
	if b.X < 0 || b.Y < 0 || b.X+b.Width > 800 || b.Y+b.Height > 600 {
		t.Fatalf("stored bounds %+v escape the 800x600 image", b)
	}
}

func TestAnnotateCropShrinksOutput(t *testing.T) {
	in := writeTestPNG(t, 120, 100)
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseAnnotateCmd([]string{"-file", in, "-output", out, "crop", "10", "10", "70", "60"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseAnnotateCmd: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img := decodeOutput(t, out)
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 50 {
		t.Fatalf("output size = %v, want 60x50", img.Bounds())
	}
}

func TestAnnotateDefaultsOutputToInput(t *testing.T) {
	in := writeTestPNG(t, 40, 40)
	cmd, err := parseAnnotateCmd([]string{"-file", in, "arrow", "5", "5", "30", "30"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseAnnotateCmd: %v", err)
	}
	if cmd.output != in {
		t.Fatalf("output = %q, want %q", cmd.output, in)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img := decodeOutput(t, in)
	if img.Bounds().Dx() != 40 {
		t.Fatalf("output size = %v, want 40x40", img.Bounds())
	}
}

func TestAnnotateTextRenders(t *testing.T) {
	in := writeTestPNG(t, 200, 80)
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseAnnotateCmd([]string{"-file", in, "-output", out, "-color", "black", "text", "10", "10", "hello", "world"}, newTestRoot())
	if err != nil {
		t.Fatalf("parseAnnotateCmd: %v", err)
	}
	if cmd.text != "hello world" {
		t.Fatalf("text = %q, want %q", cmd.text, "hello world")
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img := decodeOutput(t, out)
	changed := false
	for y := 0; y < img.Bounds().Dy() && !changed; y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				changed = true
				break
			}
		}
	}
	if !changed {
		t.Fatalf("expected rendered text to change pixels")
	}
}
