package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/geometry"
	"github.com/example/snapmark/internal/render"
	"golang.org/x/image/colornames"
)

// annotateCmd applies a single markup object to an image without opening the
// editor. The shape and its coordinates are positional arguments:
//
//	blur x0 y0 x1 y1
//	pen x0 y0 x1 y1 [x y ...]
//	arrow x0 y0 x1 y1
//	rect x0 y0 x1 y1
//	crop x0 y0 x1 y1
//	text x y content...
type annotateCmd struct {
	file        string
	output      string
	toClipboard bool
	colorSpec   string
	color       annotation.Color
	width       int
	textSize    int
	intensity   int
	fill        bool
	shape       string
	coords      []int
	text        string
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		var vals [4]uint64
		vals[3] = 255
		for i := 0; i*2+1 < len(spec)-1; i++ {
			v, err := strconv.ParseUint(spec[1+i*2:3+i*2], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid color %q", s)
			}
			vals[i] = v
		}
		return color.RGBA{uint8(vals[0]), uint8(vals[1]), uint8(vals[2]), uint8(vals[3])}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "input image file")
	fs.StringVar(&a.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&a.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&a.colorSpec, "color", "red", "stroke or text color name or hex value")
	fs.IntVar(&a.width, "width", 0, "stroke thickness in pixels (0 keeps the configured default)")
	fs.IntVar(&a.textSize, "text-size", 0, "text size in points (0 keeps the configured default)")
	fs.IntVar(&a.intensity, "intensity", 0, "blur intensity 1-100 (0 keeps the configured default)")
	fs.BoolVar(&a.fill, "fill", false, "fill rectangles instead of outlining them")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.file == "" {
		return nil, fmt.Errorf("input file is required")
	}
	if a.output == "" {
		a.output = a.file
	}
	positionals := fs.Args()
	if len(positionals) < 1 {
		return nil, &UsageError{of: a}
	}
	a.shape = strings.ToLower(positionals[0])
	remaining := positionals[1:]
	var err error
	switch a.shape {
	case "blur", "arrow", "rect", "crop":
		a.coords, err = expectInts(remaining, 4, a.shape)
	case "pen":
		if len(remaining) < 4 || len(remaining)%2 != 0 {
			return nil, fmt.Errorf("pen requires an even number of coordinates, at least two points")
		}
		a.coords, err = expectInts(remaining, len(remaining), a.shape)
	case "text":
		if len(remaining) < 3 {
			return nil, fmt.Errorf("text requires x y and content")
		}
		a.coords, err = expectInts(remaining[:2], 2, a.shape)
		if err != nil {
			return nil, err
		}
		a.text = strings.Join(remaining[2:], " ")
		if strings.TrimSpace(a.text) == "" {
			return nil, fmt.Errorf("text content cannot be empty")
		}
	default:
		return nil, fmt.Errorf("unsupported shape %q", a.shape)
	}
	if err != nil {
		return nil, err
	}
	c, err := parseColor(a.colorSpec)
	if err != nil {
		return nil, err
	}
	a.color = annotation.Color{R: c.R, G: c.G, B: c.B}
	if a.intensity < 0 || a.intensity > 100 {
		return nil, fmt.Errorf("intensity must be between 0 and 100")
	}
	return a, nil
}

func expectInts(args []string, n int, shape string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", shape, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

func (a *annotateCmd) Run() error {
	base, err := loadPNGFile(a.file)
	if err != nil {
		return err
	}

	tools, err := a.buildTools()
	if err != nil {
		return err
	}
	if err := a.applyShape(tools, base.Bounds().Dx(), base.Bounds().Dy()); err != nil {
		return err
	}

	fonts, err := render.NewFontSet()
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	renderer := render.NewRenderer(fonts)
	var crop *geometry.Bounds
	if crops := tools.Crops(); len(crops) > 0 {
		b := crops[len(crops)-1].Bounds
		crop = &b
	}
	result := renderer.RenderOutput(base, tools.Objects(), crop)

	out, err := os.Create(a.output)
	if err != nil {
		return fmt.Errorf("create output %q: %w", a.output, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			log.Printf("close %s: %v", a.output, cerr)
		}
	}()
	if err := png.Encode(out, result); err != nil {
		return fmt.Errorf("write PNG to %q: %w", a.output, err)
	}
	saved := a.output
	if abs, err := filepath.Abs(a.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if a.root != nil {
		a.root.notifySave(saved)
	}
	if a.toClipboard {
		if err := clipboard.WriteImage(result); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", filepath.Base(a.output))
		if a.root != nil {
			a.root.notifyCopy(filepath.Base(a.output))
		}
	}
	return nil
}

func (a *annotateCmd) buildTools() (*annotation.EditorTools, error) {
	opts, err := a.root.config.ToolOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid tool configuration: %w", err)
	}
	tools := annotation.NewEditorTools(opts...)
	tools.SetSharedStrokeColor(a.color)
	text := tools.TextOptions()
	text.Color = a.color
	if a.textSize > 0 {
		text.Size = uint8(a.textSize)
	}
	if a.width > 0 {
		tools.SetSharedStrokeThickness(uint8(a.width))
	}
	if a.intensity > 0 {
		tools.SetBlurIntensity(uint8(a.intensity))
	}
	if a.fill {
		tools.SetRectangleFill(true)
	}
	applyText := annotation.WithTextOptions(text)
	applyText(tools)
	return tools, nil
}

func (a *annotateCmd) applyShape(tools *annotation.EditorTools, width, height int) error {
	// Coordinates come straight from the command line and are clamped
	// into the image like interactive pointer input is.
	img := geometry.ImageBounds{Width: width, Height: height}
	pt := func(i int) geometry.Point {
		return geometry.ClampPoint(geometry.Point{X: a.coords[i], Y: a.coords[i+1]}, img)
	}
	switch a.shape {
	case "blur":
		b, ok := geometry.NormalizeBox(pt(0), pt(2))
		if !ok {
			return fmt.Errorf("blur region is degenerate")
		}
		_, err := tools.AddBlur(b)
		return err
	case "arrow":
		_, err := tools.AddArrow(pt(0), pt(2))
		return err
	case "rect":
		_, err := tools.AddRectangle(pt(0), pt(2))
		return err
	case "crop":
		_, err := tools.AddCropInBounds(pt(0), pt(2), width, height)
		return err
	case "pen":
		id := tools.BeginPenStroke(pt(0))
		for i := 2; i < len(a.coords); i += 2 {
			if err := tools.AppendPenPoint(id, pt(i)); err != nil {
				return err
			}
		}
		return tools.FinishPenStroke(id)
	case "text":
		tools.AddTextBox(pt(0))
		for _, r := range a.text {
			ev := annotation.TextInputEvent{Kind: annotation.TextInputCharacter, Char: r}
			if r == '\n' {
				ev = annotation.TextInputEvent{Kind: annotation.TextInputNewline}
			}
			tools.ApplyTextInput(ev)
		}
		tools.FinishTextBox()
		return nil
	default:
		return fmt.Errorf("unhandled shape %q", a.shape)
	}
}
