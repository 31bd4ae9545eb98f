package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/render"
)

// Seams for tests; the real functions need a desktop session.
var (
	captureScreenshotFn = capture.CaptureScreenshot
	captureWindowFn     = capture.CaptureWindow
	captureRegionFn     = capture.CaptureRegion
	captureRegionRectFn = capture.CaptureRegionRect
)

// snapshotCmd captures without opening the editor and writes the result to a
// file, stdout, or the clipboard.
type snapshotCmd struct {
	output             string
	stdout             bool
	toClipboard        bool
	mode               string
	display            string
	window             string
	rect               string
	includeDecorations bool
	includeCursor      bool
	shadow             bool
	shadowRadius       int
	shadowOffset       string
	shadowPoint        image.Point
	shadowOpacity      float64
	*root
	fs *flag.FlagSet
}

func (s *snapshotCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSnapshotCmd(args []string, r *root) (*snapshotCmd, error) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	s := &snapshotCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	defaults := render.DefaultShadowOptions()
	fs.StringVar(&s.output, "output", "screenshot.png", "write the capture to this file path")
	fs.StringVar(&s.display, "display", "", "target display selector for screen captures")
	fs.StringVar(&s.window, "window", "", "target window selector for window captures")
	fs.StringVar(&s.rect, "rect", "", "capture rectangle x0,y0,x1,y1 when targeting a region")
	fs.BoolVar(&s.stdout, "stdout", false, "write PNG data to stdout")
	fs.BoolVar(&s.toClipboard, "to-clipboard", false, "copy the capture to the clipboard")
	fs.BoolVar(&s.includeDecorations, "include-decorations", false, "request window decorations when capturing windows")
	fs.BoolVar(&s.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
	fs.BoolVar(&s.shadow, "shadow", false, "apply a drop shadow to the captured image")
	fs.IntVar(&s.shadowRadius, "shadow-radius", defaults.Radius, "drop shadow blur radius in pixels")
	fs.StringVar(&s.shadowOffset, "shadow-offset", formatOffset(defaults.Offset), "drop shadow offset as dx,dy")
	fs.Float64Var(&s.shadowOpacity, "shadow-opacity", defaults.Opacity, "drop shadow opacity between 0 and 1")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	pt, err := parseOffset(s.shadowOffset)
	if err != nil {
		return nil, err
	}
	s.shadowPoint = pt
	if s.toClipboard && s.stdout {
		return nil, fmt.Errorf("-stdout cannot be used with -to-clipboard")
	}
	operands := fs.Args()
	if len(operands) == 0 {
		return nil, &UsageError{of: s}
	}
	s.mode = strings.ToLower(strings.TrimSpace(operands[0]))
	operands = operands[1:]
	switch s.mode {
	case "screen", "window", "region":
	default:
		return nil, &UsageError{of: s}
	}
	if len(operands) > 0 {
		arg := strings.TrimSpace(strings.Join(operands, " "))
		switch s.mode {
		case "screen":
			if s.display == "" {
				s.display = arg
			}
		case "window":
			if s.window == "" {
				s.window = arg
			}
		case "region":
			if s.rect == "" {
				s.rect = arg
			}
		}
	}
	return s, nil
}

func (s *snapshotCmd) Run() error {
	img, err := s.capture()
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", s.mode, err)
	}
	if s.shadow {
		res := render.ApplyShadow(img, s.shadowOptions())
		img = res.Image
	}
	if s.root != nil {
		s.root.notifyCapture(s.describeCapture(), img)
	}
	if s.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := s.describeCapture()
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		if s.root != nil {
			s.root.notifyCopy(detail)
		}
		return nil
	}
	var w io.Writer
	if s.stdout {
		w = os.Stdout
	} else {
		f, err := os.Create(s.output)
		if err != nil {
			return fmt.Errorf("create output %q: %w", s.output, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				log.Printf("close %s: %v", s.output, cerr)
			}
		}()
		w = f
	}
	if err := png.Encode(w, img); err != nil {
		if s.stdout {
			return fmt.Errorf("write PNG to stdout: %w", err)
		}
		return fmt.Errorf("write PNG to %q: %w", s.output, err)
	}
	if s.stdout {
		fmt.Fprintln(os.Stderr, "wrote PNG data to stdout")
		return nil
	}
	saved := s.output
	if abs, err := filepath.Abs(s.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if s.root != nil {
		s.root.notifySave(saved)
	}
	return nil
}

func (s *snapshotCmd) capture() (*image.RGBA, error) {
	opts := capture.CaptureOptions{
		IncludeDecorations: s.includeDecorations,
		IncludeCursor:      s.includeCursor,
	}
	switch s.mode {
	case "screen":
		return captureScreenshotFn(s.display, opts)
	case "window":
		return captureWindowFn(s.window, opts)
	case "region":
		if strings.TrimSpace(s.rect) == "" {
			return captureRegionFn(opts)
		}
		rect, err := parseRect(s.rect)
		if err != nil {
			return nil, err
		}
		return captureRegionRectFn(rect, opts)
	default:
		return nil, errors.New("unsupported capture mode")
	}
}

func (s *snapshotCmd) describeCapture() string {
	switch s.mode {
	case "screen":
		if target := strings.TrimSpace(s.display); target != "" {
			return fmt.Sprintf("screen %s", target)
		}
	case "window":
		if target := strings.TrimSpace(s.window); target != "" {
			return fmt.Sprintf("window %s", target)
		}
	case "region":
		if rect := strings.TrimSpace(s.rect); rect != "" {
			return fmt.Sprintf("region %s", rect)
		}
	}
	if s.mode == "" {
		return "capture"
	}
	return s.mode
}

func (s *snapshotCmd) shadowOptions() render.ShadowOptions {
	opts := render.DefaultShadowOptions()
	if s.shadowRadius >= 0 {
		opts.Radius = s.shadowRadius
	} else {
		opts.Radius = 0
	}
	opts.Offset = s.shadowPoint
	switch {
	case s.shadowOpacity <= 0:
		opts.Opacity = 0
	case s.shadowOpacity >= 1:
		opts.Opacity = 1
	default:
		opts.Opacity = s.shadowOpacity
	}
	return opts
}

func parseOffset(val string) (image.Point, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("invalid offset %q", val)
	}
	vals := make([]int, 2)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Point{}, fmt.Errorf("invalid offset %q", val)
		}
		vals[i] = v
	}
	return image.Pt(vals[0], vals[1]), nil
}

func formatOffset(pt image.Point) string {
	return fmt.Sprintf("%d,%d", pt.X, pt.Y)
}

func parseRect(val string) (image.Rectangle, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid region %q", val)
	}
	nums := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid region %q", val)
		}
		nums[i] = v
	}
	rect := image.Rect(nums[0], nums[1], nums[2], nums[3])
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %q is empty", val)
	}
	return rect, nil
}
