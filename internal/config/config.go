package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
}

// OCR holds text recognition settings.
type OCR struct {
	// Language is a recognition language name such as "korean" or
	// "en". Empty means detect from the system locale.
	Language string
}

// Output holds save and export settings.
type Output struct {
	SaveDir          string
	TempDir          string
	Shadow           bool
	PruneMaxAgeHours int
}

// Tools holds the startup defaults for the annotation tools.
type Tools struct {
	StrokeColor     string // hex, e.g. #FF3B30
	StrokeThickness int
	BlurIntensity   int
	PenOpacity      int
	ArrowHeadSize   int
	TextSize        int
	TextWeight      int
}

// Config holds the application configuration.
type Config struct {
	Theme  string
	Notify Notify
	OCR    OCR
	Output Output
	Tools  Tools
	Themes map[string]*theme.Theme
}

// New creates a Config with defaults. Zero tool values mean "keep the
// built-in default" so an empty config file changes nothing.
func New() *Config {
	return &Config{
		Output: Output{PruneMaxAgeHours: 24},
		Themes: make(map[string]*theme.Theme),
	}
}

// ToolOptions converts the configured tool defaults into annotation
// options, skipping anything left unset.
func (c *Config) ToolOptions() ([]annotation.Option, error) {
	blur := annotation.DefaultBlurOptions()
	pen := annotation.DefaultPenOptions()
	arrow := annotation.DefaultArrowOptions()
	rect := annotation.DefaultRectangleOptions()
	text := annotation.DefaultTextOptions()

	if c.Tools.StrokeColor != "" {
		rgba, err := parseColor(c.Tools.StrokeColor)
		if err != nil {
			return nil, fmt.Errorf("stroke_color: %w", err)
		}
		col := annotation.Color{R: rgba.R, G: rgba.G, B: rgba.B}
		pen.Color = col
		arrow.Color = col
		rect.Color = col
		text.Color = col
	}
	if v := c.Tools.StrokeThickness; v > 0 {
		pen.Thickness = uint8(v)
		arrow.Thickness = uint8(v)
		rect.Thickness = uint8(v)
	}
	if v := c.Tools.BlurIntensity; v > 0 {
		blur.Intensity = uint8(v)
	}
	if v := c.Tools.PenOpacity; v > 0 {
		pen.Opacity = uint8(v)
	}
	if v := c.Tools.ArrowHeadSize; v > 0 {
		arrow.HeadSize = uint8(v)
	}
	if v := c.Tools.TextSize; v > 0 {
		text.Size = uint8(v)
	}
	if v := c.Tools.TextWeight; v > 0 {
		text.Weight = uint16(v)
	}

	return []annotation.Option{
		annotation.WithBlurOptions(blur),
		annotation.WithPenOptions(pen),
		annotation.WithArrowOptions(arrow),
		annotation.WithRectangleOptions(rect),
		annotation.WithTextOptions(text),
	}, nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[ocr]\n")
	if c.OCR.Language != "" {
		fmt.Fprintf(&sb, "language = %s\n", c.OCR.Language)
	}
	sb.WriteString("\n")

	sb.WriteString("[output]\n")
	if c.Output.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.Output.SaveDir)
	}
	if c.Output.TempDir != "" {
		fmt.Fprintf(&sb, "temp_dir = %s\n", c.Output.TempDir)
	}
	fmt.Fprintf(&sb, "shadow = %v\n", c.Output.Shadow)
	fmt.Fprintf(&sb, "prune_max_age_hours = %d\n", c.Output.PruneMaxAgeHours)
	sb.WriteString("\n")

	sb.WriteString("[tools]\n")
	if c.Tools.StrokeColor != "" {
		fmt.Fprintf(&sb, "stroke_color = %s\n", c.Tools.StrokeColor)
	}
	writeIfSet := func(key string, v int) {
		if v > 0 {
			fmt.Fprintf(&sb, "%s = %d\n", key, v)
		}
	}
	writeIfSet("stroke_thickness", c.Tools.StrokeThickness)
	writeIfSet("blur_intensity", c.Tools.BlurIntensity)
	writeIfSet("pen_opacity", c.Tools.PenOpacity)
	writeIfSet("arrow_head_size", c.Tools.ArrowHeadSize)
	writeIfSet("text_size", c.Tools.TextSize)
	writeIfSet("text_weight", c.Tools.TextWeight)
	sb.WriteString("\n")

	// Themes sections, sorted for deterministic output.
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		fmt.Fprintf(&sb, "Background: %s\n", toHex(t.Background))
		fmt.Fprintf(&sb, "Foreground: %s\n", toHex(t.Foreground))
		fmt.Fprintf(&sb, "ToolbarBackground: %s\n", toHex(t.ToolbarBackground))
		fmt.Fprintf(&sb, "TabBackground: %s\n", toHex(t.TabBackground))
		fmt.Fprintf(&sb, "TabActive: %s\n", toHex(t.TabActive))
		fmt.Fprintf(&sb, "TabHover: %s\n", toHex(t.TabHover))
		fmt.Fprintf(&sb, "TabText: %s\n", toHex(t.TabText))
		fmt.Fprintf(&sb, "TabTextActive: %s\n", toHex(t.TabTextActive))
		fmt.Fprintf(&sb, "TabTextHover: %s\n", toHex(t.TabTextHover))
		fmt.Fprintf(&sb, "ButtonBackground: %s\n", toHex(t.ButtonBackground))
		fmt.Fprintf(&sb, "ButtonBackgroundHover: %s\n", toHex(t.ButtonBackgroundHover))
		fmt.Fprintf(&sb, "ButtonBackgroundPress: %s\n", toHex(t.ButtonBackgroundPress))
		fmt.Fprintf(&sb, "ButtonText: %s\n", toHex(t.ButtonText))
		fmt.Fprintf(&sb, "ButtonTextHover: %s\n", toHex(t.ButtonTextHover))
		fmt.Fprintf(&sb, "ButtonTextPress: %s\n", toHex(t.ButtonTextPress))
		fmt.Fprintf(&sb, "ButtonBorder: %s\n", toHex(t.ButtonBorder))
		fmt.Fprintf(&sb, "CheckerLight: %s\n", toHex(t.CheckerLight))
		fmt.Fprintf(&sb, "CheckerDark: %s\n", toHex(t.CheckerDark))
		sb.WriteString("\n")
	}

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
