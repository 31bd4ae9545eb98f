package config

import (
	"strings"
	"testing"

	"github.com/example/snapmark/internal/annotation"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme

[notify]
capture = true
save = false
copy = true

[ocr]
language = korean

[output]
save_dir = /tmp/screens
shadow = true
prune_max_age_hours = 48

[tools]
stroke_color = #FF3B30
stroke_thickness = 5
blur_intensity = 80
text_size = 24

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if !cfg.Notify.Capture {
		t.Error("Expected notify.capture to be true")
	}
	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}
	if cfg.OCR.Language != "korean" {
		t.Errorf("Expected ocr language 'korean', got '%s'", cfg.OCR.Language)
	}
	if cfg.Output.SaveDir != "/tmp/screens" {
		t.Errorf("Expected save_dir '/tmp/screens', got '%s'", cfg.Output.SaveDir)
	}
	if !cfg.Output.Shadow {
		t.Error("Expected output.shadow to be true")
	}
	if cfg.Output.PruneMaxAgeHours != 48 {
		t.Errorf("Expected prune_max_age_hours 48, got %d", cfg.Output.PruneMaxAgeHours)
	}
	if cfg.Tools.StrokeColor != "#FF3B30" {
		t.Errorf("Unexpected stroke color: %s", cfg.Tools.StrokeColor)
	}
	if cfg.Tools.StrokeThickness != 5 || cfg.Tools.BlurIntensity != 80 || cfg.Tools.TextSize != 24 {
		t.Errorf("Unexpected tool defaults: %+v", cfg.Tools)
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestParseBadValues(t *testing.T) {
	if _, err := Parse(strings.NewReader("[notify]\ncapture = maybe\n")); err == nil {
		t.Error("Expected error for bad boolean")
	}
	if _, err := Parse(strings.NewReader("[tools]\nstroke_thickness = wide\n")); err == nil {
		t.Error("Expected error for bad integer")
	}
	if _, err := Parse(strings.NewReader("[tools]\nstroke_color = red\n")); err == nil {
		t.Error("Expected error for bad color")
	}
}

func TestToolOptions(t *testing.T) {
	cfg := New()
	cfg.Tools.StrokeColor = "#00FF00"
	cfg.Tools.StrokeThickness = 7
	cfg.Tools.BlurIntensity = 90
	cfg.Tools.TextWeight = 700

	opts, err := cfg.ToolOptions()
	if err != nil {
		t.Fatalf("ToolOptions: %v", err)
	}
	tools := annotation.NewEditorTools(opts...)

	if got := tools.PenOptions(); got.Color != (annotation.Color{G: 255}) || got.Thickness != 7 {
		t.Errorf("Unexpected pen options: %+v", got)
	}
	if got := tools.BlurOptions().Intensity; got != 90 {
		t.Errorf("Blur intensity = %d, want 90", got)
	}
	if got := tools.TextOptions().Weight; got != 700 {
		t.Errorf("Text weight = %d, want 700", got)
	}
	// Unset fields keep the built-in defaults.
	if got := tools.ArrowOptions().HeadSize; got != annotation.DefaultArrowOptions().HeadSize {
		t.Errorf("Arrow head size = %d, want default", got)
	}
}

func TestToolOptionsBadColor(t *testing.T) {
	cfg := New()
	cfg.Tools.StrokeColor = "crimson"
	if _, err := cfg.ToolOptions(); err == nil {
		t.Error("Expected error for invalid stroke color")
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark

[notify]
capture = true
save = true
copy = false

[ocr]
language = en

[output]
save_dir = /home/user/shots
shadow = true
prune_max_age_hours = 12

[tools]
stroke_color = #FF0000
blur_intensity = 65

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if cfg.OCR != cfg2.OCR {
		t.Errorf("OCR mismatch: %+v vs %+v", cfg.OCR, cfg2.OCR)
	}
	if cfg.Output != cfg2.Output {
		t.Errorf("Output mismatch: %+v vs %+v", cfg.Output, cfg2.Output)
	}
	if cfg.Tools != cfg2.Tools {
		t.Errorf("Tools mismatch: %+v vs %+v", cfg.Tools, cfg2.Tools)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if t1.Background != t2.Background {
		t.Errorf("Theme background mismatch: %v vs %v", t1.Background, t2.Background)
	}
}
