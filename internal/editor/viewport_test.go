package editor

import "testing"

func TestZoomLadderSnapping(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		zoomIn bool
		want   int
	}{
		{"in from 100", 100, true, 110},
		{"out from 100", 100, false, 90},
		{"in from off-ladder 105", 105, true, 110},
		{"out from off-ladder 105", 105, false, 100},
		{"in at max stays", 1600, true, 1600},
		{"out at min stays", 1, false, 1},
		{"in from min", 1, true, 2},
		{"out from max", 1600, false, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport()
			v.SetZoomPercent(tt.start)
			if tt.zoomIn {
				v.ZoomIn()
			} else {
				v.ZoomOut()
			}
			if got := v.ZoomPercent(); got != tt.want {
				t.Fatalf("zoom = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSetZoomPercentClamps(t *testing.T) {
	v := NewViewport()
	v.SetZoomPercent(0)
	if got := v.ZoomPercent(); got != ViewportZoomMinPercent {
		t.Fatalf("zoom = %d, want %d", got, ViewportZoomMinPercent)
	}
	v.SetZoomPercent(9000)
	if got := v.ZoomPercent(); got != ViewportZoomMaxPercent {
		t.Fatalf("zoom = %d, want %d", got, ViewportZoomMaxPercent)
	}
	v.SetZoomPercent(137)
	if got := v.ZoomPercent(); got != 137 {
		t.Fatalf("direct zoom should not snap, got %d", got)
	}
}

func TestPanAndActualSize(t *testing.T) {
	v := NewViewport()
	v.PanRight()
	v.PanRight()
	v.PanDown()
	v.PanLeft()
	if v.PanX() != 48 || v.PanY() != 48 {
		t.Fatalf("pan = (%d,%d), want (48,48)", v.PanX(), v.PanY())
	}
	v.SetZoomPercent(250)
	v.SetActualSize()
	if v.ZoomPercent() != 100 || v.PanX() != 0 || v.PanY() != 0 {
		t.Fatalf("actual size = %d%% (%d,%d), want 100%% (0,0)",
			v.ZoomPercent(), v.PanX(), v.PanY())
	}
}
