package geometry

import "testing"

func TestNormalizeBoxRejectsDegenerateDrags(t *testing.T) {
	tests := []struct {
		name       string
		start, end Point
	}{
		{"same point", Point{X: 10, Y: 10}, Point{X: 10, Y: 10}},
		{"zero width", Point{X: 10, Y: 10}, Point{X: 10, Y: 40}},
		{"zero height", Point{X: 10, Y: 10}, Point{X: 40, Y: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := NormalizeBox(tt.start, tt.end); ok {
				t.Fatalf("NormalizeBox(%v, %v) accepted a degenerate drag", tt.start, tt.end)
			}
		})
	}
}

func TestNormalizeBoxSpansMinCorner(t *testing.T) {
	got, ok := NormalizeBox(Point{X: 50, Y: 40}, Point{X: 10, Y: 90})
	if !ok {
		t.Fatal("NormalizeBox rejected a valid drag")
	}
	want := Bounds{X: 10, Y: 40, Width: 40, Height: 50}
	if got != want {
		t.Fatalf("NormalizeBox = %+v, want %+v", got, want)
	}
}

func TestPointInBoundsPadding(t *testing.T) {
	b := Bounds{X: 10, Y: 10, Width: 20, Height: 20}
	tests := []struct {
		name    string
		p       Point
		padding int
		want    bool
	}{
		{"inside", Point{X: 15, Y: 15}, 0, true},
		{"on edge", Point{X: 30, Y: 30}, 0, true},
		{"just outside", Point{X: 33, Y: 15}, 0, false},
		{"inside padding", Point{X: 33, Y: 15}, 4, true},
		{"outside padding", Point{X: 35, Y: 15}, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInBounds(tt.p, b, tt.padding); got != tt.want {
				t.Fatalf("PointInBounds(%v, pad=%d) = %v, want %v", tt.p, tt.padding, got, tt.want)
			}
		})
	}
}

func TestBoundsIntersect(t *testing.T) {
	a := Bounds{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    Bounds
		want bool
	}{
		{"overlap", Bounds{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"touching edges", Bounds{X: 10, Y: 0, Width: 10, Height: 10}, false},
		{"disjoint", Bounds{X: 30, Y: 30, Width: 5, Height: 5}, false},
		{"contained", Bounds{X: 2, Y: 2, Width: 3, Height: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundsIntersect(a, tt.b); got != tt.want {
				t.Fatalf("BoundsIntersect(%+v, %+v) = %v, want %v", a, tt.b, got, tt.want)
			}
		})
	}
}

func TestHandleAtPointFindsCornersOnly(t *testing.T) {
	b := Bounds{X: 100, Y: 100, Width: 60, Height: 40}
	tests := []struct {
		name   string
		p      Point
		handle Handle
		hit    bool
	}{
		{"top-left exact", Point{X: 100, Y: 100}, HandleTopLeft, true},
		{"top-left within radius", Point{X: 92, Y: 108}, HandleTopLeft, true},
		{"top-right", Point{X: 160, Y: 100}, HandleTopRight, true},
		{"bottom-left", Point{X: 100, Y: 140}, HandleBottomLeft, true},
		{"bottom-right", Point{X: 166, Y: 146}, HandleBottomRight, true},
		{"interior center", Point{X: 130, Y: 120}, 0, false},
		{"at radius edge", Point{X: 100, Y: 108}, HandleTopLeft, true},
		{"beyond radius", Point{X: 100, Y: 109}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := HandleAtPoint(b, tt.p)
			if ok != tt.hit {
				t.Fatalf("HandleAtPoint(%v) hit = %v, want %v", tt.p, ok, tt.hit)
			}
			if ok && h != tt.handle {
				t.Fatalf("HandleAtPoint(%v) = %v, want %v", tt.p, h, tt.handle)
			}
		})
	}
}

func TestResizedBoundsFromHandleClampsToImage(t *testing.T) {
	b := Bounds{X: 10, Y: 10, Width: 100, Height: 60}
	got, ok := ResizedBoundsFromHandle(b, HandleTopLeft, Point{X: -30, Y: -20}, ImageBounds{Width: 120, Height: 80})
	if !ok {
		t.Fatal("ResizedBoundsFromHandle rejected a valid resize")
	}
	want := Bounds{X: 0, Y: 0, Width: 110, Height: 70}
	if got != want {
		t.Fatalf("ResizedBoundsFromHandle = %+v, want %+v", got, want)
	}
}

func TestResizedBoundsFromHandleRejectsBelowMinimum(t *testing.T) {
	b := Bounds{X: 10, Y: 10, Width: 100, Height: 60}
	if _, ok := ResizedBoundsFromHandle(b, HandleBottomRight, Point{X: 12, Y: 12}, ImageBounds{Width: 120, Height: 80}); ok {
		t.Fatal("expected a 2x2 resize to be rejected")
	}
}

func TestResizedCropFromHandleSnapsRatio(t *testing.T) {
	b := Bounds{X: 0, Y: 0, Width: 160, Height: 160}
	got, ok := ResizedCropFromHandle(b, HandleBottomRight, Point{X: 160, Y: 160}, ImageBounds{Width: 400, Height: 400}, 16, 9)
	if !ok {
		t.Fatal("ResizedCropFromHandle rejected a valid resize")
	}
	want := Bounds{X: 0, Y: 0, Width: 160, Height: 90}
	if got != want {
		t.Fatalf("ResizedCropFromHandle = %+v, want %+v", got, want)
	}
}

func TestResizedCropFromHandleRejectsBelowCropMinimum(t *testing.T) {
	b := Bounds{X: 20, Y: 20, Width: 100, Height: 100}
	if _, ok := ResizedCropFromHandle(b, HandleBottomRight, Point{X: 30, Y: 30}, ImageBounds{Width: 200, Height: 200}, 0, 0); ok {
		t.Fatal("expected a crop below the minimum size to be rejected")
	}
}

func TestAdjustRatioToFit(t *testing.T) {
	tests := []struct {
		name                  string
		w, h, rx, ry          int
		wantWidth, wantHeight int
	}{
		{"shrink width", 400, 120, 16, 9, 213, 120},
		{"shrink height", 120, 400, 16, 9, 120, 67},
		{"already matching", 160, 90, 16, 9, 160, 90},
		{"square", 100, 40, 1, 1, 40, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := AdjustRatioToFit(tt.w, tt.h, tt.rx, tt.ry)
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Fatalf("AdjustRatioToFit(%d,%d,%d,%d) = (%d,%d), want (%d,%d)",
					tt.w, tt.h, tt.rx, tt.ry, w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestOppositeCorner(t *testing.T) {
	b := Bounds{X: 10, Y: 20, Width: 30, Height: 40}
	tests := []struct {
		h    Handle
		want Point
	}{
		{HandleTopLeft, Point{X: 40, Y: 60}},
		{HandleTopRight, Point{X: 10, Y: 60}},
		{HandleBottomLeft, Point{X: 40, Y: 20}},
		{HandleBottomRight, Point{X: 10, Y: 20}},
	}
	for _, tt := range tests {
		if got := OppositeCorner(b, tt.h); got != tt.want {
			t.Errorf("OppositeCorner(%v) = %v, want %v", tt.h, got, tt.want)
		}
	}
}

func TestClampPoint(t *testing.T) {
	img := ImageBounds{Width: 100, Height: 50}
	tests := []struct {
		p, want Point
	}{
		{Point{X: -5, Y: -5}, Point{X: 0, Y: 0}},
		{Point{X: 150, Y: 80}, Point{X: 99, Y: 49}},
		{Point{X: 40, Y: 20}, Point{X: 40, Y: 20}},
	}
	for _, tt := range tests {
		if got := ClampPoint(tt.p, img); got != tt.want {
			t.Errorf("ClampPoint(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
