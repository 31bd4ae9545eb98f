package render

import (
	"image"
	"image/color"
	"testing"
)

func TestSigmaForIntensity(t *testing.T) {
	tests := []struct {
		intensity uint8
		want      float64
	}{
		{1, 1.0},
		{100, 16.0},
		{0, 1.0},
	}
	for _, tt := range tests {
		if got := SigmaForIntensity(tt.intensity); got != tt.want {
			t.Fatalf("SigmaForIntensity(%d) = %v, want %v", tt.intensity, got, tt.want)
		}
	}
	mid := SigmaForIntensity(55)
	if mid <= 1.0 || mid >= 16.0 {
		t.Fatalf("SigmaForIntensity(55) = %v, want a value strictly between 1 and 16", mid)
	}
}

func TestDownsampleFactor(t *testing.T) {
	tests := []struct {
		name  string
		area  int
		sigma float64
		want  int
	}{
		{"small region", 10000, 12, 1},
		{"mild sigma", 500000, 5, 1},
		{"huge and strong", 262144, 10, 4},
		{"large and strong", 65536, 8, 3},
		{"medium", 40000, 7, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := downsampleFactor(tt.area, tt.sigma); got != tt.want {
				t.Fatalf("downsampleFactor(%d, %v) = %d, want %d", tt.area, tt.sigma, got, tt.want)
			}
		})
	}
}

func TestGaussianBlurPreservesUniformRegions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	out := GaussianBlurRGBA(img, 6)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), img.Bounds())
	}
	for i, v := range out.Pix {
		if v != 200 {
			t.Fatalf("pix[%d] = %d, want 200; uniform input must stay uniform", i, v)
		}
	}
}

func TestGaussianBlurSmoothsEdges(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if x < 20 {
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	out := GaussianBlurRGBA(img, 4)
	edge := out.RGBAAt(20, 20)
	if edge.R == 0 || edge.R == 255 {
		t.Fatalf("edge pixel R = %d, want an intermediate value", edge.R)
	}
}

func TestBlurRegionDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	rect := image.Rect(100, 50, 500, 400)

	full := BlurRegion(img, rect, 90, false)
	if full.Bounds().Dx() != 400 || full.Bounds().Dy() != 350 {
		t.Fatalf("full-res dims = %v, want 400x350", full.Bounds())
	}

	// High intensity on a large region takes the downsample path; the
	// upscaled result must still match the region size exactly.
	preview := BlurRegion(img, rect, 90, true)
	if preview.Bounds().Dx() != 400 || preview.Bounds().Dy() != 350 {
		t.Fatalf("preview dims = %v, want 400x350", preview.Bounds())
	}
}

func TestBlurRegionClampsToImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	out := BlurRegion(img, image.Rect(80, 80, 200, 200), 50, false)
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 20 {
		t.Fatalf("clamped dims = %v, want 20x20", out.Bounds())
	}
	empty := BlurRegion(img, image.Rect(200, 200, 300, 300), 50, false)
	if !empty.Bounds().Empty() {
		t.Fatalf("out-of-range region should produce an empty image, got %v", empty.Bounds())
	}
}

func TestBlurCacheRoundTrip(t *testing.T) {
	cache := NewBlurCache()
	src := image.Rect(0, 0, 800, 600)
	region := image.Rect(10, 10, 110, 110)
	pixels := image.NewRGBA(image.Rect(0, 0, 100, 100))

	if _, ok := cache.Lookup(7, src, region, 55); ok {
		t.Fatalf("lookup on empty cache should miss")
	}
	cache.Store(7, src, region, 55, pixels)
	got, ok := cache.Lookup(7, src, region, 55)
	if !ok || got != pixels {
		t.Fatalf("lookup after store should hit with the same pixels")
	}

	// Any key component change misses.
	if _, ok := cache.Lookup(7, src, region, 60); ok {
		t.Fatalf("intensity change must invalidate the entry")
	}
	if _, ok := cache.Lookup(7, src, image.Rect(10, 10, 120, 110), 55); ok {
		t.Fatalf("region change must invalidate the entry")
	}
}

func TestBlurCacheRetain(t *testing.T) {
	cache := NewBlurCache()
	src := image.Rect(0, 0, 100, 100)
	region := image.Rect(0, 0, 10, 10)
	pixels := image.NewRGBA(image.Rect(0, 0, 10, 10))
	cache.Store(1, src, region, 50, pixels)
	cache.Store(2, src, region, 50, pixels)
	cache.Store(3, src, region, 50, pixels)

	cache.Retain(map[uint64]struct{}{2: {}})
	if cache.Len() != 1 {
		t.Fatalf("len = %d, want 1", cache.Len())
	}
	if _, ok := cache.Lookup(2, src, region, 50); !ok {
		t.Fatalf("retained id should still hit")
	}
	if _, ok := cache.Lookup(1, src, region, 50); ok {
		t.Fatalf("evicted id should miss")
	}
}
