package render

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// SigmaForIntensity maps the blur intensity option onto a gaussian
// sigma, linearly from 1.0 at intensity 1 to 16.0 at intensity 100.
func SigmaForIntensity(intensity uint8) float64 {
	if intensity < 1 {
		intensity = 1
	}
	if intensity > 100 {
		intensity = 100
	}
	return 1.0 + float64(intensity-1)/99.0*15.0
}

// downsampleFactor picks how aggressively a preview blur may shrink
// the region before blurring. Small regions and mild sigmas stay at
// full resolution.
func downsampleFactor(area int, sigma float64) int {
	switch {
	case area < 32768 || sigma < 6:
		return 1
	case area >= 262144 && sigma >= 10:
		return 4
	case area >= 65536 && sigma >= 8:
		return 3
	default:
		return 2
	}
}

// boxRadiiForGauss derives the three box-blur radii whose composition
// approximates a gaussian with the given sigma.
func boxRadiiForGauss(sigma float64) [3]int {
	const passes = 3
	ideal := math.Sqrt(12*sigma*sigma/passes + 1)
	wl := int(math.Floor(ideal))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2
	mIdeal := (12*sigma*sigma - float64(passes*wl*wl) - float64(4*passes*wl) - float64(3*passes)) /
		(-4*float64(wl) - 4)
	m := int(math.Round(mIdeal))

	var radii [3]int
	for i := 0; i < passes; i++ {
		w := wu
		if i < m {
			w = wl
		}
		if w < 1 {
			w = 1
		}
		radii[i] = (w - 1) / 2
	}
	return radii
}

// GaussianBlurRGBA blurs src with three box-blur passes approximating
// a gaussian of the given sigma. The result has the same dimensions
// as src, rebased at the origin.
func GaussianBlurRGBA(src *image.RGBA, sigma float64) *image.RGBA {
	out := rebasedCopy(src)
	if sigma <= 0 || out.Bounds().Empty() {
		return out
	}
	tmp := image.NewRGBA(out.Bounds())
	for _, radius := range boxRadiiForGauss(sigma) {
		if radius < 1 {
			continue
		}
		boxBlurHorizontal(out, tmp, radius)
		boxBlurVertical(tmp, out, radius)
	}
	return out
}

func rebasedCopy(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()*4], srcRow[:b.Dx()*4])
	}
	return out
}

// boxBlurHorizontal averages each channel over a running window using
// per-row prefix sums, the same scheme the shadow mask blur uses.
func boxBlurHorizontal(src, dst *image.RGBA, radius int) {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	prefix := make([][4]int, w+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			for ch := 0; ch < 4; ch++ {
				prefix[x+1][ch] = prefix[x][ch] + int(row[x*4+ch])
			}
		}
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			x0 := x - radius
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + radius
			if x1 >= w {
				x1 = w - 1
			}
			count := x1 - x0 + 1
			for ch := 0; ch < 4; ch++ {
				out[x*4+ch] = uint8((prefix[x1+1][ch] - prefix[x0][ch]) / count)
			}
		}
	}
}

func boxBlurVertical(src, dst *image.RGBA, radius int) {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	prefix := make([][4]int, h+1)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			px := src.Pix[y*src.Stride+x*4:]
			for ch := 0; ch < 4; ch++ {
				prefix[y+1][ch] = prefix[y][ch] + int(px[ch])
			}
		}
		for y := 0; y < h; y++ {
			y0 := y - radius
			if y0 < 0 {
				y0 = 0
			}
			y1 := y + radius
			if y1 >= h {
				y1 = h - 1
			}
			count := y1 - y0 + 1
			out := dst.Pix[y*dst.Stride+x*4:]
			for ch := 0; ch < 4; ch++ {
				out[ch] = uint8((prefix[y1+1][ch] - prefix[y0][ch]) / count)
			}
		}
	}
}

// BlurRegion extracts rect from src and returns it blurred at the
// sigma for intensity. Preview renders may downsample large regions
// before blurring and scale back up; output renders always blur at
// full resolution.
func BlurRegion(src *image.RGBA, rect image.Rectangle, intensity uint8, preview bool) *image.RGBA {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	region := rebasedCopy(src.SubImage(rect).(*image.RGBA))
	sigma := SigmaForIntensity(intensity)

	factor := 1
	if preview {
		factor = downsampleFactor(rect.Dx()*rect.Dy(), sigma)
	}
	if factor == 1 {
		return GaussianBlurRGBA(region, sigma)
	}

	smallW := rect.Dx() / factor
	smallH := rect.Dy() / factor
	if smallW < 1 {
		smallW = 1
	}
	if smallH < 1 {
		smallH = 1
	}
	small := image.NewRGBA(image.Rect(0, 0, smallW, smallH))
	xdraw.BiLinear.Scale(small, small.Bounds(), region, region.Bounds(), xdraw.Src, nil)

	smallSigma := sigma / float64(factor)
	if smallSigma < 0.8 {
		smallSigma = 0.8
	}
	blurred := GaussianBlurRGBA(small, smallSigma)

	full := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.BiLinear.Scale(full, full.Bounds(), blurred, blurred.Bounds(), xdraw.Src, nil)
	return full
}
