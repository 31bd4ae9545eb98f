package render

import "image"

// blurKey identifies one blur computation. Any change to the source
// dimensions, the clamped region, or the intensity invalidates the
// cached pixels.
type blurKey struct {
	srcWidth, srcHeight       int
	regionX, regionY          int
	regionWidth, regionHeight int
	intensity                 uint8
}

type blurEntry struct {
	key    blurKey
	pixels *image.RGBA
}

// BlurCache memoizes blurred regions per blur object so unchanged
// objects cost nothing on redraw.
type BlurCache struct {
	entries map[uint64]blurEntry
}

func NewBlurCache() *BlurCache {
	return &BlurCache{entries: make(map[uint64]blurEntry)}
}

func makeBlurKey(srcBounds, region image.Rectangle, intensity uint8) blurKey {
	return blurKey{
		srcWidth:     srcBounds.Dx(),
		srcHeight:    srcBounds.Dy(),
		regionX:      region.Min.X,
		regionY:      region.Min.Y,
		regionWidth:  region.Dx(),
		regionHeight: region.Dy(),
		intensity:    intensity,
	}
}

// Lookup returns the cached pixels for id if they were computed with
// an identical key.
func (c *BlurCache) Lookup(id uint64, srcBounds, region image.Rectangle, intensity uint8) (*image.RGBA, bool) {
	entry, ok := c.entries[id]
	if !ok || entry.key != makeBlurKey(srcBounds, region, intensity) {
		return nil, false
	}
	return entry.pixels, true
}

func (c *BlurCache) Store(id uint64, srcBounds, region image.Rectangle, intensity uint8, pixels *image.RGBA) {
	c.entries[id] = blurEntry{key: makeBlurKey(srcBounds, region, intensity), pixels: pixels}
}

// Retain drops every entry whose id is not in ids. Called once per
// frame with the ids that were actually drawn.
func (c *BlurCache) Retain(ids map[uint64]struct{}) {
	for id := range c.entries {
		if _, ok := ids[id]; !ok {
			delete(c.entries, id)
		}
	}
}

func (c *BlurCache) Len() int { return len(c.entries) }
