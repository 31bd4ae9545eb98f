package editor

// Viewport is the zoom/pan state over the fixed pixel canvas. It is
// display-only state: changing it never records undo snapshots.
type Viewport struct {
	zoomPercent int
	panX, panY  int
}

const (
	ViewportZoomMinPercent = 1
	ViewportZoomMaxPercent = 1600
	viewportPanStepPx      = 48
)

// zoomLevelsPercent is the ladder zoom in/out steps snap to.
var zoomLevelsPercent = []int{
	1, 2, 3, 4, 5, 8, 10, 12, 16, 20, 25, 33, 50, 67, 75, 80, 90, 100,
	110, 125, 150, 175, 200, 250, 300, 400, 500, 600, 800, 1000, 1200, 1600,
}

// NewViewport starts at 100% with no pan offset.
func NewViewport() Viewport {
	return Viewport{zoomPercent: 100}
}

func (v *Viewport) ZoomPercent() int { return v.zoomPercent }
func (v *Viewport) PanX() int        { return v.panX }
func (v *Viewport) PanY() int        { return v.panY }

func clampZoomPercent(zoom int) int {
	if zoom < ViewportZoomMinPercent {
		return ViewportZoomMinPercent
	}
	if zoom > ViewportZoomMaxPercent {
		return ViewportZoomMaxPercent
	}
	return zoom
}

// ZoomIn snaps to the next ladder level above the current zoom.
func (v *Viewport) ZoomIn() {
	current := clampZoomPercent(v.zoomPercent)
	for _, level := range zoomLevelsPercent {
		if level > current {
			v.zoomPercent = level
			return
		}
	}
	v.zoomPercent = ViewportZoomMaxPercent
}

// ZoomOut snaps to the next ladder level below the current zoom.
func (v *Viewport) ZoomOut() {
	current := clampZoomPercent(v.zoomPercent)
	for i := len(zoomLevelsPercent) - 1; i >= 0; i-- {
		if zoomLevelsPercent[i] < current {
			v.zoomPercent = zoomLevelsPercent[i]
			return
		}
	}
	v.zoomPercent = ViewportZoomMinPercent
}

// SetZoomPercent clamps into the valid range without snapping.
func (v *Viewport) SetZoomPercent(zoom int) {
	v.zoomPercent = clampZoomPercent(zoom)
}

// SetActualSize resets to 100% at the origin.
func (v *Viewport) SetActualSize() {
	v.zoomPercent = 100
	v.panX = 0
	v.panY = 0
}

// PanBy shifts the pan offset.
func (v *Viewport) PanBy(dx, dy int) {
	v.panX += dx
	v.panY += dy
}

func (v *Viewport) PanLeft()  { v.PanBy(-viewportPanStepPx, 0) }
func (v *Viewport) PanRight() { v.PanBy(viewportPanStepPx, 0) }
func (v *Viewport) PanUp()    { v.PanBy(0, -viewportPanStepPx) }
func (v *Viewport) PanDown()  { v.PanBy(0, viewportPanStepPx) }
