package annotation

import "errors"

// Tool errors are always recoverable; callers surface them as status
// text and leave the object list untouched.
var (
	ErrInvalidBlurRegion        = errors.New("invalid blur region")
	ErrInvalidArrowGeometry     = errors.New("invalid arrow geometry")
	ErrInvalidRectangleGeometry = errors.New("invalid rectangle geometry")
	ErrInvalidCropGeometry      = errors.New("invalid crop geometry")
	ErrEmptyPenStroke           = errors.New("pen stroke has no points")
	ErrPenStrokeNotFound        = errors.New("pen stroke not found")
	ErrObjectNotFound           = errors.New("object not found")
	ErrToolNotSelected          = errors.New("tool not selected")
)
