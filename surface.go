package lottieview

import (
	"image"
)

// Surface is the display collaborator that shows rendered frames.
type Surface interface {
	// SetGeometry places the playback viewport on the display.
	SetGeometry(rect image.Rectangle) error

	// Present shows a filled frame buffer and schedules a redraw.
	// The buffer stays owned by the view and is valid only for the
	// duration of the call.
	Present(buf *FrameBuffer) error
}
