package lottieview

import (
	"image"
)

type nullSurface struct {
}

// NullSurface returns a surface that discards every frame.
func NullSurface() Surface {
	return nullSurface{}
}

func (nullSurface) SetGeometry(rect image.Rectangle) error {
	return nil
}

func (nullSurface) Present(buf *FrameBuffer) error {
	return nil
}
