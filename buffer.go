package lottieview

import (
	"image"
)

// FrameBuffer contains the pixels of one rendered animation frame.
// It is owned by the view that created it; render operations overwrite
// it in place.
type FrameBuffer struct {
	Data        []byte
	Width       int
	Height      int
	BytePerLine int
	PixFormat   PixelFormat
}

// NewFrameBuffer allocates a frame buffer for the given viewport size.
// Rendering always happens in RGB32, surfaces convert on present if the
// scanout format differs.
func NewFrameBuffer(width int, height int) *FrameBuffer {
	bytePerLine := width * GetPixelSize(RGB32)
	return &FrameBuffer{
		Data:        make([]byte, bytePerLine*height),
		Width:       width,
		Height:      height,
		BytePerLine: bytePerLine,
		PixFormat:   RGB32,
	}
}

// Clear fills the buffer with fully transparent pixels.
func (buf *FrameBuffer) Clear() {
	for i := range buf.Data {
		buf.Data[i] = 0
	}
}

// Bounds returns the pixel rectangle of the buffer.
func (buf *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, buf.Width, buf.Height)
}

// RGBA wraps the buffer storage as an image.RGBA sharing the same pixels.
func (buf *FrameBuffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    buf.Data,
		Stride: buf.BytePerLine,
		Rect:   buf.Bounds(),
	}
}
