package lottieview

import (
	"errors"
	"fmt"
	"image"
	"os"
	"syscall"

	drm "github.com/rmcsoft/godrm"
	"github.com/rmcsoft/godrm/mode"
)

type drmFramebuffer struct {
	handle      uint32
	id          uint32
	buf         []byte
	bytePerLine int
}

// kmsdrmSurface scans rendered frames out through a KMS/DRM dumb
// buffer. Two framebuffers are kept, Present blits into the hidden one
// and flips.
type kmsdrmSurface struct {
	card    *os.File
	modeset mode.Modeset

	pixFormat PixelFormat
	pixSize   int

	framebuffers        []*drmFramebuffer
	frontFrameBufferNum int

	viewport image.Rectangle
}

// NewKMSDRMSurface creates a surface scanning out on the given DRM
// card. pixFormat selects the scanout format, frame buffers are
// converted on present when it is RGB16.
func NewKMSDRMSurface(cardNum int, pixFormat PixelFormat) (Surface, error) {
	card, err := drm.OpenCard(cardNum)
	if err != nil {
		return nil, err
	}

	if !drm.HasDumbBuffer(card) {
		return nil, fmt.Errorf("drm device %v does not support dumb buffers", cardNum)
	}

	surface := kmsdrmSurface{
		card:      card,
		pixFormat: pixFormat,
		pixSize:   GetPixelSize(pixFormat),
	}

	simpleMSet, err := mode.NewSimpleModeset(card)
	if err != nil {
		return nil, err
	}

	if len(simpleMSet.Modesets) == 0 {
		return nil, errors.New("Modesets is empty")
	}

	surface.modeset = simpleMSet.Modesets[0]
	surface.viewport = image.Rect(0, 0,
		int(surface.modeset.Width), int(surface.modeset.Height))

	surface.framebuffers = []*drmFramebuffer{}
	for i := 0; i < 2; i++ {
		framebuffer, err := surface.createFramebuffer()
		if err != nil {
			return nil, err
		}
		surface.framebuffers = append(surface.framebuffers, framebuffer)
	}

	return &surface, nil
}

func (s *kmsdrmSurface) SetGeometry(rect image.Rectangle) error {
	s.viewport = rect
	return nil
}

func (s *kmsdrmSurface) Present(buf *FrameBuffer) error {
	backNum := (s.frontFrameBufferNum + 1) % len(s.framebuffers)
	back := s.framebuffers[backNum]

	s.blit(back, buf)

	err := mode.SetCrtc(s.card, s.modeset.Crtc, back.id,
		0, 0, &s.modeset.Conn, 1, &s.modeset.Mode)
	if err != nil {
		return err
	}

	s.frontFrameBufferNum = backNum
	return nil
}

// blit copies the frame buffer into the scanout buffer at the viewport
// origin, converting the pixel format when the scanout is 16-bit.
func (s *kmsdrmSurface) blit(fb *drmFramebuffer, buf *FrameBuffer) {
	screen := image.Rect(0, 0, int(s.modeset.Width), int(s.modeset.Height))
	target := image.Rect(s.viewport.Min.X, s.viewport.Min.Y,
		s.viewport.Min.X+buf.Width, s.viewport.Min.Y+buf.Height)
	visible := screen.Intersect(target)
	if visible.Empty() {
		return
	}

	for row := visible.Min.Y; row < visible.Max.Y; row++ {
		srcRow := row - target.Min.Y
		srcOffset := srcRow*buf.BytePerLine + (visible.Min.X-target.Min.X)*4
		dstOffset := row*fb.bytePerLine + visible.Min.X*s.pixSize

		src := buf.Data[srcOffset:]
		dst := fb.buf[dstOffset:]
		for x := 0; x < visible.Dx(); x++ {
			r := src[x*4]
			g := src[x*4+1]
			b := src[x*4+2]

			if s.pixFormat == RGB16 {
				pix := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
				dst[x*2] = byte(pix)
				dst[x*2+1] = byte(pix >> 8)
			} else {
				// XRGB8888, little endian
				dst[x*4] = b
				dst[x*4+1] = g
				dst[x*4+2] = r
				dst[x*4+3] = 0xff
			}
		}
	}
}

func (s *kmsdrmSurface) createFramebuffer() (*drmFramebuffer, error) {

	fb := &drmFramebuffer{}
	var err error

	defer func() {
		if err != nil {
			s.destroyFramebuffer(fb)
		}
	}()

	width := s.modeset.Width
	height := s.modeset.Height
	bpp := GetPixelSize(s.pixFormat) * 8
	depth := GetPixelDepth(s.pixFormat)

	fbInfo, err := mode.CreateFB(s.card, uint16(width), uint16(height), uint32(bpp))
	if err != nil {
		return nil, err
	}

	fb.handle = fbInfo.Handle
	fb.bytePerLine = int(fbInfo.Pitch)
	fb.id, err = mode.AddFB(s.card, uint16(width), uint16(height),
		uint8(depth), uint8(bpp), fbInfo.Pitch, fb.handle)
	if err != nil {
		return nil, err
	}

	offset, err := mode.MapDumb(s.card, fb.handle)
	if err != nil {
		return nil, err
	}

	fb.buf, err = syscall.Mmap(int(s.card.Fd()), int64(offset), int(fbInfo.Size),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return fb, err
}

func (s *kmsdrmSurface) destroyFramebuffer(fb *drmFramebuffer) {
	if fb != nil && s.card != nil {
		if fb.id != 0 {
			mode.RmFB(s.card, fb.id)
			fb.id = 0
		}

		if fb.handle != 0 {
			mode.DestroyDumb(s.card, fb.handle)
			fb.handle = 0
		}

		if fb.buf != nil {
			syscall.Munmap(fb.buf)
			fb.buf = nil
		}
	}
}
