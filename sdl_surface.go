package lottieview

import (
	"image"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
)

var mutexSdlInit = sync.Mutex{}
var sdlInited = false

func initSdl() {
	mutexSdlInit.Lock()
	defer mutexSdlInit.Unlock()

	if !sdlInited {
		sdl.Init(sdl.INIT_VIDEO)
		sdlInited = true
	}
}

type sdlSurface struct {
	window   *sdl.Window
	renderer *sdl.Renderer

	texture *sdl.Texture
	texW    int
	texH    int

	dstRect sdl.Rect
}

// NewSDLSurface creates a surface backed by an SDL window of the given
// size.
func NewSDLSurface(width int, height int) (Surface, error) {
	initSdl()

	window, renderer, err := sdl.CreateWindowAndRenderer(int32(width), int32(height), 0)
	if err != nil {
		return nil, err
	}

	return &sdlSurface{
		window:   window,
		renderer: renderer,
		dstRect:  sdl.Rect{X: 0, Y: 0, W: int32(width), H: int32(height)},
	}, nil
}

func (s *sdlSurface) SetGeometry(rect image.Rectangle) error {
	s.dstRect = sdl.Rect{
		X: int32(rect.Min.X),
		Y: int32(rect.Min.Y),
		W: int32(rect.Dx()),
		H: int32(rect.Dy()),
	}
	return nil
}

func (s *sdlSurface) Present(buf *FrameBuffer) error {
	if err := s.ensureTexture(buf.Width, buf.Height); err != nil {
		return err
	}

	texturePixels, textureBytePerLine, err := s.texture.Lock(nil)
	if err != nil {
		return err
	}

	rowSize := buf.Width * GetPixelSize(buf.PixFormat)
	for rowNum := 0; rowNum < buf.Height; rowNum++ {
		bufOffset := rowNum * buf.BytePerLine
		bufRow := buf.Data[bufOffset : bufOffset+rowSize]
		textureOffset := rowNum * textureBytePerLine
		textureRow := texturePixels[textureOffset : textureOffset+rowSize]
		copy(textureRow, bufRow)
	}
	s.texture.Unlock()

	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.Copy(s.texture, nil, &s.dstRect); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

func (s *sdlSurface) ensureTexture(width int, height int) error {
	if s.texture != nil && s.texW == width && s.texH == height {
		return nil
	}
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}

	// ABGR8888 matches the R,G,B,A byte order of the frame buffer.
	texture, err := s.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING, int32(width), int32(height))
	if err != nil {
		return err
	}
	s.texture = texture
	s.texW = width
	s.texH = height
	return nil
}
