package lottieview

import (
	"image/color"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
)

const demoFrameRate = 60
const demoTotalFrames = 120

// DemoSource is a procedurally generated animation: a ball bouncing
// over a gradient sky. It implements AnimationSource and is used by the
// example programs in place of a real asset parser.
type DemoSource struct {
	width  float32
	height float32
}

// NewDemoSource creates a demo source for the given viewport size.
func NewDemoSource(width int, height int) *DemoSource {
	return &DemoSource{
		width:  float32(width),
		height: float32(height),
	}
}

// Load ignores the path, the animation is generated.
func (s *DemoSource) Load(path string) (Info, error) {
	return Info{
		FrameRate:   demoFrameRate,
		TotalFrames: demoTotalFrames,
	}, nil
}

// NodesAt builds the scene at the given normalized position.
func (s *DemoSource) NodesAt(pos float64) ([]*SceneNode, error) {
	w := s.width
	h := s.height
	groundY := h * 0.85

	skyTop := colorful.Hsv(230, 0.7, 0.25)
	skyBottom := colorful.Hsv(200+30*pos, 0.5, 0.6)

	sky := &SceneNode{
		Key:  "sky",
		Path: rectPath(0, 0, w, groundY),
		Gradient: &Gradient{
			Start: Point{X: 0, Y: 0},
			End:   Point{X: 0, Y: groundY},
			Stops: []GradientStop{
				{Pos: 0, Color: skyTop},
				{Pos: 1, Color: skyBottom},
			},
		},
		Opacity: 1,
	}

	ground := &SceneNode{
		Key:     "ground",
		Path:    rectPath(0, groundY, w, h),
		Fill:    color.NRGBA{R: 0x30, G: 0x50, B: 0x28, A: 0xff},
		Opacity: 1,
	}

	radius := h * 0.06
	drop := float32(ease.OutBounce(pos))
	ballX := w*0.15 + (w*0.7)*float32(ease.InOutSine(pos))
	ballY := radius*2 + (groundY-radius*3)*drop

	shadow := &SceneNode{
		Key:     "shadow",
		Path:    ellipsePath(ballX, groundY, radius*1.4, radius*0.35),
		Fill:    color.NRGBA{A: 0xff},
		Opacity: 0.1 + 0.35*float64(drop),
	}

	r, g, b := colorful.Hsv(20+40*pos, 0.9, 0.9).RGB255()
	ball := &SceneNode{
		Key:     "ball",
		Path:    ellipsePath(ballX, ballY, radius, radius),
		Fill:    color.NRGBA{R: r, G: g, B: b, A: 0xff},
		Opacity: 1,
	}

	return []*SceneNode{sky, ground, shadow, ball}, nil
}

func rectPath(x0, y0, x1, y1 float32) []PathElement {
	return []PathElement{
		{Verb: PathMoveTo, Pts: [3]Point{{X: x0, Y: y0}}},
		{Verb: PathLineTo, Pts: [3]Point{{X: x1, Y: y0}}},
		{Verb: PathLineTo, Pts: [3]Point{{X: x1, Y: y1}}},
		{Verb: PathLineTo, Pts: [3]Point{{X: x0, Y: y1}}},
		{Verb: PathClose},
	}
}

// ellipsePath approximates an ellipse with four cubic beziers.
func ellipsePath(cx, cy, rx, ry float32) []PathElement {
	const kappa = 0.5522848
	kx := rx * kappa
	ky := ry * kappa

	return []PathElement{
		{Verb: PathMoveTo, Pts: [3]Point{{X: cx + rx, Y: cy}}},
		{Verb: PathCubeTo, Pts: [3]Point{
			{X: cx + rx, Y: cy + ky}, {X: cx + kx, Y: cy + ry}, {X: cx, Y: cy + ry}}},
		{Verb: PathCubeTo, Pts: [3]Point{
			{X: cx - kx, Y: cy + ry}, {X: cx - rx, Y: cy + ky}, {X: cx - rx, Y: cy}}},
		{Verb: PathCubeTo, Pts: [3]Point{
			{X: cx - rx, Y: cy - ky}, {X: cx - kx, Y: cy - ry}, {X: cx, Y: cy - ry}}},
		{Verb: PathCubeTo, Pts: [3]Point{
			{X: cx + kx, Y: cy - ry}, {X: cx + rx, Y: cy - ky}, {X: cx + rx, Y: cy}}},
		{Verb: PathClose},
	}
}
