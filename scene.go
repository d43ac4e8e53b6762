package lottieview

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"
)

// sceneShape is the persistent render object for one scene node. Shapes
// are keyed by the node's stable identity and updated in place between
// frames, the rasterizer allocation is reused.
type sceneShape struct {
	path     []PathElement
	fill     color.NRGBA
	gradient *Gradient
	opacity  float64

	ras      *vector.Rasterizer
	lastSeen uint64
}

// scene holds the shape objects built from the animation source and
// rasterizes them into a frame buffer. It is touched only from the
// render context.
type scene struct {
	shapes map[string]*sceneShape
	order  []*sceneShape
	stamp  uint64
}

func newScene() *scene {
	return &scene{
		shapes: make(map[string]*sceneShape),
	}
}

// update synchronizes the shape objects with the node list of the
// current frame. Nodes that disappeared are dropped, surviving nodes
// keep their shape object.
func (s *scene) update(nodes []*SceneNode) {
	s.stamp++
	s.order = s.order[:0]

	for _, node := range nodes {
		shape := s.shapes[node.Key]
		if shape == nil {
			shape = &sceneShape{}
			s.shapes[node.Key] = shape
		}

		shape.path = node.Path
		shape.fill = node.Fill
		shape.gradient = node.Gradient
		shape.opacity = node.Opacity
		shape.lastSeen = s.stamp
		s.order = append(s.order, shape)
	}

	for key, shape := range s.shapes {
		if shape.lastSeen != s.stamp {
			delete(s.shapes, key)
		}
	}
}

// draw rasterizes the scene into the buffer in node order.
func (s *scene) draw(buf *FrameBuffer) error {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return errors.New("invalid frame buffer")
	}
	if buf.PixFormat != RGB32 {
		return errors.New("frame buffer must be RGB32")
	}

	buf.Clear()
	dst := buf.RGBA()
	for _, shape := range s.order {
		drawShape(dst, shape, buf.Width, buf.Height)
	}
	return nil
}

func drawShape(dst *image.RGBA, shape *sceneShape, width int, height int) {
	if len(shape.path) == 0 || shape.opacity <= 0 {
		return
	}

	if shape.ras == nil {
		shape.ras = vector.NewRasterizer(width, height)
	} else {
		shape.ras.Reset(width, height)
	}
	shape.ras.DrawOp = draw.Over

	for _, elem := range shape.path {
		switch elem.Verb {
		case PathMoveTo:
			shape.ras.MoveTo(elem.Pts[0].X, elem.Pts[0].Y)
		case PathLineTo:
			shape.ras.LineTo(elem.Pts[0].X, elem.Pts[0].Y)
		case PathCubeTo:
			shape.ras.CubeTo(
				elem.Pts[0].X, elem.Pts[0].Y,
				elem.Pts[1].X, elem.Pts[1].Y,
				elem.Pts[2].X, elem.Pts[2].Y)
		case PathClose:
			shape.ras.ClosePath()
		}
	}

	src := shapeSource(shape, dst.Bounds())
	shape.ras.Draw(dst, dst.Bounds(), src, image.Point{})
}

func shapeSource(shape *sceneShape, bounds image.Rectangle) image.Image {
	opacity := shape.opacity
	if opacity > 1 {
		opacity = 1
	}

	if shape.gradient != nil {
		return &gradientImage{
			gradient: shape.gradient,
			alpha:    opacity,
			bounds:   bounds,
		}
	}

	fill := shape.fill
	fill.A = uint8(math.Round(float64(fill.A) * opacity))
	return image.NewUniform(fill)
}

// gradientImage exposes a linear gradient as an image source for the
// rasterizer.
type gradientImage struct {
	gradient *Gradient
	alpha    float64
	bounds   image.Rectangle
}

func (g *gradientImage) ColorModel() color.Model { return color.NRGBAModel }

func (g *gradientImage) Bounds() image.Rectangle { return g.bounds }

func (g *gradientImage) At(x, y int) color.Color {
	grad := g.gradient
	dx := float64(grad.End.X - grad.Start.X)
	dy := float64(grad.End.Y - grad.Start.Y)
	lenSq := dx*dx + dy*dy

	t := 0.0
	if lenSq > 0 {
		t = ((float64(x)-float64(grad.Start.X))*dx +
			(float64(y)-float64(grad.Start.Y))*dy) / lenSq
	}

	c := grad.ColorAt(t)
	r, green, b := c.RGB255()
	return color.NRGBA{R: r, G: green, B: b, A: uint8(math.Round(255 * g.alpha))}
}

// ColorAt samples the gradient color at t, clamped into the stop range.
func (g *Gradient) ColorAt(t float64) colorful.Color {
	stops := g.Stops
	if len(stops) == 0 {
		return colorful.Color{}
	}
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Pos {
		return last.Color
	}

	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Pos {
			span := stops[i].Pos - stops[i-1].Pos
			local := 0.0
			if span > 0 {
				local = (t - stops[i-1].Pos) / span
			}
			return stops[i-1].Color.BlendRgb(stops[i].Color, local)
		}
	}
	return last.Color
}
