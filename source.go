package lottieview

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// PathVerb selects the kind of a path element.
type PathVerb int

const (
	// PathMoveTo starts a new subpath at Pts[0]
	PathMoveTo PathVerb = iota
	// PathLineTo draws a line to Pts[0]
	PathLineTo
	// PathCubeTo draws a cubic bezier with control points Pts[0], Pts[1]
	// and end point Pts[2]
	PathCubeTo
	// PathClose closes the current subpath
	PathClose
)

// Point is a point in viewport coordinates.
type Point struct {
	X float32
	Y float32
}

// PathElement is one verb of a scene node outline.
type PathElement struct {
	Verb PathVerb
	Pts  [3]Point
}

// GradientStop is one color stop of a linear gradient.
type GradientStop struct {
	Pos   float64
	Color colorful.Color
}

// Gradient describes a linear gradient fill between Start and End.
// Stops must be sorted by Pos in [0,1].
type Gradient struct {
	Start Point
	End   Point
	Stops []GradientStop
}

// SceneNode is a single shape of the vector animation at a given
// position. Key identifies the same logical shape across frames so the
// renderer can update its scene objects instead of rebuilding them.
type SceneNode struct {
	Key      string
	Path     []PathElement
	Fill     color.NRGBA
	Gradient *Gradient
	Opacity  float64
}

// Info describes a successfully loaded animation asset.
type Info struct {
	FrameRate   float64
	TotalFrames int64
}

// AnimationSource supplies frame data for a loaded animation asset.
// Parsing the asset format is the source's business, the view only
// drives positions through it.
type AnimationSource interface {
	// Load opens the asset at path and returns its frame geometry.
	Load(path string) (Info, error)

	// NodesAt returns the scene nodes at the normalized position in
	// [0,1]. It is called from the render context, which may be a
	// background goroutine when async rendering is enabled.
	NodesAt(pos float64) ([]*SceneNode, error)
}
