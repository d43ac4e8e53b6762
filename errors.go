package lottieview

import "fmt"

// LoadError reports that an animation asset could not be loaded.
// The view keeps its previous state when a load fails.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("lottieview: could not load '%s': %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FrameError reports corrupt or missing frame data at one position.
// The render for that position is skipped, the previous frame stays
// on screen.
type FrameError struct {
	Pos float64
	Err error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("lottieview: bad frame data at position %v: %v", e.Pos, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// RenderError reports a failed rasterization. The front buffer is not
// swapped and the view stays dirty.
type RenderError struct {
	Pos float64
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("lottieview: render failed at position %v: %v", e.Pos, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
