package lottieview

import (
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a scripted animation source: it serves one full-frame
// rectangle and records every rendered position.
type fakeSource struct {
	mutex   sync.Mutex
	info    Info
	loadErr error
	nodeErr error
	renders []float64
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		info: Info{FrameRate: 30, TotalFrames: 30},
	}
}

func (s *fakeSource) Load(path string) (Info, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.loadErr != nil {
		return Info{}, s.loadErr
	}
	return s.info, nil
}

func (s *fakeSource) NodesAt(pos float64) ([]*SceneNode, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.nodeErr != nil {
		return nil, s.nodeErr
	}
	s.renders = append(s.renders, pos)
	return []*SceneNode{
		solidNode("fill", color.NRGBA{B: 0xff, A: 0xff}, 0, 0, 8, 8),
	}, nil
}

func (s *fakeSource) renderedPositions() []float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]float64(nil), s.renders...)
}

func newTestView(t *testing.T, source AnimationSource) *LottieView {
	view, err := NewLottieView(source, NullSurface(), 8, 8, false)
	require.NoError(t, err)
	require.NoError(t, view.SetFilePath("test"))
	return view
}

func tick(view *LottieView, count int, elapsed time.Duration) {
	for i := 0; i < count; i++ {
		view.OnTick(elapsed)
	}
}

func TestSeekClampsPosition(t *testing.T) {
	view := newTestView(t, newFakeSource())

	view.Seek(-0.5)
	assert.Equal(t, 0.0, view.GetPos())

	view.Seek(1.5)
	assert.Equal(t, 1.0, view.GetPos())

	view.Seek(0.25)
	assert.Equal(t, 0.25, view.GetPos())
}

func TestSeekWorksWhilePausedAndStopped(t *testing.T) {
	source := newFakeSource()
	view := newTestView(t, source)

	view.Seek(0.5)
	assert.Equal(t, Stopped, view.State())

	require.NoError(t, view.Play())
	view.Pause()
	view.Seek(0.75)
	assert.Equal(t, Paused, view.State())

	rendered := source.renderedPositions()
	assert.Contains(t, rendered, 0.5)
	assert.Contains(t, rendered, 0.75)
}

func TestStopReturnsToStartPosition(t *testing.T) {
	view := newTestView(t, newFakeSource())

	view.Seek(0.3)
	require.NoError(t, view.Play())
	tick(view, 5, 125*time.Millisecond)
	require.NotEqual(t, 0.3, view.GetPos())

	view.Stop()
	assert.Equal(t, Stopped, view.State())
	assert.Equal(t, 0.3, view.GetPos())
}

func TestPauseFreezesPosition(t *testing.T) {
	view := newTestView(t, newFakeSource())

	require.NoError(t, view.Play())
	tick(view, 2, 125*time.Millisecond)
	pos := view.GetPos()

	view.Pause()
	tick(view, 5, 125*time.Millisecond)
	assert.Equal(t, pos, view.GetPos())

	// Play from paused resumes at the exact position.
	require.NoError(t, view.Play())
	assert.Equal(t, pos, view.GetPos())
	view.OnTick(125 * time.Millisecond)
	assert.InDelta(t, pos+0.125, view.GetPos(), 1e-9)
}

func TestPlayFromStoppedResetsCycleCount(t *testing.T) {
	view := newTestView(t, newFakeSource())
	view.SetRepeatCount(1)

	require.NoError(t, view.Play())
	tick(view, 8, 125*time.Millisecond)
	assert.Equal(t, Stopped, view.State())
	assert.Equal(t, 1.0, view.GetPos())

	// The view is reusable, a second Play starts a fresh run.
	require.NoError(t, view.Play())
	assert.Equal(t, Playing, view.State())
	assert.Equal(t, 0.0, view.GetPos())
	tick(view, 8, 125*time.Millisecond)
	assert.Equal(t, Stopped, view.State())
}

func TestRestartRepeatCountStopsOnExactBoundary(t *testing.T) {
	// totalFrameCount=30, frameRate=30, speed=1: two full durations are
	// two seconds of ticks.
	view := newTestView(t, newFakeSource())
	view.SetRepeatCount(2)

	finishedCount := 0
	view.SetOnFinished(func() { finishedCount++ })

	require.NoError(t, view.Play())
	tick(view, 16, 125*time.Millisecond)

	assert.Equal(t, Stopped, view.State())
	assert.Equal(t, 1.0, view.GetPos())
	assert.Equal(t, 1, finishedCount)

	// Further ticks must be ignored once stopped.
	tick(view, 3, 125*time.Millisecond)
	assert.Equal(t, 1.0, view.GetPos())
}

func TestNoLoopStopsAfterFirstCycle(t *testing.T) {
	view := newTestView(t, newFakeSource())
	view.Loop(false)
	view.SetRepeatCount(5)

	finished := false
	view.SetOnFinished(func() { finished = true })

	require.NoError(t, view.Play())
	tick(view, 8, 125*time.Millisecond)

	assert.Equal(t, Stopped, view.State())
	assert.Equal(t, 1.0, view.GetPos())
	assert.True(t, finished)
}

func TestReversePingPong(t *testing.T) {
	view := newTestView(t, newFakeSource())
	view.SetRepeatMode(RepeatReverse)
	view.SetRepeatCount(1)

	require.NoError(t, view.Play())

	var positions []float64
	for i := 0; i < 8; i++ {
		view.OnTick(250 * time.Millisecond)
		positions = append(positions, view.GetPos())
	}

	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1.0, 0.75, 0.5, 0.25, 0.0}, positions)
	assert.Equal(t, Stopped, view.State())
}

func TestNegativeSpeedPlaysBackwards(t *testing.T) {
	view := newTestView(t, newFakeSource())
	view.SetSpeed(-1)

	view.Seek(0.5)
	require.NoError(t, view.Play())
	view.OnTick(125 * time.Millisecond)
	assert.InDelta(t, 0.375, view.GetPos(), 1e-9)

	// Crossing 0 wraps to the high end in restart mode.
	tick(view, 4, 125*time.Millisecond)
	assert.InDelta(t, 0.875, view.GetPos(), 1e-9)
}

func TestSetFilePathFailureKeepsPreviousAnimation(t *testing.T) {
	source := newFakeSource()
	view := newTestView(t, source)

	view.Seek(0.5)
	source.mutex.Lock()
	source.loadErr = errors.New("corrupt asset")
	source.mutex.Unlock()

	err := view.SetFilePath("broken")
	require.Error(t, err)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "broken", loadErr.Path)

	assert.Equal(t, 0.5, view.GetPos())
	assert.Equal(t, int64(30), view.GetTotalFrame())
	assert.Equal(t, 30.0, view.GetFrameRate())
}

func TestPlayWithoutLoadedAnimationFails(t *testing.T) {
	view, err := NewLottieView(newFakeSource(), NullSurface(), 8, 8, false)
	require.NoError(t, err)
	assert.Error(t, view.Play())
}

func TestFrameErrorKeepsDirtyAndPosition(t *testing.T) {
	source := newFakeSource()
	view := newTestView(t, source)

	source.mutex.Lock()
	source.nodeErr = errors.New("bad frame data")
	source.mutex.Unlock()

	view.Seek(0.5)
	assert.Equal(t, 0.5, view.GetPos())
	assert.True(t, view.dirty, "failed render must leave the view dirty")

	source.mutex.Lock()
	source.nodeErr = nil
	source.mutex.Unlock()

	view.Seek(0.5)
	assert.False(t, view.dirty)
}

func TestOnTickIgnoredWhenStopped(t *testing.T) {
	view := newTestView(t, newFakeSource())

	tick(view, 5, 125*time.Millisecond)
	assert.Equal(t, 0.0, view.GetPos())
	assert.Equal(t, Stopped, view.State())
}

func TestSetSizeRejectsInvalidViewport(t *testing.T) {
	view := newTestView(t, newFakeSource())
	assert.Error(t, view.SetSize(0, 10))
	assert.NoError(t, view.SetSize(16, 16))
}
