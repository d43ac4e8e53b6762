package lottieview

import (
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gateSource blocks every NodesAt call until a token is fed through the
// gate, so tests control exactly when an async render completes. Every
// NodesAt entry is announced on started, so tests can wait for the
// worker goroutine to actually reach the source.
type gateSource struct {
	mutex   sync.Mutex
	gate    chan struct{}
	started chan struct{}
	calls   []float64
}

func newGateSource() *gateSource {
	return &gateSource{
		gate:    make(chan struct{}, 16),
		started: make(chan struct{}, 16),
	}
}

func (s *gateSource) Load(path string) (Info, error) {
	return Info{FrameRate: 30, TotalFrames: 30}, nil
}

func (s *gateSource) NodesAt(pos float64) ([]*SceneNode, error) {
	s.mutex.Lock()
	s.calls = append(s.calls, pos)
	s.mutex.Unlock()

	s.started <- struct{}{}
	<-s.gate
	return []*SceneNode{
		solidNode("fill", color.NRGBA{G: 0xff, A: 0xff}, 0, 0, 8, 8),
	}, nil
}

func (s *gateSource) renderCalls() []float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]float64(nil), s.calls...)
}

func (s *gateSource) release() { s.gate <- struct{}{} }

func newAsyncView(t *testing.T, source *gateSource) *LottieView {
	view, err := NewLottieView(source, NullSurface(), 8, 8, true)
	require.NoError(t, err)

	// SetFilePath renders the first frame, let it through.
	source.release()
	require.NoError(t, view.SetFilePath("test"))
	waitStarted(t, source)
	waitSignal(t, view)
	view.CompleteRender()
	return view
}

func waitSignal(t *testing.T, view *LottieView) {
	select {
	case <-view.RenderSignal():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for render completion")
	}
}

func waitStarted(t *testing.T, source *gateSource) {
	select {
	case <-source.started:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the render worker to start")
	}
}

func TestAsyncNeverRunsTwoRenders(t *testing.T) {
	source := newGateSource()
	view := newAsyncView(t, source)

	// First seek starts a worker, the worker blocks on the gate.
	view.Seek(0.2)
	waitStarted(t, source)
	view.Seek(0.4)
	view.Seek(0.6)

	assert.Len(t, source.renderCalls(), 2, "requests while a task is in flight must not start renders")

	source.release()
	waitSignal(t, view)
	view.CompleteRender()

	// Completing the first task starts exactly one render for the
	// latest superseding position.
	waitStarted(t, source)
	source.release()
	waitSignal(t, view)
	view.CompleteRender()

	assert.Equal(t, []float64{0, 0.2, 0.6}, source.renderCalls())
	assert.False(t, view.dirty)
	assert.Equal(t, 0.6, view.GetPos())
}

func TestAsyncCoalescesSamePosition(t *testing.T) {
	source := newGateSource()
	view := newAsyncView(t, source)

	view.Seek(0.2)
	waitStarted(t, source)
	view.Seek(0.2)

	source.release()
	waitSignal(t, view)
	view.CompleteRender()

	// No second render: the in-flight task already targeted 0.2.
	assert.Equal(t, []float64{0, 0.2}, source.renderCalls())
	assert.False(t, view.dirty)
}

func TestAsyncCoalesceDropsStaleSupersede(t *testing.T) {
	source := newGateSource()
	view := newAsyncView(t, source)

	// Supersede the in-flight render, then seek back to its position:
	// the latest wanted frame is the one already being rendered.
	view.Seek(0.2)
	waitStarted(t, source)
	view.Seek(0.5)
	view.Seek(0.2)

	source.release()
	waitSignal(t, view)
	view.CompleteRender()

	// The superseded 0.5 must not be rendered or presented, the view
	// ends clean on the latest requested position.
	assert.Equal(t, []float64{0, 0.2}, source.renderCalls())
	assert.False(t, view.dirty)
	assert.Equal(t, 0.2, view.GetPos())
}

func TestAsyncTaskLifecycle(t *testing.T) {
	source := newGateSource()
	c := newRenderCoordinator(source, true, 8, 8)

	_, err := c.request(0.5)
	require.NoError(t, err)
	require.NotNil(t, c.task)
	assert.Equal(t, TaskInFlight, c.task.State())
	assert.Equal(t, 0.5, c.task.Pos)

	task := c.task
	source.release()
	res := <-c.results
	c.finish(res)

	assert.Equal(t, TaskCompleted, task.State())
	assert.Nil(t, c.task)
}

func TestAsyncSwapOnlyOnSuccess(t *testing.T) {
	source := newGateSource()
	c := newRenderCoordinator(source, true, 8, 8)
	front := c.front

	_, err := c.request(0.5)
	require.NoError(t, err)
	source.release()
	c.finish(<-c.results)
	assert.NotSame(t, front, c.front, "successful render must swap the back buffer to front")

	front = c.front
	c.finish(RenderResult{Pos: 0.7, Err: &FrameError{Pos: 0.7}})
	assert.Same(t, front, c.front, "failed render must not swap")
}

func TestStopJoinsOutstandingRender(t *testing.T) {
	source := newGateSource()
	view := newAsyncView(t, source)

	require.NoError(t, view.Play())
	view.Seek(0.4)

	released := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		source.release()
		close(released)
	}()

	view.Stop()
	<-released

	view.mutex.Lock()
	assert.Nil(t, view.coordinator.task, "Stop must wait for the in-flight render")
	assert.Nil(t, view.coordinator.pending)
	view.mutex.Unlock()
	assert.Equal(t, Stopped, view.State())
}

func TestCompleteRenderWithoutResultIsNoop(t *testing.T) {
	source := newGateSource()
	view := newAsyncView(t, source)

	pos := view.GetPos()
	view.CompleteRender()
	assert.Equal(t, pos, view.GetPos())
}

func TestCloseJoinsRender(t *testing.T) {
	source := newGateSource()
	view := newAsyncView(t, source)

	view.Seek(0.3)
	go source.release()
	view.Close()

	assert.Nil(t, view.coordinator.task)
	assert.Equal(t, Stopped, view.State())
}
