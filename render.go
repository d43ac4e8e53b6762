package lottieview

// renderCoordinator produces filled frame buffers from the animation
// source. In async mode at most one render task is in flight at any
// time, further requests either coalesce with it or record the latest
// wanted position to render once the task completes.
//
// All methods run under the view lock. The only code running outside
// it is the worker goroutine, which touches nothing but the scene, the
// back buffer and the result channel.
type renderCoordinator struct {
	source AnimationSource
	async  bool
	scene  *scene

	front *FrameBuffer
	back  *FrameBuffer

	task    *RenderTask
	pending *float64

	results chan RenderResult
	wake    chan struct{}
}

func newRenderCoordinator(source AnimationSource, async bool, width int, height int) *renderCoordinator {
	c := &renderCoordinator{
		source:  source,
		async:   async,
		scene:   newScene(),
		front:   NewFrameBuffer(width, height),
		results: make(chan RenderResult, 1),
		wake:    make(chan struct{}, 1),
	}

	// Sync mode renders straight into the front buffer, only async
	// rendering needs real double buffering.
	c.back = c.front
	if async {
		c.back = NewFrameBuffer(width, height)
	}
	return c
}

// request asks for a render at pos. In sync mode the front buffer is
// filled before request returns and presented==true on success. In
// async mode presented is always false, the result arrives through the
// result channel.
func (c *renderCoordinator) request(pos float64) (presented bool, err error) {
	if !c.async {
		if err := c.renderInto(c.front, pos); err != nil {
			return false, err
		}
		return true, nil
	}

	if c.task != nil {
		if c.task.Pos == pos {
			// Coalesce, the in-flight task already targets pos. Any
			// older superseding position is obsolete now.
			c.pending = nil
			return false, nil
		}
		p := pos
		c.pending = &p
		return false, nil
	}

	c.start(pos)
	return false, nil
}

func (c *renderCoordinator) start(pos float64) {
	task := &RenderTask{Pos: pos, state: TaskInFlight}
	c.task = task

	go func() {
		err := c.renderInto(c.back, pos)
		c.results <- RenderResult{Pos: pos, Err: err}
		select {
		case c.wake <- struct{}{}:
		default:
		}
	}()
}

// drain picks up a completed result without blocking.
func (c *renderCoordinator) drain() (RenderResult, bool) {
	select {
	case res := <-c.results:
		return res, true
	default:
		return RenderResult{}, false
	}
}

// finish applies a drained result: on success the filled back buffer
// becomes front. A superseding position recorded while the task was in
// flight starts the next render immediately.
func (c *renderCoordinator) finish(res RenderResult) {
	if c.task != nil {
		c.task.state = TaskCompleted
		c.task = nil
	}

	if res.Err == nil {
		c.front, c.back = c.back, c.front
	}

	if c.pending != nil {
		pos := *c.pending
		c.pending = nil
		if res.Err != nil || pos != res.Pos {
			c.start(pos)
		}
	}
}

// join blocks until any in-flight render completes and discards its
// result. The buffers are safe to release or replace afterwards.
func (c *renderCoordinator) join() {
	c.pending = nil
	if c.task == nil {
		return
	}
	<-c.results
	c.task.state = TaskCompleted
	c.task = nil
}

// resize joins any in-flight render and reallocates the buffers.
func (c *renderCoordinator) resize(width int, height int) {
	c.join()
	c.front = NewFrameBuffer(width, height)
	c.back = c.front
	if c.async {
		c.back = NewFrameBuffer(width, height)
	}
}

func (c *renderCoordinator) renderInto(buf *FrameBuffer, pos float64) error {
	nodes, err := c.source.NodesAt(pos)
	if err != nil {
		if _, ok := err.(*FrameError); ok {
			return err
		}
		return &FrameError{Pos: pos, Err: err}
	}

	c.scene.update(nodes)
	if err := c.scene.draw(buf); err != nil {
		return &RenderError{Pos: pos, Err: err}
	}
	return nil
}
