package lottieview

import (
	"errors"
	"image"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// LottieView plays a loaded vector animation: it advances the
// normalized position on every tick, renders the frame at that position
// into its buffer and hands the buffer to the display surface.
//
// All public methods are safe to call from any goroutine, but they are
// serialized by one mutex and are expected to be short. The completion
// callback set with SetOnFinished runs outside the lock.
type LottieView struct {
	mutex sync.Mutex

	source      AnimationSource
	surface     Surface
	coordinator *renderCoordinator

	x, y          int
	width, height int
	visible       bool

	loaded     bool
	frameRate  float64
	totalFrame int64

	state       PlaybackState
	pos         float64
	startPos    float64
	speed       float64
	loop        bool
	repeatMode  RepeatMode
	repeatCount int
	curCount    int
	reverse     bool
	dirty       bool

	onFinished func()
}

// NewLottieView creates a view rendering through source onto surface.
// When asyncRender is set, frames are rasterized on a background worker
// and applied through CompleteRender, otherwise rendering happens
// inline on the calling goroutine.
func NewLottieView(source AnimationSource, surface Surface, width int, height int, asyncRender bool) (*LottieView, error) {
	if source == nil {
		return nil, errors.New("lottieview: animation source is nil")
	}
	if surface == nil {
		return nil, errors.New("lottieview: surface is nil")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("lottieview: invalid viewport size")
	}

	view := &LottieView{
		source:      source,
		surface:     surface,
		coordinator: newRenderCoordinator(source, asyncRender, width, height),
		width:       width,
		height:      height,
		visible:     true,
		state:       Stopped,
		speed:       1.0,
		loop:        true,
	}
	return view, nil
}

// SetFilePath loads the animation asset at path. On success the view
// resets to the first frame in Stopped state and renders it. On failure
// the previously loaded animation, if any, stays untouched.
func (view *LottieView) SetFilePath(path string) error {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	info, err := view.source.Load(path)
	if err != nil {
		if loadErr, ok := err.(*LoadError); ok {
			return loadErr
		}
		return &LoadError{Path: path, Err: err}
	}

	view.coordinator.join()
	view.loaded = true
	view.frameRate = info.FrameRate
	view.totalFrame = info.TotalFrames
	view.state = Stopped
	view.pos = 0
	view.startPos = 0
	view.curCount = 0
	view.reverse = false
	view.dirty = true
	view.requestRender()
	return nil
}

// Play starts playback. From Stopped it restarts at the start position
// with a fresh cycle count, from Paused it resumes at the current
// position. Playing is idempotent.
func (view *LottieView) Play() error {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	if !view.loaded {
		return errors.New("lottieview: no animation loaded")
	}
	if view.state == Playing {
		return nil
	}

	if view.state == Stopped {
		view.curCount = 0
		view.pos = view.startPos
		view.reverse = false
		view.dirty = true
	}
	view.state = Playing
	view.requestRender()
	return nil
}

// Pause freezes the position until the next Play. No-op unless playing.
func (view *LottieView) Pause() {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	if view.state == Playing {
		view.state = Paused
	}
}

// Stop ends playback and resets the position to the start position.
// Any in-flight render is joined before Stop returns.
func (view *LottieView) Stop() {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	if view.state == Stopped {
		return
	}

	view.coordinator.join()
	view.state = Stopped
	view.pos = view.startPos
	view.dirty = true
}

// Seek scrubs to pos, clamped into [0,1], and renders the frame there
// in any playback state. The seek target becomes the start position
// that Play from Stopped and Stop return to.
func (view *LottieView) Seek(pos float64) {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	pos = clampPos(pos)
	view.pos = pos
	view.startPos = pos
	view.dirty = true
	if view.loaded {
		view.requestRender()
	}
}

// OnTick advances playback by the elapsed wall-clock time. It is wired
// into a tick driver such as Animator and does nothing unless playing.
func (view *LottieView) OnTick(elapsed time.Duration) {
	view.mutex.Lock()

	if view.state != Playing || view.totalFrame <= 0 {
		view.mutex.Unlock()
		return
	}

	delta := view.speed * elapsed.Seconds() * view.frameRate / float64(view.totalFrame)
	if delta == 0 {
		view.mutex.Unlock()
		return
	}
	if view.repeatMode == RepeatReverse && view.reverse {
		delta = -delta
	}

	policy := repeatPolicy{
		Mode:  view.repeatMode,
		Loop:  view.loop,
		Count: view.repeatCount,
	}
	adv := policy.advance(view.pos+delta, delta > 0, view.curCount)

	view.pos = adv.Pos
	view.curCount = adv.Cycles
	if view.repeatMode == RepeatReverse {
		view.reverse = adv.Forward != (view.speed >= 0)
	}
	view.dirty = true

	finished := adv.Finished
	if finished {
		view.state = Stopped
	}
	view.requestRender()

	onFinished := view.onFinished
	view.mutex.Unlock()

	if finished && onFinished != nil {
		onFinished()
	}
}

// SetSpeed sets the time multiplier applied on the next tick. Negative
// speed plays backwards.
func (view *LottieView) SetSpeed(speed float64) {
	view.mutex.Lock()
	defer view.mutex.Unlock()
	view.speed = speed
}

// SetRepeatMode selects restart or reverse behavior at boundaries.
func (view *LottieView) SetRepeatMode(mode RepeatMode) {
	view.mutex.Lock()
	defer view.mutex.Unlock()
	view.repeatMode = mode
}

// SetRepeatCount sets how many additional full cycles play before the
// view stops, 0 means unlimited.
func (view *LottieView) SetRepeatCount(count int) {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	if count < 0 {
		count = 0
	}
	view.repeatCount = count
}

// Loop enables or disables looping. With looping disabled playback
// stops at the first boundary crossing regardless of the repeat count.
func (view *LottieView) Loop(enabled bool) {
	view.mutex.Lock()
	defer view.mutex.Unlock()
	view.loop = enabled
}

// SetOnFinished registers the callback fired when playback finishes,
// either because the loop count is exhausted or because a non-looping
// cycle ended.
func (view *LottieView) SetOnFinished(onFinished func()) {
	view.mutex.Lock()
	defer view.mutex.Unlock()
	view.onFinished = onFinished
}

// SetSize resizes the playback viewport. An in-flight render is joined
// before the buffers are reallocated.
func (view *LottieView) SetSize(width int, height int) error {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	if width <= 0 || height <= 0 {
		return errors.New("lottieview: invalid viewport size")
	}
	if width == view.width && height == view.height {
		return nil
	}

	view.coordinator.resize(width, height)
	view.width = width
	view.height = height
	view.dirty = true

	if err := view.surface.SetGeometry(view.geometry()); err != nil {
		return err
	}
	if view.loaded {
		view.requestRender()
	}
	return nil
}

// SetPos places the viewport on the display surface.
func (view *LottieView) SetPos(x int, y int) error {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	view.x = x
	view.y = y
	return view.surface.SetGeometry(view.geometry())
}

// Show makes the viewport visible and re-presents the current frame.
func (view *LottieView) Show() {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	view.visible = true
	if view.loaded {
		view.present()
	}
}

// Hide stops presenting frames. Playback keeps advancing.
func (view *LottieView) Hide() {
	view.mutex.Lock()
	defer view.mutex.Unlock()
	view.visible = false
}

// GetPos returns the current normalized position.
func (view *LottieView) GetPos() float64 {
	view.mutex.Lock()
	defer view.mutex.Unlock()
	return view.pos
}

// GetFrameRate returns the frame rate of the loaded animation.
func (view *LottieView) GetFrameRate() float64 {
	view.mutex.Lock()
	defer view.mutex.Unlock()
	return view.frameRate
}

// GetTotalFrame returns the frame count of the loaded animation.
func (view *LottieView) GetTotalFrame() int64 {
	view.mutex.Lock()
	defer view.mutex.Unlock()
	return view.totalFrame
}

// State returns the current playback state.
func (view *LottieView) State() PlaybackState {
	view.mutex.Lock()
	defer view.mutex.Unlock()
	return view.state
}

// RenderSignal returns the channel that fires when an asynchronous
// render completed. The tick driver selects on it and then calls
// CompleteRender.
func (view *LottieView) RenderSignal() <-chan struct{} {
	return view.coordinator.wake
}

// CompleteRender picks up a finished asynchronous render, swaps the
// filled buffer to front and presents it. A position requested while
// the render was in flight starts the next render. No-op when nothing
// completed.
func (view *LottieView) CompleteRender() {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	res, ok := view.coordinator.drain()
	if !ok {
		return
	}
	view.coordinator.finish(res)

	if res.Err != nil {
		log.Warnf("lottieview: render skipped: %v", res.Err)
		return
	}
	if view.pos == res.Pos {
		view.dirty = false
	}
	// When a superseding render is already under way the swapped frame
	// is still newer than what is on screen, so present it and stay
	// dirty until the final frame lands.
	view.present()
}

// Close joins any in-flight render. The view must not be used after
// Close. A stuck animation source blocks Close, no timeout is applied.
func (view *LottieView) Close() {
	view.mutex.Lock()
	defer view.mutex.Unlock()

	view.coordinator.join()
	view.loaded = false
	view.state = Stopped
}

func (view *LottieView) geometry() image.Rectangle {
	return image.Rect(view.x, view.y, view.x+view.width, view.y+view.height)
}

// requestRender must be called with the lock held.
func (view *LottieView) requestRender() {
	if !view.loaded {
		return
	}

	presented, err := view.coordinator.request(view.pos)
	if err != nil {
		// Frame and render errors are non-fatal, the previous frame
		// stays on screen and the view remains dirty.
		log.Warnf("lottieview: render skipped: %v", err)
		return
	}
	if presented {
		view.dirty = false
		view.present()
	}
}

// present must be called with the lock held.
func (view *LottieView) present() {
	if !view.visible {
		return
	}
	if err := view.surface.Present(view.coordinator.front); err != nil {
		log.Warnf("lottieview: present failed: %v", err)
	}
}
