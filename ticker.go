package lottieview

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultTickRate = 60

// Animator drives a LottieView from a wall-clock ticker. It owns the
// timing source: every tick it feeds the measured elapsed time into
// OnTick and it pumps asynchronous render completions back into the
// view between ticks.
type Animator struct {
	view     *LottieView
	tickRate int

	mutex     sync.Mutex
	isRunning bool
	stop      chan struct{}
	done      chan struct{}
}

// NewAnimator creates an animator ticking at tickRate ticks per second.
// A tickRate of 0 selects the default rate.
func NewAnimator(view *LottieView, tickRate int) (*Animator, error) {
	if view == nil {
		return nil, errors.New("lottieview: view is nil")
	}
	if tickRate < 0 {
		return nil, errors.New("lottieview: invalid tick rate")
	}
	if tickRate == 0 {
		tickRate = defaultTickRate
	}

	return &Animator{
		view:     view,
		tickRate: tickRate,
	}, nil
}

// Start begins ticking on a background goroutine.
func (animator *Animator) Start() error {
	animator.mutex.Lock()
	defer animator.mutex.Unlock()

	if animator.isRunning {
		return errors.New("Animator is already running")
	}

	animator.isRunning = true
	animator.stop = make(chan struct{})
	animator.done = make(chan struct{})
	go animator.run()
	return nil
}

// Stop ends ticking and waits for the tick loop to exit. Renders still
// in flight are left to the view, Stop or Close on the view joins them.
func (animator *Animator) Stop() {
	animator.mutex.Lock()
	defer animator.mutex.Unlock()

	if !animator.isRunning {
		return
	}

	close(animator.stop)
	<-animator.done
	animator.isRunning = false
}

func (animator *Animator) run() {
	defer close(animator.done)

	tickDuration := time.Second / time.Duration(animator.tickRate)
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	lateTickCount := 0
	lastTick := time.Now()
	for {
		select {
		case <-animator.stop:
			return
		case <-animator.view.RenderSignal():
			animator.view.CompleteRender()
		case now := <-ticker.C:
			elapsed := now.Sub(lastTick)
			lastTick = now

			if elapsed > 2*tickDuration {
				lateTickCount++
				if lateTickCount%100 == 0 {
					log.Warnf("Animator: the number of late ticks: %v", lateTickCount)
				}
			}
			animator.view.OnTick(elapsed)
		}
	}
}
