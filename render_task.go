package lottieview

// RenderTaskState is the lifecycle state of an asynchronous render.
type RenderTaskState int

const (
	// TaskNotStarted means the task was created but the worker has not
	// picked it up yet
	TaskNotStarted RenderTaskState = iota
	// TaskInFlight means the worker is filling the back buffer
	TaskInFlight
	// TaskCompleted means the result has been produced
	TaskCompleted
)

// RenderTask is the handle to an in-flight asynchronous render. At most
// one task exists at a time.
type RenderTask struct {
	// Pos is the position the render was issued for
	Pos   float64
	state RenderTaskState
}

// State returns the task lifecycle state.
func (t *RenderTask) State() RenderTaskState { return t.state }

// RenderResult is the outcome of one render operation.
type RenderResult struct {
	Pos float64
	Err error
}
