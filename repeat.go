package lottieview

import "math"

// RepeatMode selects what happens when the playback position reaches a
// boundary of [0,1].
type RepeatMode int

const (
	// RepeatRestart wraps the position back to the start on each cycle
	RepeatRestart RepeatMode = iota
	// RepeatReverse ping-pongs the playback direction on each boundary
	RepeatReverse
)

// repeatPolicy resolves boundary crossings of the normalized position.
// It is pure: the view owns all mutable playback state and feeds it in.
type repeatPolicy struct {
	Mode RepeatMode
	Loop bool
	// Count is the number of additional full cycles to play before
	// stopping, 0 means unlimited.
	Count int
}

type advanceResult struct {
	// Pos is the resolved position, always in [0,1]
	Pos float64
	// Forward is the motion direction after any bounces
	Forward bool
	// Crossed is true when at least one boundary was hit
	Crossed bool
	// Cycles is the total number of completed cycles after the advance
	Cycles int
	// Finished is true when playback must stop. Pos is then clamped to
	// the exact terminal boundary, never a wrapped remainder.
	Finished bool
}

// advance resolves a freshly advanced position that may lie outside
// [0,1]. forward is the direction of the motion that produced pos,
// cycles is the number of cycles completed before this advance.
func (p repeatPolicy) advance(pos float64, forward bool, cycles int) advanceResult {
	if p.Mode == RepeatReverse {
		return p.advanceReverse(pos, forward, cycles)
	}
	return p.advanceRestart(pos, forward, cycles)
}

func (p repeatPolicy) advanceRestart(pos float64, forward bool, cycles int) advanceResult {
	crossed := (forward && pos >= 1) || (!forward && pos <= 0)
	if !crossed {
		return advanceResult{Pos: pos, Forward: forward, Cycles: cycles}
	}

	// Count every whole boundary passed, a single large tick may wrap
	// more than once.
	if forward {
		cycles += int(pos)
	} else {
		cycles += 1 + int(-pos)
	}

	finished := !p.Loop || (p.Count > 0 && cycles >= p.Count)
	if finished {
		// Stop on the exact terminal frame, not the overshoot remainder.
		if forward {
			pos = 1
		} else {
			pos = 0
		}
	} else {
		pos = pos - math.Floor(pos)
		// A backward crossing that lands exactly on 0 restarts from the
		// high end.
		if !forward && pos == 0 {
			pos = 1
		}
	}

	return advanceResult{
		Pos:      pos,
		Forward:  forward,
		Crossed:  true,
		Cycles:   cycles,
		Finished: finished,
	}
}

func (p repeatPolicy) advanceReverse(pos float64, forward bool, cycles int) advanceResult {
	crossed := false
	finished := false

	// Reflect until the position is back in range. A full cycle is two
	// bounces, it completes on the bounce at 0.
	for {
		if forward && pos >= 1 {
			pos = 2 - pos
			forward = false
			crossed = true
			if !p.Loop {
				finished = true
				pos = 1
				break
			}
		} else if !forward && pos <= 0 {
			pos = -pos
			forward = true
			crossed = true
			cycles++
			if !p.Loop || (p.Count > 0 && cycles >= p.Count) {
				finished = true
				pos = 0
				break
			}
		} else {
			break
		}
	}

	return advanceResult{
		Pos:      pos,
		Forward:  forward,
		Crossed:  crossed,
		Cycles:   cycles,
		Finished: finished,
	}
}

func clampPos(pos float64) float64 {
	if pos < 0 {
		return 0
	}
	if pos > 1 {
		return 1
	}
	return pos
}
