package controller

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// killReason records why the in-flight subprocess was killed, so the loop
// can tell a deliberate interruption from a genuine failure even when the
// pause flag has already been cleared by a fast resume.
type killReason int

const (
	killNone killReason = iota
	killPause
	killStop
)

// processingRun holds the mutable state of one run. The processing loop
// reads it between chapters; IPC handlers mutate it from other goroutines.
type processingRun struct {
	id      string
	started time.Time

	mu             sync.Mutex
	paused         bool
	stopRequested  bool
	killed         killReason
	currentChapter string
	done           int
	failed         int
	total          int
}

func newProcessingRun() *processingRun {
	return &processingRun{
		id:      uuid.NewString(),
		started: time.Now(),
	}
}

// Pause reports whether the call changed state. A second pause while
// already paused is a no-op so callers do not kill the subprocess twice.
func (r *processingRun) Pause() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paused {
		return false
	}
	r.paused = true
	return true
}

func (r *processingRun) Resume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.paused {
		return false
	}
	r.paused = false
	return true
}

// RequestStop also clears any pause so the loop does not stay parked in
// the pause spin-wait.
func (r *processingRun) RequestStop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopRequested = true
	r.paused = false
}

func (r *processingRun) latchKill(reason killReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.killed = reason
}

// unlatchKill clears the latch only if it still holds the given reason, so
// a pause that killed nothing cannot erase a concurrent stop's latch.
func (r *processingRun) unlatchKill(reason killReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.killed == reason {
		r.killed = killNone
	}
}

// consumeKill returns the latched reason and clears it.
func (r *processingRun) consumeKill() killReason {
	r.mu.Lock()
	defer r.mu.Unlock()
	reason := r.killed
	r.killed = killNone
	return reason
}

func (r *processingRun) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

func (r *processingRun) StopRequested() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopRequested
}

func (r *processingRun) setTotal(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = n
}

func (r *processingRun) setCurrent(chapterID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentChapter = chapterID
}

func (r *processingRun) markDone() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
}

func (r *processingRun) markFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func (r *processingRun) snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := StateRunning
	switch {
	case r.stopRequested:
		state = StateStopping
	case r.paused:
		state = StatePaused
	}
	return Snapshot{
		State:          state,
		RunID:          r.id,
		CurrentChapter: r.currentChapter,
		Done:           r.done,
		Failed:         r.failed,
		Total:          r.total,
		StartedAt:      r.started,
	}
}
