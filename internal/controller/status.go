package controller

import "time"

// ChapterStatus tracks one chapter through its pipeline.
type ChapterStatus string

const (
	StatusProcessing ChapterStatus = "processing"
	StatusDone       ChapterStatus = "done"
	StatusError      ChapterStatus = "error"
	StatusPaused     ChapterStatus = "paused"
	StatusStopped    ChapterStatus = "stopped"
)

// Event is one chapter status transition. FinalName and Version are emitted
// exactly once, on the processing event that reserves the destination;
// observers carry them forward. The duration fields arrive only on Done.
type Event struct {
	ChapterID       string
	Status          ChapterStatus
	Message         string
	FinalName       string
	Version         int
	DurationSeconds int
	DurationFrames  int
}

// Listener receives chapter events synchronously from the processing loop.
type Listener func(Event)

// RunOutcome says how a processing run ended. Chapter failures do not
// change the outcome; only an operator stop does.
type RunOutcome string

const (
	OutcomeCompleted RunOutcome = "completed"
	OutcomeStopped   RunOutcome = "stopped"
)

// Run states reported to status queries.
const (
	StateIdle     = "idle"
	StateRunning  = "running"
	StatePaused   = "paused"
	StateStopping = "stopping"
)

// Snapshot is a point-in-time view of the run for status queries.
type Snapshot struct {
	State          string
	RunID          string
	CurrentChapter string
	Done           int
	Failed         int
	Total          int
	StartedAt      time.Time
}
