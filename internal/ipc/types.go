package ipc

// PauseRequest suspends the processing run.
type PauseRequest struct{}

// PauseResponse reports the pause result.
type PauseResponse struct {
	Paused  bool
	Message string
}

// ResumeRequest lifts a pause.
type ResumeRequest struct{}

// ResumeResponse reports the resume result.
type ResumeResponse struct {
	Resumed bool
	Message string
}

// StopRequest ends the processing run.
type StopRequest struct{}

// StopResponse reports the stop result.
type StopResponse struct {
	Stopped bool
	Message string
}

// StatusRequest queries the run state.
type StatusRequest struct{}

// StatusResponse carries a point-in-time view of the run.
type StatusResponse struct {
	State          string
	RunID          string
	CurrentChapter string
	Done           int
	Failed         int
	Total          int
	StartedAt      string
}
