package controller

import "errors"

var (
	// ErrBusy is returned when a load or execution is already in flight.
	ErrBusy = errors.New("an operation is already running")

	// ErrNotReady is returned by Execute before a load has completed.
	ErrNotReady = errors.New("wait for data to load")

	// ErrNotRunning is returned by Cancel when nothing is executing.
	ErrNotRunning = errors.New("no execution to cancel")

	// ErrMissingInput is returned when a required path or query is blank.
	ErrMissingInput = errors.New("fill in all fields")
)

// State is the execution state of a Controller.
type State int

const (
	// Idle means no dataset is ready, or the last execution failed or was cancelled.
	Idle State = iota
	// Loading means a workbook is being read.
	Loading
	// Ready means a dataset is loaded and no execution has run on it yet.
	Ready
	// Running means a query and export are in flight.
	Running
	// Cancelling means cancellation was requested and the pipeline has not
	// reached a checkpoint yet.
	Cancelling
	// Done means the last execution wrote its output.
	Done
	// Failed is part of the state vocabulary for collaborators; failures
	// return the controller to Idle.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Cancelling:
		return "cancelling"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Busy reports whether a pipeline task owns the controller.
func (s State) Busy() bool {
	return s == Loading || s == Running || s == Cancelling
}
