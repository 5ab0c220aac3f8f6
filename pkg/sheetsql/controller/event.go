package controller

import "time"

// EventKind identifies what an Event reports.
type EventKind int

const (
	// SheetCount reports the number of sheets before rows are read.
	SheetCount EventKind = iota + 1
	// SheetsReady reports a completed load.
	SheetsReady
	// LoadFailed reports a failed load.
	LoadFailed
	// ExecutionStarted reports that the pipeline was started.
	ExecutionStarted
	// Tick reports elapsed time while an execution is in flight.
	Tick
	// ExecutionDone reports a written output file.
	ExecutionDone
	// ExecutionCancelled reports that a stage observed the cancel request.
	ExecutionCancelled
	// ExecutionFailed reports a query or export error.
	ExecutionFailed
)

func (k EventKind) String() string {
	switch k {
	case SheetCount:
		return "sheet_count"
	case SheetsReady:
		return "sheets_ready"
	case LoadFailed:
		return "load_failed"
	case ExecutionStarted:
		return "execution_started"
	case Tick:
		return "tick"
	case ExecutionDone:
		return "execution_done"
	case ExecutionCancelled:
		return "execution_cancelled"
	case ExecutionFailed:
		return "execution_failed"
	default:
		return "unknown"
	}
}

// Event is published on Controller.Events.
type Event struct {
	Kind EventKind
	// RunID identifies the execution cycle; empty for load events.
	RunID string
	// Path is the workbook for load events and the output file otherwise.
	Path string
	// Count is the sheet count of a SheetCount event.
	Count int
	// Sheets lists the loaded sheets of a SheetsReady event.
	Sheets []string
	// Elapsed is the number of ticks counted so far.
	Elapsed int
	// Duration is the wall-clock time of a finished execution.
	Duration time.Duration
	// CancelIgnored marks an ExecutionDone whose cancel request arrived
	// after the last checkpoint.
	CancelIgnored bool
	// Err is set on LoadFailed and ExecutionFailed.
	Err error
}

// Terminal reports whether the event ends a load or an execution.
func (e Event) Terminal() bool {
	switch e.Kind {
	case SheetsReady, LoadFailed, ExecutionDone, ExecutionCancelled, ExecutionFailed:
		return true
	}
	return false
}
