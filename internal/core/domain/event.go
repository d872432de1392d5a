package domain

// Response tells the executor whether to keep dispatching work after a
// completion event.
type Response int

const (
	// ContinueExecution keeps the run going.
	ContinueExecution Response = iota
	// StopExecution stops submitting new work; running jobs drain.
	StopExecution
)

// EventKind discriminates executor callback events.
type EventKind int

const (
	// EventBegan reports that a process started. Observational only.
	EventBegan EventKind = iota
	// EventFinished reports a normal process exit, successful or not.
	EventFinished
	// EventSignalled reports an abnormal exit: the process was killed by a
	// signal, crashed, or could not be launched at all.
	EventSignalled
)

// SignalExitCode is the result code recorded for a signalled run.
const SignalExitCode = -2

// Event is one executor callback, delivered over the executor's event
// channel and processed by the scheduler's single event handler.
type Event struct {
	Kind       EventKind
	PID        int
	Invocation *Invocation

	// ExitCode is set for EventFinished.
	ExitCode int

	// Signal is set for EventSignalled when a signal name is known.
	Signal string

	// LaunchErr is set for EventSignalled when the process could not be
	// started at all.
	LaunchErr error

	Stdout string
	Stderr string
}
