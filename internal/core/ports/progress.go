package ports

// ProgressSink receives per-job lifecycle notifications for display.
// Batch constituents are reported under their quasi-pids so each shows up
// individually even though one process ran them all. Purely observational:
// the scheduler's correctness never depends on it.
//
//go:generate go run go.uber.org/mock/mockgen -source=progress.go -destination=mocks/mock_progress.go -package=mocks
type ProgressSink interface {
	// JobStarted reports that the job with the given name began running
	// under pid (negative for batch constituents).
	JobStarted(pid int, name string)

	// JobFinished reports completion. err is nil on success.
	JobFinished(pid int, name string, err error)

	// JobSkipped reports a job that was deliberately not run.
	JobSkipped(name string)

	// Close flushes any pending output.
	Close() error
}
