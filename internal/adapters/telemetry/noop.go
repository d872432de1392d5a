package telemetry

// NoOpSink is a no-op implementation of ports.ProgressSink, used when no
// progress display is wanted (tests, quiet mode).
type NoOpSink struct{}

// NewNoOpSink creates a new NoOpSink.
func NewNoOpSink() *NoOpSink {
	return &NoOpSink{}
}

// JobStarted does nothing.
func (s *NoOpSink) JobStarted(_ int, _ string) {}

// JobFinished does nothing.
func (s *NoOpSink) JobFinished(_ int, _ string, _ error) {}

// JobSkipped does nothing.
func (s *NoOpSink) JobSkipped(_ string) {}

// Close does nothing.
func (s *NoOpSink) Close() error { return nil }
