// Package telemetry reports per-job progress through Progrock vertices.
// Batch constituents arrive under their quasi-pids, so each shows up as its
// own vertex even though one process ran them all.
package telemetry

import (
	"fmt"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/mill/internal/core/ports"
)

// Recorder implements ports.ProgressSink using the progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu       sync.Mutex
	vertices map[int]*progrock.VertexRecorder
}

var _ ports.ProgressSink = (*Recorder)(nil)

// New creates a Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:        w,
		rec:      progrock.NewRecorder(w),
		vertices: make(map[int]*progrock.VertexRecorder),
	}
}

// JobStarted opens a vertex for the job keyed by its (quasi-)pid.
func (r *Recorder) JobStarted(pid int, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := digest.FromString(fmt.Sprintf("%s#%d", name, pid))
	r.vertices[pid] = r.rec.Vertex(d, name)
}

// JobFinished completes the job's vertex. err is nil on success.
func (r *Recorder) JobFinished(pid int, name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vertices[pid]
	if !ok {
		// Finished without an observed start (e.g. launch failure); record
		// the whole lifetime at once.
		d := digest.FromString(fmt.Sprintf("%s#%d", name, pid))
		v = r.rec.Vertex(d, name)
	}
	delete(r.vertices, pid)
	v.Done(err)
}

// JobSkipped records a job that was deliberately not run as cached.
func (r *Recorder) JobSkipped(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.rec.Vertex(digest.FromString(name), name)
	v.Cached()
	v.Done(nil)
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	r.rec.Complete()
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
