package metrics

import (
	"sync"
	"time"
)

type mutationStats struct {
	calls       int
	errors      int
	updated     int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about roster mutations and
// forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*mutationStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*mutationStats),
		otel:  otel,
	}
}

// RecordRosterMutation counts one engine protocol call, the players it updated, and its latency.
func (r *Recorder) RecordRosterMutation(op string, updated int, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.stats[op]
	if !ok {
		stats = &mutationStats{}
		r.stats[op] = stats
	}
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	} else {
		stats.updated += updated
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordMutation(op, updated, duration, err)
	}
}

// Snapshot is a copy of the current stats for one mutation op.
type Snapshot struct {
	Calls       int
	Errors      int
	Updated     int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[op]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		Updated:     stats.updated,
		LastLatency: stats.lastLatency,
	}
}

// MutationCalls returns the total calls recorded for an op.
func (r *Recorder) MutationCalls(op string) int {
	return r.Snapshot(op).Calls
}

// MutationErrors returns the failed calls recorded for an op.
func (r *Recorder) MutationErrors(op string) int {
	return r.Snapshot(op).Errors
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}
