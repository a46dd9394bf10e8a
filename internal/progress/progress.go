// Package progress tracks live download counters for in-flight jobs.
//
// Counters are ephemeral: they live only as long as the process and are
// joined onto queue items at read time. The queue database never sees them.
package progress

import "sync"

// Snapshot holds the counters reported by a downloader for one job.
type Snapshot struct {
	PartsToDownload int
	DownloadedParts int
	// DownloadSpeed is measured in megabytes per second.
	DownloadSpeed float64
}

// Registry is a concurrency-safe map of job id to its latest Snapshot.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	mu        sync.RWMutex
	snapshots map[int64]Snapshot
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{snapshots: make(map[int64]Snapshot)}
}

// Set stores the latest counters for a job, replacing any previous value.
func (r *Registry) Set(id int64, snapshot Snapshot) {
	r.mu.Lock()
	r.snapshots[id] = snapshot
	r.mu.Unlock()
}

// Get returns the counters for a job and whether any were recorded.
func (r *Registry) Get(id int64) (Snapshot, bool) {
	r.mu.RLock()
	snapshot, ok := r.snapshots[id]
	r.mu.RUnlock()
	return snapshot, ok
}

// Remove drops a job's counters, typically when it leaves the downloading
// state. Removing an unknown id is a no-op.
func (r *Registry) Remove(id int64) {
	r.mu.Lock()
	delete(r.snapshots, id)
	r.mu.Unlock()
}

// Len returns the number of jobs with recorded counters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.snapshots)
}
