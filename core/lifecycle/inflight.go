package lifecycle

import "sync"

// InFlight tracks job ids with a pending mutation. It is the only lock
// in the core: a second mutation on a busy job is refused up front, so
// two writes for one job can never overlap. Views query Busy to disable
// controls instead of keeping their own updating flags.
type InFlight struct {
	mu   sync.Mutex
	jobs map[string]struct{}
}

// NewInFlight creates an empty arena.
func NewInFlight() *InFlight {
	return &InFlight{jobs: make(map[string]struct{})}
}

// Acquire reserves the job id. It reports false when a mutation for the
// id is already outstanding.
func (a *InFlight) Acquire(jobID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, busy := a.jobs[jobID]; busy {
		return false
	}
	a.jobs[jobID] = struct{}{}
	return true
}

// Release frees the job id after the mutation resolved.
func (a *InFlight) Release(jobID string) {
	a.mu.Lock()
	delete(a.jobs, jobID)
	a.mu.Unlock()
}

// Busy reports whether a mutation for the id is outstanding.
func (a *InFlight) Busy(jobID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, busy := a.jobs[jobID]
	return busy
}
