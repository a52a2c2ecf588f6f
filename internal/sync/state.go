package sync

import "sync"

// runArena tracks which tasks have an attempt in flight. A scheduled firing
// and a manual run for the same task would otherwise interleave on the same
// record with last-writer-wins on status and log.
type runArena struct {
	mu      sync.Mutex
	running map[int64]struct{}
}

func newRunArena() *runArena {
	return &runArena{running: make(map[int64]struct{})}
}

// tryAcquire marks taskID as running. It reports false when an attempt is
// already in flight, in which case the caller must back off.
func (a *runArena) tryAcquire(taskID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.running[taskID]; ok {
		return false
	}
	a.running[taskID] = struct{}{}
	return true
}

func (a *runArena) release(taskID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.running, taskID)
}
