package service

import "sync"

// planLocks hands out one mutex per plan id so read-modify-write cycles on
// the same plan run one at a time. Entries are dropped once unused.
type planLocks struct {
	mu    sync.Mutex
	locks map[string]*planLock
}

type planLock struct {
	mu   sync.Mutex
	refs int
}

func newPlanLocks() *planLocks {
	return &planLocks{locks: make(map[string]*planLock)}
}

// Lock blocks until the plan id is free and returns its release func.
func (p *planLocks) Lock(id string) func() {
	p.mu.Lock()
	entry, ok := p.locks[id]
	if !ok {
		entry = &planLock{}
		p.locks[id] = entry
	}
	entry.refs++
	p.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		p.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(p.locks, id)
		}
		p.mu.Unlock()
	}
}
