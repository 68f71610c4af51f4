package services

import "sync"

// OwnerLocks serializes cart and checkout operations per owner, so two
// near-simultaneous first-adds from the same user cannot race on cart
// creation. Locks for different owners are independent.
type OwnerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewOwnerLocks() *OwnerLocks {
	return &OwnerLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the owner's mutex and returns the matching unlock.
func (l *OwnerLocks) Lock(ownerID string) func() {
	l.mu.Lock()
	m, ok := l.locks[ownerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[ownerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
