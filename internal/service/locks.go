package service

import "sync"

// voteLocks serializes operations per vote id. Entries are dropped once no
// goroutine holds or waits for them.
type voteLocks struct {
	mu    sync.Mutex
	locks map[uint64]*voteLock
}

type voteLock struct {
	mu   sync.Mutex
	refs int
}

func newVoteLocks() *voteLocks {
	return &voteLocks{locks: make(map[uint64]*voteLock)}
}

// Lock blocks until the vote is free and returns the unlock func
func (l *voteLocks) Lock(voteID uint64) func() {
	l.mu.Lock()
	lock, ok := l.locks[voteID]
	if !ok {
		lock = &voteLock{}
		l.locks[voteID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, voteID)
		}
		l.mu.Unlock()
	}
}

func (l *voteLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
