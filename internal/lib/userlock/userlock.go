// Package userlock provides a keyed mutex that serializes the
// check-then-write sequence of quota and conflict checks per user.
// Without it two concurrent requests of the same user could both pass a
// quota or overlap check before either write lands.
package userlock

import "sync"

// Locker hands out one mutex per key. Locks are never evicted; the set
// of keys is bounded by the number of users seen by the process.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an empty Locker.
func New() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns the matching unlock func.
//
// Example:
//
//	defer locker.Lock(userUID)()
func (l *Locker) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
