// Package keylock provides per-key mutual exclusion over a dynamic key set.
// It backs the order-scoped saga critical sections and the driver-scoped
// tracking cache updates: operations on the same key are serialized while
// operations on different keys proceed independently.
package keylock

import "sync"

// KeyedMutex is a set of mutexes addressed by string key.
// The zero value is not usable; create instances with New.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the mutex for key, blocking while another caller holds it.
// It returns the matching unlock function; entries are removed once the last
// holder releases, so the map does not grow with the key universe.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
