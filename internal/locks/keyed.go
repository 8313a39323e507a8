// Package locks provides per-key mutual exclusion. Collection mutations for
// one owner are read-then-write over slot indices, so every mutating path
// takes the owner's lock first: the explicit version of the original bot's
// one-command-per-user throttle.
package locks

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Keyed hands out one mutex per key, created on demand and discarded when
// the last holder releases it
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewKeyed creates a new keyed lock set
func NewKeyed() *Keyed {
	return &Keyed{
		entries: make(map[string]*entry),
	}
}

// Lock acquires the mutex for key, blocking until it is free
func (k *Keyed) Lock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. Unlocking a key that is not held panics,
// same as sync.Mutex.
func (k *Keyed) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("locks: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

// LockPair acquires both keys in a stable order so two parties locking each
// other cannot deadlock. Locking the same key twice is a single acquisition.
func (k *Keyed) LockPair(a, b string) {
	if a == b {
		k.Lock(a)
		return
	}
	if b < a {
		a, b = b, a
	}
	k.Lock(a)
	k.Lock(b)
}

// UnlockPair releases both keys acquired by LockPair
func (k *Keyed) UnlockPair(a, b string) {
	if a == b {
		k.Unlock(a)
		return
	}
	if b < a {
		a, b = b, a
	}
	k.Unlock(b)
	k.Unlock(a)
}
