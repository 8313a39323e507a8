package locks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyed_SerializesSameKey(t *testing.T) {
	k := NewKeyed()

	const goroutines = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Lock("owner-1")
			defer k.Unlock("owner-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestKeyed_IndependentKeysDoNotBlock(t *testing.T) {
	k := NewKeyed()

	k.Lock("owner-1")
	done := make(chan struct{})
	go func() {
		k.Lock("owner-2")
		k.Unlock("owner-2")
		close(done)
	}()
	<-done // would hang if owner-2 waited on owner-1's lock
	k.Unlock("owner-1")
}

func TestKeyed_EntriesAreReclaimed(t *testing.T) {
	k := NewKeyed()

	k.Lock("owner-1")
	k.Unlock("owner-1")

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.entries)
}

func TestKeyed_LockPairOpposingOrder(t *testing.T) {
	k := NewKeyed()

	// Opposing lock orders deadlock without ordered acquisition
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			k.LockPair("a", "b")
			k.UnlockPair("a", "b")
		}()
		go func() {
			defer wg.Done()
			k.LockPair("b", "a")
			k.UnlockPair("b", "a")
		}()
	}
	wg.Wait()
}

func TestKeyed_LockPairSameKey(t *testing.T) {
	k := NewKeyed()
	k.LockPair("a", "a")
	k.UnlockPair("a", "a")

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.entries)
}

func TestKeyed_UnlockUnheldPanics(t *testing.T) {
	k := NewKeyed()
	assert.Panics(t, func() { k.Unlock("never-locked") })
}
