package userlock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	locker := New()
	counter := 0

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("user-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLockIndependentKeys(t *testing.T) {
	locker := New()

	unlockA := locker.Lock("user-a")
	defer unlockA()

	// A held lock on another key must not block this one.
	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock("user-b")
		unlockB()
		close(done)
	}()
	<-done
}

func TestLockReusableAfterUnlock(t *testing.T) {
	locker := New()

	unlock := locker.Lock("user-1")
	unlock()

	unlock = locker.Lock("user-1")
	unlock()
}
