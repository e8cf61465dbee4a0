package scheduling

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStudioLocks_SerialisesPerStudio(t *testing.T) {
	locks := NewStudioLocks()
	studio := uuid.New()

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(studio)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locks.held(), "entries are released")
}

func TestStudioLocks_IndependentStudios(t *testing.T) {
	locks := NewStudioLocks()
	a, b := uuid.New(), uuid.New()

	unlockA := locks.Lock(a)
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock(b)
		unlockB()
		close(done)
	}()
	<-done

	unlockA()
	unlockA()
	assert.Equal(t, 0, locks.held())
}
