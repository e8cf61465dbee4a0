package scheduling

import (
	"sync"

	"github.com/google/uuid"
)

// StudioLocks is a mutex per studio id. Entries are created on demand and
// dropped once no goroutine holds or waits on them.
type StudioLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*studioLock
}

type studioLock struct {
	mu   sync.Mutex
	refs int
}

func NewStudioLocks() *StudioLocks {
	return &StudioLocks{locks: make(map[uuid.UUID]*studioLock)}
}

// Lock blocks until the studio's scope is free and returns its release func.
func (l *StudioLocks) Lock(studioID uuid.UUID) (unlock func()) {
	l.mu.Lock()
	sl, ok := l.locks[studioID]
	if !ok {
		sl = &studioLock{}
		l.locks[studioID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sl.mu.Unlock()

			l.mu.Lock()
			sl.refs--
			if sl.refs == 0 {
				delete(l.locks, studioID)
			}
			l.mu.Unlock()
		})
	}
}

// held returns how many studios currently have a lock entry.
func (l *StudioLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
