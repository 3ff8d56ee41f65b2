package timer

import (
	"sync"

	"github.com/benjamonnguyen/focusflow"
)

// lockTable serializes transitions per session id so two concurrent calls
// cannot both read the same record state.
type lockTable struct {
	mu    sync.Mutex
	locks map[focusflow.TimerSessionID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{
		locks: make(map[focusflow.TimerSessionID]*sessionLock),
	}
}

// Acquire blocks until the session lock is held and returns the release func.
func (t *lockTable) Acquire(id focusflow.TimerSessionID) func() {
	t.mu.Lock()
	l := t.locks[id]
	if l == nil {
		l = &sessionLock{}
		t.locks[id] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, id)
		}
		t.mu.Unlock()
	}
}
