package service

import "sync"

// tableLocker hands out one mutex per table ID so that the
// check-then-commit sequence for a table runs serially within this
// process.  Mutexes are created lazily and never evicted; the map
// is bounded by the number of distinct tables booked through this
// process, which is small and stable.
type tableLocker struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newTableLocker() *tableLocker {
	return &tableLocker{locks: make(map[uint64]*sync.Mutex)}
}

// Lock acquires the mutex for the given table, creating it on first
// use.  The caller must call Unlock with the same ID.
func (l *tableLocker) Lock(tableID uint64) {
	l.mu.Lock()
	m, ok := l.locks[tableID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tableID] = m
	}
	l.mu.Unlock()
	m.Lock()
}

// Unlock releases the mutex for the given table.
func (l *tableLocker) Unlock(tableID uint64) {
	l.mu.Lock()
	m := l.locks[tableID]
	l.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}
