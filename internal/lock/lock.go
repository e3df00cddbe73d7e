// Package lock serializes work on one key, within a process or across processes through Redis.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotHeld is returned by a Release when the lock had already expired or passed to another holder.
var ErrNotHeld = errors.New("lock not held")

// Release gives up a held lock.
type Release func(ctx context.Context) error

// Locker hands out exclusive locks by key. Acquire blocks until the lock is held or ctx is done.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

type localEntry struct {
	sem  chan struct{}
	refs int
}

// Local is a keyed mutex for a single process.
type Local struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

func NewLocal() *Local {
	return &Local{entries: make(map[string]*localEntry)}
}

func (l *Local) Acquire(ctx context.Context, key string) (Release, error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		released := false
		once.Do(func() {
			<-e.sem
			l.unref(key, e)
			released = true
		})
		if !released {
			return ErrNotHeld
		}
		return nil
	}, nil
}

func (l *Local) unref(key string, e *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
