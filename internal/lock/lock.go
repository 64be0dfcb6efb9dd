// Package lock serializes seat booking per performance.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotAcquired is returned when the lock is still held by another writer
// after the configured wait time.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out one mutual-exclusion scope per performance.
type Locker interface {
	Lock(ctx context.Context, performanceID int) (unlock func(), err error)
}

func performanceLockKey(performanceID int) string {
	return fmt.Sprintf("performance_lock:%d", performanceID)
}

// LocalLocker is an in-process Locker, used when no Redis instance is configured.
// It only serializes writers inside a single process.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[int]chan struct{}
	wait  time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		slots: make(map[int]chan struct{}),
		wait:  wait,
	}
}

func (l *LocalLocker) slot(performanceID int) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[performanceID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[performanceID] = ch
	}

	return ch
}

func (l *LocalLocker) Lock(ctx context.Context, performanceID int) (func(), error) {
	ch := l.slot(performanceID)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-timer.C:
		return nil, ErrNotAcquired
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
