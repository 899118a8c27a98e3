package server

import "sync/atomic"

// socketLimiter caps the number of concurrent websocket clients per
// instance. Lock-free; Acquire and Release are called from handler
// goroutines.
type socketLimiter struct {
	current atomic.Int64
	max     int64
}

func newSocketLimiter(max int) *socketLimiter {
	return &socketLimiter{max: int64(max)}
}

// Acquire claims a slot, returning false when the instance is at
// capacity.
func (l *socketLimiter) Acquire() bool {
	for {
		current := l.current.Load()
		if current >= l.max {
			return false
		}
		if l.current.CompareAndSwap(current, current+1) {
			return true
		}
	}
}

func (l *socketLimiter) Release() {
	l.current.Add(-1)
}

// Current returns the number of slots held.
func (l *socketLimiter) Current() int64 {
	return l.current.Load()
}
