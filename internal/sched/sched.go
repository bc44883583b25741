// Package sched provides the timer capability used by the connection manager.
// The real implementation rides on the runtime timer; the manual implementation
// gives tests a virtual clock.
package sched

import "time"

// Scheduler schedules a callback to run once after a delay.
// A zero delay means "as soon as possible, but not synchronously" — callers
// rely on After returning before the callback runs.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Timer is the production Scheduler, backed by time.AfterFunc.
type Timer struct{}

// NewTimer creates a Timer scheduler.
func NewTimer() *Timer {
	return &Timer{}
}

// After runs fn once after d on a runtime timer goroutine.
func (t *Timer) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	time.AfterFunc(d, fn)
}
