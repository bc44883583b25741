package sched

import "time"

// Manual is a test double Scheduler driven by a virtual clock.
// Nothing runs until Advance (or RunPending) is called, so tests control
// exactly when each callback fires and in what order.
// Not safe for concurrent use — tests drive it from one goroutine.
type Manual struct {
	now     time.Time
	seq     int
	pending []entry
}

type entry struct {
	due time.Time
	seq int // submission order, breaks due-time ties
	fn  func()
}

// NewManual creates a Manual scheduler starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Time {
	return m.now
}

// After schedules fn to run when the virtual clock reaches now+d.
// The callback never runs synchronously inside After.
func (m *Manual) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.pending = append(m.pending, entry{due: m.now.Add(d), seq: m.seq, fn: fn})
	m.seq++
}

// Pending returns the number of callbacks not yet fired.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Advance moves the virtual clock forward by d, firing every due callback in
// (due time, submission) order. Callbacks scheduled while advancing run too,
// if they fall due within the same window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		i := m.nextDue(target)
		if i < 0 {
			break
		}
		e := m.pending[i]
		m.pending = append(m.pending[:i], m.pending[i+1:]...)
		if e.due.After(m.now) {
			m.now = e.due
		}
		e.fn()
	}
	m.now = target
}

// RunPending fires everything due at the current virtual time, including
// zero-delay callbacks scheduled by the callbacks themselves.
func (m *Manual) RunPending() {
	m.Advance(0)
}

// nextDue returns the index of the earliest entry due at or before target,
// or -1 if none is due.
func (m *Manual) nextDue(target time.Time) int {
	best := -1
	for i, e := range m.pending {
		if e.due.After(target) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := m.pending[best]
		if e.due.Before(b.due) || (e.due.Equal(b.due) && e.seq < b.seq) {
			best = i
		}
	}
	return best
}
