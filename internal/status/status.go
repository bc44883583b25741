// Package status provides a thread-safe status tracker for the conn-manager
// daemon. It is read by HTTP handlers; the connection manager feeds it
// through its connect/disconnect handlers and a periodic refresh.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/conn-manager/internal/connman"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs        int64
	Broker        string
	DeviceID      string
	HTTPAddr      string
	IndicatorMode string
	StayConnected bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Connected        bool
	Transitioning    bool
	LastChange       time.Time
	LastDropExpected bool
	Counts           connman.Stats
	QueueDepth       int
	BufferedLogs     int
	StartTime        time.Time
	Now              time.Time
	Config           Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetConnected records a connection state change.
func (t *Tracker) SetConnected(connected bool, when time.Time) {
	t.mu.Lock()
	t.snap.Connected = connected
	t.snap.LastChange = when
	t.mu.Unlock()
}

// SetLastDropExpected records whether the most recent disconnect was
// requested or observed by the watchdog.
func (t *Tracker) SetLastDropExpected(expected bool) {
	t.mu.Lock()
	t.snap.LastDropExpected = expected
	t.mu.Unlock()
}

// Refresh updates the fields that change between connection events.
// Called before serving a status page.
func (t *Tracker) Refresh(transitioning bool, counts connman.Stats, queueDepth, bufferedLogs int) {
	t.mu.Lock()
	t.snap.Transitioning = transitioning
	t.snap.Counts = counts
	t.snap.QueueDepth = queueDepth
	t.snap.BufferedLogs = bufferedLogs
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
