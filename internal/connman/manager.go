// Package connman centralizes the device's connectivity lifecycle: it owns
// the believed connection state, arbitrates connect/disconnect requests,
// reconciles drift against the transport with a polling watchdog, defers
// work until the link is up, buffers diagnostic output while offline, and
// drives the provisioning-mode indicator from connection state.
//
// This package has no dependencies beyond the capability interfaces it is
// handed. Time is injectable via the Now config field.
package connman

import (
	"fmt"
	"sync"
	"time"

	"github.com/sweeney/conn-manager/internal/indicator"
	"github.com/sweeney/conn-manager/internal/sched"
	"github.com/sweeney/conn-manager/internal/transport"
)

// DefaultPollInterval is the watchdog period when none is configured.
const DefaultPollInterval = 5 * time.Second

// DefaultFlushTimeout bounds the transport flush performed before an
// orderly disconnect.
const DefaultFlushTimeout = 30 * time.Second

// Config carries construction-time settings. Only the indicator mode can be
// changed after construction, via SetIndicatorMode.
type Config struct {
	// PollInterval is the watchdog period. Defaults to DefaultPollInterval.
	PollInterval time.Duration

	// StayConnected schedules an automatic reconnect attempt after every
	// disconnected flow.
	StayConnected bool

	// IndicatorMode selects when the provisioning-mode circuit is lit.
	// The zero value is indicator.OnDisconnect.
	IndicatorMode indicator.Mode

	// StartDisconnected forces the transport down at construction instead
	// of adopting its current state.
	StartDisconnected bool

	// FlushTimeout bounds the transport flush before an orderly disconnect.
	// Defaults to DefaultFlushTimeout.
	FlushTimeout time.Duration

	// LogBufferCap caps the offline log buffer; when full the oldest entry
	// is dropped. Zero means unbounded.
	LogBufferCap int

	// Now is the clock used for log capture timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Stats are cumulative transition counters, read by the status page.
type Stats struct {
	Connects              int
	ExpectedDisconnects   int
	UnexpectedDisconnects int
}

// Manager is the connectivity lifecycle manager. One instance owns one
// physical link; construct it with New.
//
// All state lives behind a single mutex. Handlers and deferred tasks never
// run while the mutex is held — they are handed to the scheduler, which runs
// them one at a time.
type Manager struct {
	transport transport.Transport
	circuit   indicator.Circuit
	scheduler sched.Scheduler

	pollInterval  time.Duration
	stayConnected bool
	flushTimeout  time.Duration
	now           func() time.Time

	mu            sync.Mutex
	connected     bool // believed state, reconciled by the watchdog
	transitioning bool // a connect or disconnect is in flight
	mode          indicator.Mode
	onConnect     func()
	onDisconnect  func(expected bool)
	tasks         []func()
	draining      bool
	logs          *logBuffer
	stats         Stats
}

// New creates a Manager, applies the initial indicator state, and starts the
// watchdog. The believed state is adopted from the transport unless
// StartDisconnected forces the link down first.
func New(tr transport.Transport, circuit indicator.Circuit, scheduler sched.Scheduler, cfg Config) *Manager {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultFlushTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	m := &Manager{
		transport:     tr,
		circuit:       circuit,
		scheduler:     scheduler,
		pollInterval:  cfg.PollInterval,
		stayConnected: cfg.StayConnected,
		flushTimeout:  cfg.FlushTimeout,
		now:           cfg.Now,
		mode:          cfg.IndicatorMode,
		logs:          newLogBuffer(cfg.LogBufferCap),
	}

	if cfg.StartDisconnected {
		tr.Disconnect()
		m.connected = false
	} else {
		m.connected = tr.IsConnected()
	}
	m.applyIndicatorLocked()

	m.scheduler.After(m.pollInterval, m.watchdogTick)
	return m
}

// IsConnected reports the believed connection state.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Transitioning reports whether a connect or disconnect is in flight.
func (m *Manager) Transitioning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitioning
}

// StatsSnapshot returns the cumulative transition counters.
func (m *Manager) StatsSnapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// OnConnect registers the handler scheduled after every connected flow.
// Pass nil to clear.
func (m *Manager) OnConnect(handler func()) {
	m.mu.Lock()
	m.onConnect = handler
	m.mu.Unlock()
}

// OnDisconnect registers the handler scheduled after every disconnected flow.
// expected is false only for drops observed by the watchdog. Pass nil to clear.
func (m *Manager) OnDisconnect(handler func(expected bool)) {
	m.mu.Lock()
	m.onDisconnect = handler
	m.mu.Unlock()
}

// SetIndicatorMode changes the indicator policy and applies it immediately.
func (m *Manager) SetIndicatorMode(mode indicator.Mode) *Manager {
	m.mu.Lock()
	m.mode = mode
	m.applyIndicatorLocked()
	m.mu.Unlock()
	return m
}

// IndicatorMode returns the current indicator policy.
func (m *Manager) IndicatorMode() indicator.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Connect starts a connection attempt. It returns false, with no side
// effects, while a transition is in flight. If the device is already
// believed connected the connected flow runs synchronously and the transport
// is not touched.
//
// A failed attempt is absorbed silently; the watchdog (or the caller calling
// Connect again) takes it from there.
func (m *Manager) Connect() bool {
	m.mu.Lock()
	if m.transitioning {
		m.mu.Unlock()
		return false
	}
	if m.connected {
		m.connectedFlowLocked()
		m.mu.Unlock()
		return true
	}
	m.transitioning = true
	m.mu.Unlock()

	m.transport.Connect(func(ok bool) {
		m.mu.Lock()
		m.transitioning = false
		if !ok {
			m.mu.Unlock()
			return
		}
		m.connected = true
		m.connectedFlowLocked()
		m.mu.Unlock()
	})
	return true
}

// Disconnect drops the link. It returns false while a transition is in
// flight. If the device is already believed disconnected the disconnected
// flow still runs with expected=true and the transport is not touched.
func (m *Manager) Disconnect() bool {
	m.mu.Lock()
	if m.transitioning {
		m.mu.Unlock()
		return false
	}
	if !m.connected {
		m.disconnectedFlowLocked(true)
		m.mu.Unlock()
		return true
	}
	m.transitioning = true
	m.mu.Unlock()

	m.transport.Flush(m.flushTimeout)
	m.transport.Disconnect()

	m.mu.Lock()
	m.connected = false
	m.transitioning = false
	m.disconnectedFlowLocked(true)
	m.mu.Unlock()
	return true
}

// Log forwards an info line to the transport when connected, otherwise
// buffers it with a capture timestamp for the next connected flow.
func (m *Manager) Log(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected {
		m.transport.LogInfo(message)
		return
	}
	m.logs.push(logEntry{ts: m.now().Unix(), severity: severityInfo, message: message})
}

// Error is Log for error-severity lines.
func (m *Manager) Error(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected {
		m.transport.LogError(message)
		return
	}
	m.logs.push(logEntry{ts: m.now().Unix(), severity: severityError, message: message})
}

// BufferedLogs reports how many lines are waiting for the next connect.
func (m *Manager) BufferedLogs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logs.len()
}

// connectedFlowLocked runs the connected flow: indicator, log flush,
// connect handler, queue kick. Caller holds mu.
func (m *Manager) connectedFlowLocked() {
	m.stats.Connects++
	m.applyIndicatorLocked()
	m.flushLogsLocked()
	if h := m.onConnect; h != nil {
		m.scheduler.After(0, h)
	}
	m.drainLocked()
}

// disconnectedFlowLocked runs the disconnected flow. Caller holds mu.
func (m *Manager) disconnectedFlowLocked(expected bool) {
	if expected {
		m.stats.ExpectedDisconnects++
	} else {
		m.stats.UnexpectedDisconnects++
	}
	m.applyIndicatorLocked()
	if h := m.onDisconnect; h != nil {
		m.scheduler.After(0, func() { h(expected) })
	}
	if m.stayConnected {
		m.scheduler.After(0, func() { m.Connect() })
	}
}

// applyIndicatorLocked applies the indicator policy for the current state.
// Caller holds mu.
func (m *Manager) applyIndicatorLocked() {
	m.circuit.SetEnabled(indicator.Decide(m.mode, m.connected))
}

// flushLogsLocked drains the offline buffer to the transport log sinks in
// FIFO order, each line prefixed with its capture timestamp. Runs to
// completion before the connect handler is scheduled. Caller holds mu.
func (m *Manager) flushLogsLocked() {
	for _, e := range m.logs.drainAll() {
		line := fmt.Sprintf("%d - %s", e.ts, e.message)
		if e.severity == severityError {
			m.transport.LogError(line)
		} else {
			m.transport.LogInfo(line)
		}
	}
}
