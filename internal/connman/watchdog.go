package connman

// watchdogTick reconciles believed state against the transport's
// authoritative view. It reschedules itself unconditionally first, so the
// watchdog never stops, and skips reconciliation while a transition is in
// flight. Drops observed here are the only source of expected=false
// disconnected flows.
func (m *Manager) watchdogTick() {
	m.scheduler.After(m.pollInterval, m.watchdogTick)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transitioning {
		return
	}
	actual := m.transport.IsConnected()
	if actual == m.connected {
		return
	}
	m.connected = actual
	if actual {
		m.connectedFlowLocked()
	} else {
		m.disconnectedFlowLocked(false)
	}
}
