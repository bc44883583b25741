package connman

// OnNextConnect enqueues task to run once connectivity is confirmed. Tasks
// run strictly in enqueue order, exactly once each, one per scheduler turn.
// If already connected the task runs on the next scheduler turn, never
// synchronously inside the caller.
func (m *Manager) OnNextConnect(task func()) *Manager {
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.drainLocked()
	m.mu.Unlock()
	return m
}

// ConnectFor connects, runs exactly one task, then disconnects. The task is
// queued behind any tasks already waiting; the automatic disconnect fires the
// disconnected flow with expected=true.
func (m *Manager) ConnectFor(task func()) {
	m.OnNextConnect(func() {
		task()
		m.Disconnect()
	})
	m.Connect()
}

// PendingTasks reports how many deferred tasks are queued.
func (m *Manager) PendingTasks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// drainLocked starts the drain chain if the queue has work, the device is
// connected, no transition is in flight, and no chain is already running.
// Caller holds mu.
func (m *Manager) drainLocked() {
	if m.draining || len(m.tasks) == 0 || m.transitioning || !m.connected {
		return
	}
	m.draining = true
	m.scheduler.After(0, m.drainStep)
}

// drainStep runs one queued task per scheduler turn. Connectivity and the
// transition gate are re-validated before every pop, so a mid-drain
// disconnect halts the chain and leaves the remaining tasks queued for the
// next connected flow. The task itself runs with the mutex released.
func (m *Manager) drainStep() {
	m.mu.Lock()
	if !m.connected || m.transitioning || len(m.tasks) == 0 {
		m.draining = false
		m.mu.Unlock()
		return
	}
	task := m.tasks[0]
	m.tasks = m.tasks[1:]
	m.mu.Unlock()

	task()

	m.scheduler.After(0, m.drainStep)
}
