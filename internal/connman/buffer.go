package connman

type severity int

const (
	severityInfo severity = iota
	severityError
)

// logEntry is one diagnostic line captured while offline.
type logEntry struct {
	ts       int64 // capture time, unix seconds
	severity severity
	message  string
}

// logBuffer is a FIFO of pending diagnostic lines. A zero capacity means
// unbounded; otherwise the oldest entry is dropped on overflow.
// Not safe for concurrent use — the manager's mutex covers it.
type logBuffer struct {
	entries  []logEntry
	capacity int
	overflow bool // true if any entry was dropped since last drain
}

func newLogBuffer(capacity int) *logBuffer {
	return &logBuffer{capacity: capacity}
}

func (b *logBuffer) push(e logEntry) {
	if b.capacity > 0 && len(b.entries) == b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = e
		b.overflow = true
		return
	}
	b.entries = append(b.entries, e)
}

// drainAll returns every buffered entry in FIFO order and empties the buffer.
func (b *logBuffer) drainAll() []logEntry {
	if len(b.entries) == 0 {
		return nil
	}
	out := b.entries
	b.entries = nil
	b.overflow = false
	return out
}

func (b *logBuffer) len() int {
	return len(b.entries)
}

func (b *logBuffer) overflowed() bool {
	return b.overflow
}
