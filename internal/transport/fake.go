package transport

import "time"

// Fake is a test double Transport with scripted behavior.
// Exported fields control responses; recorded fields allow assertions.
type Fake struct {
	// Connected controls IsConnected and is updated by Connect/Disconnect.
	Connected bool

	// ConnectOK is the result reported by the next completed Connect attempt.
	ConnectOK bool

	// HoldConnect, if true, parks Connect attempts until CompleteConnect
	// is called (models a slow link negotiation).
	HoldConnect bool

	// ConnectCalls counts Connect invocations.
	ConnectCalls int

	// DisconnectCalls counts Disconnect invocations.
	DisconnectCalls int

	// FlushCalls records the timeout of each Flush invocation.
	FlushCalls []time.Duration

	// InfoLines and ErrorLines record log sink traffic in order.
	InfoLines  []string
	ErrorLines []string

	pendingDone func(ok bool)
}

// NewFake creates a disconnected Fake that will accept connect attempts.
func NewFake() *Fake {
	return &Fake{ConnectOK: true}
}

// IsConnected reports the scripted link state.
func (f *Fake) IsConnected() bool {
	return f.Connected
}

// Connect records the attempt. If HoldConnect is set the completion callback
// is parked for CompleteConnect; otherwise it runs immediately with ConnectOK.
func (f *Fake) Connect(done func(ok bool)) {
	f.ConnectCalls++
	if f.HoldConnect {
		f.pendingDone = done
		return
	}
	if f.ConnectOK {
		f.Connected = true
	}
	done(f.ConnectOK)
}

// CompleteConnect finishes a held Connect attempt with the given outcome.
// Panics if no attempt is pending — that is a test bug.
func (f *Fake) CompleteConnect(ok bool) {
	if f.pendingDone == nil {
		panic("transport: CompleteConnect with no pending connect")
	}
	done := f.pendingDone
	f.pendingDone = nil
	if ok {
		f.Connected = true
	}
	done(ok)
}

// Disconnect records the call and drops the scripted link.
func (f *Fake) Disconnect() {
	f.DisconnectCalls++
	f.Connected = false
}

// Flush records the call.
func (f *Fake) Flush(timeout time.Duration) {
	f.FlushCalls = append(f.FlushCalls, timeout)
}

// LogInfo records an info line.
func (f *Fake) LogInfo(line string) {
	f.InfoLines = append(f.InfoLines, line)
}

// LogError records an error line.
func (f *Fake) LogError(line string) {
	f.ErrorLines = append(f.ErrorLines, line)
}

// Reset clears all recorded calls and lines.
func (f *Fake) Reset() {
	f.ConnectCalls = 0
	f.DisconnectCalls = 0
	f.FlushCalls = nil
	f.InfoLines = nil
	f.ErrorLines = nil
	f.pendingDone = nil
}
