package indicator

// FakeCircuit records SetEnabled calls for test assertions.
type FakeCircuit struct {
	// Enabled is the most recent state applied.
	Enabled bool

	// History contains every state applied, in order.
	History []bool
}

// NewFakeCircuit creates a FakeCircuit in the off state.
func NewFakeCircuit() *FakeCircuit {
	return &FakeCircuit{}
}

// SetEnabled records the new state.
func (f *FakeCircuit) SetEnabled(on bool) {
	f.Enabled = on
	f.History = append(f.History, on)
}

// Reset clears recorded history.
func (f *FakeCircuit) Reset() {
	f.Enabled = false
	f.History = nil
}
