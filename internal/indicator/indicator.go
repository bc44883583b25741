// Package indicator drives the provisioning-mode indicator circuit.
// The policy deciding whether the circuit is lit is a pure function of the
// configured mode and the current connection state; the circuit itself is an
// interface with a GPIO implementation for real hardware and a fake for tests.
package indicator

import "fmt"

// Mode selects when the provisioning-mode circuit is enabled.
type Mode int

const (
	// OnDisconnect lights the circuit only while disconnected (default).
	OnDisconnect Mode = iota
	// OnConnect lights the circuit only while connected.
	OnConnect
	// Always keeps the circuit lit.
	Always
	// Never keeps the circuit dark.
	Never
)

// String returns the configuration-file spelling of the mode.
func (m Mode) String() string {
	switch m {
	case OnDisconnect:
		return "on-disconnect"
	case OnConnect:
		return "on-connect"
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "on-disconnect":
		return OnDisconnect, nil
	case "on-connect":
		return OnConnect, nil
	case "always":
		return Always, nil
	case "never":
		return Never, nil
	default:
		return OnDisconnect, fmt.Errorf("unknown indicator mode %q", s)
	}
}

// Decide returns whether the circuit should be enabled for the given mode
// and connection state.
func Decide(m Mode, connected bool) bool {
	switch m {
	case Always:
		return true
	case Never:
		return false
	case OnConnect:
		return connected
	default: // OnDisconnect
		return !connected
	}
}

// Circuit is the hardware toggle for the provisioning-mode indicator.
type Circuit interface {
	// SetEnabled turns the circuit on or off.
	SetEnabled(on bool)
}
