//go:build !linux

package indicator

import (
	"errors"
	"time"
)

// DefaultPin is the BCM pin wired to the provisioning-mode circuit.
const DefaultPin = 21

// GPIOCircuit is not available on non-Linux platforms.
type GPIOCircuit struct{}

// NewGPIOCircuit returns an error on non-Linux platforms.
func NewGPIOCircuit(pin int, warmup time.Duration) (*GPIOCircuit, error) {
	return nil, errors.New("indicator: gpio not supported on this platform (requires Linux)")
}

// SetEnabled is not implemented on non-Linux platforms.
func (c *GPIOCircuit) SetEnabled(on bool) {}

// Close is not implemented on non-Linux platforms.
func (c *GPIOCircuit) Close() error { return nil }
