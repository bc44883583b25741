//go:build linux

package indicator

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/conn-manager/internal/logging"
)

// DefaultPin is the BCM pin wired to the provisioning-mode circuit.
const DefaultPin = 21

// GPIOCircuit drives the provisioning-mode circuit through a Linux GPIO line.
//
// The host hardware forces the circuit on for a warm-up window after power-on
// so the device can always be provisioned out of the box. The driver honors
// that window: until it expires, off requests are remembered but the line
// stays high. The policy's state is applied once the window lapses.
type GPIOCircuit struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line

	mu          sync.Mutex
	desired     bool
	warmupUntil time.Time
}

// NewGPIOCircuit opens the given pin as an output. warmup is the post-boot
// forced-on window; zero disables it.
func NewGPIOCircuit(pin int, warmup time.Duration) (*GPIOCircuit, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request indicator pin %d: %w", pin, err)
	}

	c := &GPIOCircuit{chip: chip, line: line}
	if warmup > 0 {
		c.warmupUntil = time.Now().Add(warmup)
		c.write(true)
		time.AfterFunc(warmup, c.applyDesired)
	}
	return c, nil
}

// SetEnabled applies the requested state, subject to the warm-up hold.
func (c *GPIOCircuit) SetEnabled(on bool) {
	c.mu.Lock()
	c.desired = on
	held := time.Now().Before(c.warmupUntil)
	c.mu.Unlock()

	if held && !on {
		logging.Debug("indicator off deferred until warm-up expires")
		return
	}
	c.write(on)
}

// applyDesired writes the last requested state once the warm-up window ends.
func (c *GPIOCircuit) applyDesired() {
	c.mu.Lock()
	on := c.desired
	c.mu.Unlock()
	c.write(on)
}

func (c *GPIOCircuit) write(on bool) {
	v := 0
	if on {
		v = 1
	}
	if err := c.line.SetValue(v); err != nil {
		logging.Warn("indicator write failed", "err", err)
	}
}

// Close releases the GPIO line, leaving the circuit off.
func (c *GPIOCircuit) Close() error {
	var errs []error
	if c.line != nil {
		if err := c.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear indicator pin: %w", err))
		}
		if err := c.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close indicator pin: %w", err))
		}
	}
	if c.chip != nil {
		if err := c.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
