// Package transport abstracts the device's network link and its remote log
// sink. The real implementation speaks MQTT; the fake allows testing the
// connection manager without a broker.
package transport

import "time"

// Transport is the link the connection manager drives.
type Transport interface {
	// IsConnected reports the authoritative link state.
	IsConnected() bool

	// Connect starts an asynchronous connection attempt. done is invoked
	// exactly once, after Connect returns, with the attempt outcome.
	Connect(done func(ok bool))

	// Disconnect drops the link immediately.
	Disconnect()

	// Flush waits up to timeout for in-flight uplink traffic to drain.
	Flush(timeout time.Duration)

	// LogInfo sends an informational line to the remote log sink.
	LogInfo(line string)

	// LogError sends an error line to the remote log sink.
	LogError(line string)
}
