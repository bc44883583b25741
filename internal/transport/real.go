package transport

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/conn-manager/internal/logging"
)

const (
	connectTimeout = 30 * time.Second
	publishTimeout = 5 * time.Second
)

// MQTT is the production Transport: an uplink to an MQTT broker.
// Log lines are published to device/<id>/log/info and device/<id>/log/error.
// Auto-reconnect is intentionally off — the connection manager owns the
// link lifecycle.
type MQTT struct {
	client     paho.Client
	topicInfo  string
	topicError string

	mu        sync.Mutex
	lastToken paho.Token
}

// NewMQTT creates an MQTT transport for the given broker and device id.
// The broker is not contacted until Connect is called.
func NewMQTT(broker, deviceID string) *MQTT {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(deviceID).
		SetAutoReconnect(false).
		SetConnectTimeout(connectTimeout).
		SetWriteTimeout(publishTimeout)

	return &MQTT{
		client:     paho.NewClient(opts),
		topicInfo:  fmt.Sprintf("device/%s/log/info", deviceID),
		topicError: fmt.Sprintf("device/%s/log/error", deviceID),
	}
}

// IsConnected reports the broker connection state.
func (m *MQTT) IsConnected() bool {
	return m.client.IsConnected()
}

// Connect starts an asynchronous connect attempt against the broker.
// done runs on a separate goroutine once the attempt settles.
func (m *MQTT) Connect(done func(ok bool)) {
	token := m.client.Connect()
	go func() {
		ok := token.WaitTimeout(connectTimeout) && token.Error() == nil
		if !ok {
			logging.Debug("mqtt connect failed", "err", token.Error())
		}
		done(ok)
	}()
}

// Disconnect drops the broker connection, allowing 250ms for an orderly close.
func (m *MQTT) Disconnect() {
	m.client.Disconnect(250)
}

// Flush waits up to timeout for the most recent publish to be acknowledged.
// QoS 1 means earlier publishes are acknowledged in order, so waiting on the
// last token drains the lot.
func (m *MQTT) Flush(timeout time.Duration) {
	m.mu.Lock()
	token := m.lastToken
	m.mu.Unlock()
	if token == nil {
		return
	}
	token.WaitTimeout(timeout)
}

// LogInfo publishes an info line.
func (m *MQTT) LogInfo(line string) {
	m.publish(m.topicInfo, line)
}

// LogError publishes an error line.
func (m *MQTT) LogError(line string) {
	m.publish(m.topicError, line)
}

func (m *MQTT) publish(topic, line string) {
	// QoS 1 (at-least-once), not retained
	token := m.client.Publish(topic, 1, false, []byte(line))
	m.mu.Lock()
	m.lastToken = token
	m.mu.Unlock()
	if !token.WaitTimeout(publishTimeout) {
		logging.Debug("mqtt publish timeout", "topic", topic)
		return
	}
	if err := token.Error(); err != nil {
		logging.Debug("mqtt publish failed", "topic", topic, "err", err)
	}
}
