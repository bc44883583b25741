package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/sweeney/conn-manager/internal/connman"
	"github.com/sweeney/conn-manager/internal/indicator"
	"github.com/sweeney/conn-manager/internal/sched"
	"github.com/sweeney/conn-manager/internal/status"
	"github.com/sweeney/conn-manager/internal/transport"
)

// TestIntegrationLifecycle exercises the daemon wiring end to end with fakes:
// offline logging, connect, an unexpected drop with automatic reconnect, and
// the status tracker fed from the manager's handlers.
func TestIntegrationLifecycle(t *testing.T) {
	tr := transport.NewFake()
	circuit := indicator.NewFakeCircuit()
	clock := sched.NewManual(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	manager := connman.New(tr, circuit, clock, connman.Config{
		StayConnected: true,
		Now:           clock.Now,
	})

	tracker := status.NewTracker(clock.Now(), status.Config{Broker: "tcp://broker:1883"})
	manager.OnConnect(func() { tracker.SetConnected(true, clock.Now()) })
	manager.OnDisconnect(func(expected bool) {
		tracker.SetConnected(false, clock.Now())
		tracker.SetLastDropExpected(expected)
	})

	// Indicator defaults to on-disconnect: lit at boot.
	if !circuit.Enabled {
		t.Error("indicator should be lit while disconnected")
	}

	// Diagnostics recorded offline are buffered, not sent.
	manager.Log("booted")
	manager.Error("sensor flaky")
	if manager.BufferedLogs() != 2 {
		t.Fatalf("BufferedLogs: got %d, want 2", manager.BufferedLogs())
	}

	// First connect: buffer flushes in order, tracker learns the state.
	if !manager.Connect() {
		t.Fatal("Connect returned false")
	}
	clock.RunPending()

	if !tracker.Snapshot().Connected {
		t.Error("tracker not marked connected")
	}
	if circuit.Enabled {
		t.Error("indicator should be dark while connected")
	}
	if len(tr.InfoLines) != 1 || !strings.HasSuffix(tr.InfoLines[0], " - booted") {
		t.Errorf("info lines: got %v", tr.InfoLines)
	}
	if len(tr.ErrorLines) != 1 || !strings.HasSuffix(tr.ErrorLines[0], " - sensor flaky") {
		t.Errorf("error lines: got %v", tr.ErrorLines)
	}

	// Live logging goes straight through.
	manager.Log("steady state")
	if len(tr.InfoLines) != 2 || tr.InfoLines[1] != "steady state" {
		t.Errorf("live info lines: got %v", tr.InfoLines)
	}

	// The link drops out from under us: the watchdog notices, reports an
	// unexpected drop, and stay-connected brings the link back.
	tr.Connected = false
	clock.Advance(connman.DefaultPollInterval)

	snap := tracker.Snapshot()
	if !snap.Connected {
		t.Error("tracker should be connected again after automatic reconnect")
	}
	if snap.LastDropExpected {
		t.Error("drop should have been recorded as unexpected")
	}
	if tr.ConnectCalls != 2 {
		t.Errorf("ConnectCalls: got %d, want 2 (initial + auto reconnect)", tr.ConnectCalls)
	}

	// Refresh pulls the volatile fields for the status page.
	tracker.Refresh(manager.Transitioning(), manager.StatsSnapshot(),
		manager.PendingTasks(), manager.BufferedLogs())
	snap = tracker.Snapshot()
	if snap.Counts.Connects != 2 {
		t.Errorf("Connects: got %d, want 2", snap.Counts.Connects)
	}
	if snap.Counts.UnexpectedDisconnects != 1 {
		t.Errorf("UnexpectedDisconnects: got %d, want 1", snap.Counts.UnexpectedDisconnects)
	}
	if snap.QueueDepth != 0 || snap.BufferedLogs != 0 {
		t.Errorf("queue=%d buffered=%d, want both 0", snap.QueueDepth, snap.BufferedLogs)
	}
}

// TestIntegrationConnectForBatch models the "wake, report, sleep" pattern:
// queue readings offline, then connect for exactly one upload pass.
func TestIntegrationConnectForBatch(t *testing.T) {
	tr := transport.NewFake()
	circuit := indicator.NewFakeCircuit()
	clock := sched.NewManual(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	manager := connman.New(tr, circuit, clock, connman.Config{Now: clock.Now})

	var drops []bool
	manager.OnDisconnect(func(expected bool) { drops = append(drops, expected) })

	var uploaded []string
	manager.OnNextConnect(func() { uploaded = append(uploaded, "reading-1") })
	manager.OnNextConnect(func() { uploaded = append(uploaded, "reading-2") })
	manager.ConnectFor(func() { uploaded = append(uploaded, "summary") })
	clock.RunPending()

	want := []string{"reading-1", "reading-2", "summary"}
	if len(uploaded) != len(want) {
		t.Fatalf("uploads: got %v, want %v", uploaded, want)
	}
	for i := range want {
		if uploaded[i] != want[i] {
			t.Errorf("upload %d: got %s, want %s", i, uploaded[i], want[i])
		}
	}
	if manager.IsConnected() {
		t.Error("still connected after ConnectFor batch")
	}
	if len(drops) != 1 || !drops[0] {
		t.Errorf("drops: got %v, want [true]", drops)
	}
	if !circuit.Enabled {
		t.Error("indicator should be lit again after the batch disconnect")
	}
}
