package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/conn-manager/internal/connman"
	"github.com/sweeney/conn-manager/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:        5000,
		Broker:        "tcp://192.168.1.200:1883",
		DeviceID:      "garage-door",
		HTTPAddr:      ":8080",
		IndicatorMode: "on-disconnect",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr, nil)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetConnected(true, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	tr.Refresh(false, connman.Stats{Connects: 3, UnexpectedDisconnects: 1}, 2, 5)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if !sj.Status.Link.Connected {
		t.Error("expected Link.Connected=true")
	}
	if sj.Status.Link.LastChange != "2026-01-02T00:00:00Z" {
		t.Errorf("Link.LastChange: got %q", sj.Status.Link.LastChange)
	}
	if sj.Status.Queue.PendingTasks != 2 {
		t.Errorf("Queue.PendingTasks: got %d, want 2", sj.Status.Queue.PendingTasks)
	}
	if sj.Status.Queue.BufferedLogs != 5 {
		t.Errorf("Queue.BufferedLogs: got %d, want 5", sj.Status.Queue.BufferedLogs)
	}
	if sj.Status.Counts.Connects != 3 {
		t.Errorf("Counts.Connects: got %d, want 3", sj.Status.Counts.Connects)
	}
	if sj.Status.Counts.UnexpectedDisconnects != 1 {
		t.Errorf("Counts.UnexpectedDisconnects: got %d, want 1", sj.Status.Counts.UnexpectedDisconnects)
	}
	if sj.Status.Config.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("Config.Broker: got %q", sj.Status.Config.Broker)
	}
	if sj.Status.Config.PollMs != 5000 {
		t.Errorf("Config.PollMs: got %d, want 5000", sj.Status.Config.PollMs)
	}
}

func TestHTMLEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetConnected(true, time.Now())

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	if !strings.Contains(html, "Connection Manager") {
		t.Error("page missing title")
	}
	if !strings.Contains(html, "connected") {
		t.Error("page missing link state")
	}
	if !strings.Contains(html, "tcp://192.168.1.200:1883") {
		t.Error("page missing broker")
	}
}

func TestUnknownPathReturns404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/missing")
	if err != nil {
		t.Fatalf("GET /missing: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestRefreshHookRunsBeforeSnapshot(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := status.NewTracker(start, status.Config{})
	refreshed := 0
	srv := New(":0", tr, func() {
		refreshed++
		tr.Refresh(false, connman.Stats{}, 9, 0)
	})
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if refreshed != 1 {
		t.Errorf("refresh hook runs: got %d, want 1", refreshed)
	}
	if sj.Status.Queue.PendingTasks != 9 {
		t.Errorf("Queue.PendingTasks: got %d, want 9 (refreshed value)", sj.Status.Queue.PendingTasks)
	}
}
