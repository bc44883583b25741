package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/conn-manager/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Link          LinkJSON   `json:"link"`
	Queue         QueueJSON  `json:"queue"`
	Counts        CountsJSON `json:"transition_counts"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Config        ConfigJSON `json:"config"`
}

// LinkJSON reports connection state.
type LinkJSON struct {
	Connected        bool   `json:"connected"`
	Transitioning    bool   `json:"transitioning"`
	LastChange       string `json:"last_change,omitempty"`
	LastDropExpected bool   `json:"last_drop_expected"`
}

// QueueJSON reports deferred work waiting for connectivity.
type QueueJSON struct {
	PendingTasks int `json:"pending_tasks"`
	BufferedLogs int `json:"buffered_logs"`
}

// CountsJSON is the JSON representation of transition counts.
type CountsJSON struct {
	Connects              int `json:"connects"`
	ExpectedDisconnects   int `json:"expected_disconnects"`
	UnexpectedDisconnects int `json:"unexpected_disconnects"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs        int64  `json:"poll_ms"`
	Broker        string `json:"broker"`
	DeviceID      string `json:"device_id"`
	HTTPAddr      string `json:"http_addr"`
	IndicatorMode string `json:"indicator_mode"`
	StayConnected bool   `json:"stay_connected"`
}

func formatJSON(snap status.Snapshot) []byte {
	lastChange := ""
	if !snap.LastChange.IsZero() {
		lastChange = snap.LastChange.UTC().Format(time.RFC3339)
	}

	sj := StatusJSON{
		Status: StatusInner{
			Link: LinkJSON{
				Connected:        snap.Connected,
				Transitioning:    snap.Transitioning,
				LastChange:       lastChange,
				LastDropExpected: snap.LastDropExpected,
			},
			Queue: QueueJSON{
				PendingTasks: snap.QueueDepth,
				BufferedLogs: snap.BufferedLogs,
			},
			Counts: CountsJSON{
				Connects:              snap.Counts.Connects,
				ExpectedDisconnects:   snap.Counts.ExpectedDisconnects,
				UnexpectedDisconnects: snap.Counts.UnexpectedDisconnects,
			},
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			Config: ConfigJSON{
				PollMs:        snap.Config.PollMs,
				Broker:        snap.Config.Broker,
				DeviceID:      snap.Config.DeviceID,
				HTTPAddr:      snap.Config.HTTPAddr,
				IndicatorMode: snap.Config.IndicatorMode,
				StayConnected: snap.Config.StayConnected,
			},
		},
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
