package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/conn-manager/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Connection Manager</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.connected { color: green; font-weight: bold; }
.disconnected { color: red; }
.transitioning { color: orange; }
</style>
</head>
<body>
<h1>Connection Manager</h1>

<h2>Link</h2>
<table>
<tr><th>State</th><td class="{{if .Transitioning}}transitioning{{else if .Connected}}connected{{else}}disconnected{{end}}">{{if .Transitioning}}transitioning{{else if .Connected}}connected{{else}}disconnected{{end}}</td></tr>
{{if not .LastChange.IsZero}}<tr><th>Last change</th><td>{{.LastChange.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
<tr><th>Last drop</th><td>{{if .LastDropExpected}}expected{{else}}unexpected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Deferred Work</h2>
<table>
<tr><th>Pending tasks</th><td>{{.QueueDepth}}</td></tr>
<tr><th>Buffered logs</th><td>{{.BufferedLogs}}</td></tr>
</table>

<h2>Transition Counts</h2>
<table>
<tr><th>Connects</th><td>{{.Counts.Connects}}</td></tr>
<tr><th>Expected disconnects</th><td>{{.Counts.ExpectedDisconnects}}</td></tr>
<tr><th>Unexpected disconnects</th><td>{{.Counts.UnexpectedDisconnects}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Indicator mode</th><td>{{.Config.IndicatorMode}}</td></tr>
<tr><th>Stay connected</th><td>{{if .Config.StayConnected}}yes{{else}}no{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
