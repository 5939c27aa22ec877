package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/sweeney/house-guard/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime":     formatUptime,
	"onOff":      status.OnOff,
	"openClosed": status.OpenClosed,
	"lcd":        func(s string) string { return strings.TrimRight(s, " ") },
	"utc":        func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
}).Parse(indexHTML))

// formatUptime renders d as "3d 4h 5m 6s", leaving out leading zero units.
func formatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	units := []struct {
		size   int64
		suffix string
	}{{86400, "d"}, {3600, "h"}, {60, "m"}}
	var parts []string
	for _, u := range units {
		if n := secs / u.size; n > 0 || len(parts) > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
		}
		secs %= u.size
	}
	parts = append(parts, fmt.Sprintf("%ds", secs))
	return strings.Join(parts, " ")
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>House Guard</title>
<style>
body { font-family: monospace; max-width: 40em; margin: 1.5em auto; padding: 0 1em; background: #fafafa; }
h1 { font-size: 1.3em; }
h2 { font-size: 1.05em; margin-top: 1.4em; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 3px 6px; border-bottom: 1px solid #e3e3e3; }
th { width: 45%; font-weight: normal; color: #555; }
.on, .connected { color: #1a7f1a; }
.on { font-weight: bold; }
.off { color: #999; }
.alert, .disconnected { color: #c62828; }
.alert { font-weight: bold; }
.lcd { display: inline-block; background: #1d3b1d; color: #b6f5b6; padding: 6px 10px; white-space: pre; }
</style>
</head>
<body>
<h1>House Guard{{if not .Booted}} (booting){{end}}</h1>

<div class="lcd" id="lcd">{{printf "%-16s" (lcd (index .Display 0))}}
{{printf "%-16s" (lcd (index .Display 1))}}</div>

<h2>Sensors</h2>
<table>
<tr><th>Gas</th><td id="gas" class="{{if .Sensors.GasHigh}}alert{{end}}">{{.Sensors.Gas}}</td></tr>
<tr><th>Steam</th><td id="steam" class="{{if .Sensors.Wet}}alert{{end}}">{{.Sensors.Steam}}{{if .Sensors.Wet}} (rain){{end}}</td></tr>
<tr><th>Light</th><td>{{.Sensors.Light}}</td></tr>
<tr><th>Soil</th><td>{{.Sensors.Soil}}</td></tr>
<tr><th>Motion</th><td class="{{if .Sensors.Motion}}on{{else}}off{{end}}">{{if .Sensors.Motion}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Outputs</h2>
<table>
<tr><th>Fan</th><td id="fan" class="{{if .Intent.FanOn}}on{{else}}off{{end}}">{{onOff .Intent.FanOn}}</td></tr>
<tr><th>Door/Window</th><td id="window" class="{{if .Intent.WindowOpen}}on{{else}}off{{end}}">{{openClosed .Intent.WindowOpen}}</td></tr>
<tr><th>Motion lamp</th><td>{{onOff .Outputs.MotionLamp}}</td></tr>
<tr><th>Rain lamp</th><td>{{onOff .Outputs.RainLamp}}</td></tr>
<tr><th>Buzzer</th><td id="buzzer" class="{{if eq (printf "%s" .Buzzer) "OFF"}}off{{else}}alert{{end}}">{{.Buzzer}}</td></tr>
</table>

{{if .Session.Active}}
<h2>Gas Session</h2>
<table>
<tr><th>ID</th><td id="session">{{.Session.ID}}</td></tr>
<tr><th>Plan</th><td>{{.Session.Plan}}</td></tr>
<tr><th>Stage</th><td>{{.Session.Stage}}</td></tr>
<tr><th>Started</th><td>{{utc .Session.StartedAt}}</td></tr>
</table>
{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Gas alert</th><td>{{.Counts.GasAlert}}</td></tr>
<tr><th>Gas cleared</th><td>{{.Counts.GasCleared}}</td></tr>
<tr><th>Rain</th><td>{{.Counts.RainAlert}}</td></tr>
<tr><th>Fan on/off</th><td>{{.Counts.FanOn}} / {{.Counts.FanOff}}</td></tr>
<tr><th>Window open/close</th><td>{{.Counts.WindowOpen}} / {{.Counts.WindowClose}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{utc .StartTime}}</td></tr>
<tr><th>Errors</th><td id="errors">{{.ErrorCount}}{{if .LastError}} (last: {{.LastError}}){{end}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Serial</th><td>{{if .Config.Serial}}{{.Config.Serial}}{{else}}none{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
