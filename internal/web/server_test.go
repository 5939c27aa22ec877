package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/house-guard/internal/logic"
	"github.com/sweeney/house-guard/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:      20,
		DebounceMs:  50,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
		Serial:      "/dev/ttyUSB0",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func decodeStatus(t *testing.T, body string) status.StatusInner {
	t.Helper()
	var sj status.StatusJSON
	require.NoError(t, json.Unmarshal([]byte(body), &sj))
	return sj.Status
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(status.Device{
		Sensors: logic.Snapshot{Gas: 2, Light: 300, Soil: 40, Steam: 12},
		Intent:  logic.Intent{FanOn: true},
		Buzzer:  logic.BuzzerOff,
		Display: [2]string{logic.FitLine("G:2 L:300"), logic.FitLine("Stm:12 Sl:40")},
		Booted:  true,
		Counts:  logic.EventCounts{FanOn: 3, RainAlert: 1},
	})
	tr.SetMQTTConnected(true)

	resp, body := get(t, ts.URL+"/index.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	st := decodeStatus(t, body)
	assert.True(t, st.Ready)
	assert.Equal(t, 300, st.Sensors.Light)
	assert.Equal(t, "ON", st.Outputs.Fan)
	assert.Equal(t, "CLOSED", st.Outputs.Window)
	assert.Equal(t, "OFF", st.Outputs.Buzzer)
	assert.Equal(t, []string{"G:2 L:300", "Stm:12 Sl:40"}, st.Display)
	assert.Equal(t, 3, st.Counts.FanOn)
	assert.Equal(t, 1, st.Counts.RainAlert)
	assert.True(t, st.MQTT.Connected)
	assert.Equal(t, "tcp://192.168.1.200:1883", st.MQTT.Broker)
	assert.Equal(t, "/dev/ttyUSB0", st.Config.Serial)
	assert.Nil(t, st.GasSession)
	assert.Nil(t, st.Network)
}

func TestJSONBeforeBoot(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts.URL+"/index.json")
	st := decodeStatus(t, body)
	assert.False(t, st.Ready)
	assert.Equal(t, "OFF", st.Outputs.Buzzer)
	assert.Equal(t, []string{"", ""}, st.Display)
}

func TestJSONGasSession(t *testing.T) {
	ts, tr := newTestServer(t)
	started := time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)
	tr.Update(status.Device{
		Sensors: logic.Snapshot{Gas: 40},
		Buzzer:  logic.BuzzerSiren,
		Booted:  true,
		Session: logic.GasSession{
			Active:    true,
			ID:        "abc",
			Plan:      logic.PlanOpenThenVent,
			Stage:     logic.StageVenting,
			StartedAt: started,
		},
	})

	_, body := get(t, ts.URL+"/index.json")
	st := decodeStatus(t, body)
	require.NotNil(t, st.GasSession)
	assert.Equal(t, "abc", st.GasSession.ID)
	assert.Equal(t, "OPEN_THEN_VENT", st.GasSession.Plan)
	assert.Equal(t, "VENTING", st.GasSession.Stage)
	assert.Equal(t, "2026-01-01T00:05:00Z", st.GasSession.StartedAt)
	assert.Equal(t, "SIREN", st.Outputs.Buzzer)
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetNetwork(&status.NetworkInfo{Type: "wifi", IP: "192.168.1.50", Status: "connected", SSID: "home"})

	_, body := get(t, ts.URL+"/index.json")
	st := decodeStatus(t, body)
	require.NotNil(t, st.Network)
	assert.Equal(t, "wifi", st.Network.Type)
	assert.Equal(t, "192.168.1.50", st.Network.IP)
	assert.Equal(t, "home", st.Network.SSID)
}

func TestJSONRejectsPost(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/index.json", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHTMLEndpoint(t *testing.T) {
	for _, path := range []string{"/", "/index.html"} {
		t.Run(path, func(t *testing.T) {
			ts, tr := newTestServer(t)
			tr.Update(status.Device{
				Intent:  logic.Intent{WindowOpen: true},
				Buzzer:  logic.BuzzerOff,
				Display: [2]string{logic.FitLine("Door/Window"), logic.FitLine("OPEN")},
				Booted:  true,
			})

			resp, body := get(t, ts.URL+path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
			assert.Contains(t, body, "<title>House Guard</title>")
			assert.Contains(t, body, `<td id="window" class="on">OPEN</td>`)
			assert.Contains(t, body, `<td id="fan" class="off">OFF</td>`)
			assert.Contains(t, body, "Door/Window")
			assert.Contains(t, body, "/dev/ttyUSB0")
			assert.NotContains(t, body, "(booting)")
			assert.NotContains(t, body, "Gas Session")
		})
	}
}

func TestHTMLShowsBootingAndSession(t *testing.T) {
	ts, tr := newTestServer(t)

	_, body := get(t, ts.URL+"/")
	assert.Contains(t, body, "House Guard (booting)")

	tr.Update(status.Device{
		Sensors: logic.Snapshot{Gas: 30},
		Buzzer:  logic.BuzzerSolid,
		Booted:  true,
		Session: logic.GasSession{Active: true, ID: "sess-1", Plan: logic.PlanAlertOnly, Stage: logic.StageSteadyAlert},
	})
	tr.RecordError(time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC), assert.AnError)

	_, body = get(t, ts.URL+"/")
	assert.Contains(t, body, "Gas Session")
	assert.Contains(t, body, `<td id="session">sess-1</td>`)
	assert.Contains(t, body, `<td id="gas" class="alert">30</td>`)
	assert.Contains(t, body, `<td id="buzzer" class="alert">SOLID</td>`)
	assert.Contains(t, body, `<td id="errors">1 (last: `)
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(status.Device{Booted: true, Buzzer: logic.BuzzerOff})

	_, body := get(t, ts.URL+"/index.json")
	assert.Equal(t, "CLOSED", decodeStatus(t, body).Outputs.Window)

	tr.Update(status.Device{Booted: true, Buzzer: logic.BuzzerOff, Intent: logic.Intent{WindowOpen: true}})

	_, body = get(t, ts.URL+"/index.json")
	assert.Equal(t, "OPEN", decodeStatus(t, body).Outputs.Window)
}

func TestFormatUptime(t *testing.T) {
	long := 3*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second + 900*time.Millisecond
	assert.Equal(t, "0s", formatUptime(0))
	assert.Equal(t, "42s", formatUptime(42*time.Second))
	assert.Equal(t, "1h 0m 2s", formatUptime(time.Hour+2*time.Second))
	assert.Equal(t, "3d 4h 5m 6s", formatUptime(long))
}
