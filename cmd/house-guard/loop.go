package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/house-guard/internal/adc"
	"github.com/sweeney/house-guard/internal/gpio"
	"github.com/sweeney/house-guard/internal/logger"
	"github.com/sweeney/house-guard/internal/logic"
	"github.com/sweeney/house-guard/internal/mqtt"
	"github.com/sweeney/house-guard/internal/status"
)

// outputWriter applies the controller's output projection to one group of
// actuators.
type outputWriter interface {
	Write(o logic.Outputs) error
}

// commandSource yields remote commands completed since the last call.
type commandSource interface {
	Drain(ctx context.Context) []logic.Command
}

// loop holds everything runLoop touches. commands, mqttStatus and network
// may be nil.
type loop struct {
	controller *logic.Controller
	inputs     gpio.Reader
	analog     adc.Reader
	outputs    []outputWriter
	commands   commandSource
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	heartbeat  time.Duration
	network    func() *status.NetworkInfo
}

// runLoop drives one controller tick per value on tick until a signal
// arrives or ctx is cancelled, then publishes SHUTDOWN. I/O errors are
// logged and never end the loop.
func runLoop(ctx context.Context, l loop, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			logger.Infof(ctx, "received %v, shutting down", s)
			l.shutdown(ctx, now(), signalName(s))
			return nil

		case <-ctx.Done():
			l.shutdown(ctx, now(), "CANCELLED")
			return nil

		case <-tick:
			l.step(ctx, now())
		}
	}
}

func (l *loop) step(ctx context.Context, t time.Time) {
	reading, err := l.read()
	if err != nil {
		logger.WarnKV(ctx, "sensor read failed", "error", err)
		l.tracker.RecordError(t, err)
		l.hold(ctx, t)
		return
	}

	// Commands stay queued until boot has finished.
	var cmds []logic.Command
	if l.commands != nil && l.controller.Booted() {
		cmds = l.commands.Drain(ctx)
		for _, c := range cmds {
			logger.Debugf(ctx, "remote command %v", c.Kind)
		}
	}

	wasBooted := l.controller.Booted()
	res, err := l.controller.Tick(t, reading, cmds)
	if err != nil {
		logger.WarnKV(ctx, "buzzer or display write failed", "error", err)
		l.tracker.RecordError(t, err)
	}
	if !wasBooted && res.Booted {
		logger.Info(ctx, "boot sequence finished")
	}

	for _, w := range l.outputs {
		if err := w.Write(res.Outputs); err != nil {
			logger.WarnKV(ctx, "output write failed", "error", err)
			l.tracker.RecordError(t, err)
		}
	}

	for _, e := range res.Events {
		logger.InfoKV(ctx, "event",
			"type", e.Type,
			"fan", status.OnOff(e.Intent.FanOn),
			"window", status.OpenClosed(e.Intent.WindowOpen),
			"session", e.Session,
		)
		if err := l.publisher.Publish(e); err != nil {
			logger.WarnKV(ctx, "publish failed", "event", e.Type, "error", err)
		}
	}

	l.updateTracker(t, res)

	if hb := l.controller.CheckHeartbeat(t, l.heartbeat); hb != nil {
		logger.InfoKV(ctx, "heartbeat",
			"uptime", hb.Uptime,
			"gas_alerts", hb.Counts.GasAlert,
			"rain_alerts", hb.Counts.RainAlert,
		)
		if l.network != nil {
			if n := l.network(); n != nil {
				l.tracker.SetNetwork(n)
			}
		}
		snap := l.tracker.Snapshot()
		event := mqtt.SystemEvent{
			Timestamp:  hb.Timestamp,
			Event:      "HEARTBEAT",
			RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
		}
		if err := l.publisher.PublishSystem(event); err != nil {
			logger.WarnKV(ctx, "heartbeat publish failed", "error", err)
		}
	}
}

// hold keeps the buzzer cadence and display timers running through a tick
// whose sensor read failed.
func (l *loop) hold(ctx context.Context, t time.Time) {
	res, err := l.controller.Hold(t)
	if err != nil {
		logger.WarnKV(ctx, "buzzer or display write failed", "error", err)
		l.tracker.RecordError(t, err)
	}
	l.updateTracker(t, res)
}

func (l *loop) read() (logic.Reading, error) {
	in, err := l.inputs.Read()
	if err != nil {
		return logic.Reading{}, fmt.Errorf("read gpio: %w", err)
	}
	lv, err := l.analog.Read()
	if err != nil {
		return logic.Reading{}, fmt.Errorf("read adc: %w", err)
	}
	return logic.Reading{
		Gas:     lv.Gas,
		Light:   lv.Light,
		Soil:    lv.Soil,
		Steam:   lv.Steam,
		Motion:  in.Motion,
		Button1: in.Button1,
		Button2: in.Button2,
	}, nil
}

func (l *loop) updateTracker(t time.Time, res logic.Result) {
	c := l.controller
	l1, l2 := c.DisplayLines(t)
	l.tracker.Update(status.Device{
		Sensors: res.Snapshot,
		Intent:  c.Intent(),
		Outputs: res.Outputs,
		Buzzer:  c.BuzzerMode(),
		ToneOn:  c.ToneOn(),
		Display: [2]string{l1, l2},
		Session: c.Session(),
		Booted:  res.Booted,
		Counts:  c.EventCountsSnapshot(),
	})
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}

func (l *loop) shutdown(ctx context.Context, t time.Time, reason string) {
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
	snap := l.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  t,
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		logger.WarnKV(ctx, "shutdown publish failed", "error", err)
		return
	}
	logger.Info(ctx, "published shutdown event")
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
