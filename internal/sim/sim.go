// Package sim runs the house-guard controller against in-memory hardware
// in a terminal UI. Sensor levels, the motion sensor and the two buttons
// are driven from the keyboard; the view shows the display, buzzer, lamps,
// fan and window.
package sim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/house-guard/internal/lcd"
	"github.com/sweeney/house-guard/internal/logger"
	"github.com/sweeney/house-guard/internal/logic"
	"github.com/sweeney/house-guard/internal/pwm"
	"github.com/sweeney/house-guard/internal/status"
)

const (
	maxLevel  = 1023
	gasStep   = 2
	gasLeak   = 40
	steamStep = 60
	lightStep = 50
	logLines  = 8
)

// Options tunes the simulator.
type Options struct {
	Poll     time.Duration
	Debounce time.Duration
	SkipBoot bool
}

type tickMsg time.Time

// Model is the bubbletea model.
type Model struct {
	controller *logic.Controller
	buzzer     *pwm.FakeBuzzer
	screen     *lcd.FakeScreen
	poll       time.Duration

	// hold keeps a simulated button down long enough to pass debounce.
	hold time.Duration

	reading     logic.Reading
	button1Till time.Time
	button2Till time.Time
	queued      []logic.Command

	now  time.Time
	last logic.Result
	log  []string
	err  error

	keys     keyMap
	help     help.Model
	quitting bool
}

// New creates a simulator whose clock starts at start.
func New(start time.Time, opts Options) *Model {
	if opts.Poll <= 0 {
		opts.Poll = 20 * time.Millisecond
	}
	buzzer := &pwm.FakeBuzzer{}
	screen := &lcd.FakeScreen{}
	return &Model{
		controller: logic.NewController(buzzer, screen, start, logic.Options{
			Debounce: opts.Debounce,
			SkipBoot: opts.SkipBoot,
		}),
		buzzer:  buzzer,
		screen:  screen,
		poll:    opts.Poll,
		hold:    opts.Debounce + 2*opts.Poll,
		reading: logic.Reading{Light: 500, Soil: 300},
		now:     start,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.poll, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles key presses and ticks.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.step(time.Time(msg))
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := &m.reading
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.GasUp):
		r.Gas = clamp(r.Gas + gasStep)
	case key.Matches(msg, m.keys.GasDown):
		r.Gas = clamp(r.Gas - gasStep)
	case key.Matches(msg, m.keys.GasSpike):
		if r.Gas >= logic.GasThreshold {
			r.Gas = 0
		} else {
			r.Gas = gasLeak
		}
	case key.Matches(msg, m.keys.SteamUp):
		r.Steam = clamp(r.Steam + steamStep)
	case key.Matches(msg, m.keys.SteamDown):
		r.Steam = clamp(r.Steam - steamStep)
	case key.Matches(msg, m.keys.LightUp):
		r.Light = clamp(r.Light + lightStep)
	case key.Matches(msg, m.keys.LightDown):
		r.Light = clamp(r.Light - lightStep)
	case key.Matches(msg, m.keys.Motion):
		r.Motion = !r.Motion
	case key.Matches(msg, m.keys.Button1):
		m.button1Till = m.now.Add(m.hold)
	case key.Matches(msg, m.keys.Button2):
		m.button2Till = m.now.Add(m.hold)
	case key.Matches(msg, m.keys.ToggleFan):
		m.queued = append(m.queued, logic.Command{Kind: logic.CommandToggleFan})
	case key.Matches(msg, m.keys.ToggleDoor):
		m.queued = append(m.queued, logic.Command{Kind: logic.CommandToggleWindow})
	}
	return m, nil
}

// step runs one controller tick at now.
func (m *Model) step(now time.Time) {
	m.now = now
	reading := m.reading
	reading.Button1 = now.Before(m.button1Till)
	reading.Button2 = now.Before(m.button2Till)

	var cmds []logic.Command
	if m.controller.Booted() {
		cmds, m.queued = m.queued, nil
	}

	res, err := m.controller.Tick(now, reading, cmds)
	m.last = res
	m.err = err
	if err != nil {
		logger.WarnKV(context.Background(), "tick failed", "error", err)
	}
	for _, e := range res.Events {
		m.record(e)
	}
}

func (m *Model) record(e logic.Event) {
	line := fmt.Sprintf("%s %-12s fan=%s window=%s",
		e.Timestamp.Format("15:04:05.000"), e.Type,
		status.OnOff(e.Intent.FanOn), status.OpenClosed(e.Intent.WindowOpen))
	if e.Type == logic.EventGasPlan {
		line += " plan=" + string(e.Plan)
	}
	logger.InfoKV(context.Background(), "event",
		"type", string(e.Type),
		"fan", e.Intent.FanOn,
		"window", e.Intent.WindowOpen,
	)
	m.log = append(m.log, line)
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
}

func clamp(v int) int {
	return max(0, min(maxLevel, v))
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(10)
	onStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true)
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	alarmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	logStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
)

// View renders the house.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	l1, l2 := m.screen.Lines()
	display := lcd.Frame(l1, l2)

	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("House Guard"),
		display,
		m.renderBuzzer(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		left,
		panelStyle.Render(m.renderSensors()),
		panelStyle.Render(m.renderOutputs()),
	)

	events := "no events yet"
	if len(m.log) > 0 {
		events = strings.Join(m.log, "\n")
	}
	parts := []string{body, logStyle.Render(events)}
	if m.err != nil {
		parts = append(parts, alarmStyle.Render("error: "+m.err.Error()))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func flag(on bool, yes, no string) string {
	if on {
		return onStyle.Render(yes)
	}
	return offStyle.Render(no)
}

func (m *Model) renderSensors() string {
	snap := m.last.Snapshot
	gas := fmt.Sprint(m.reading.Gas)
	if snap.GasHigh() {
		gas = alarmStyle.Render(gas)
	}
	steam := fmt.Sprint(m.reading.Steam)
	if snap.Wet() {
		steam = alarmStyle.Render(steam + " rain")
	}
	return strings.Join([]string{
		row("gas", gas),
		row("steam", steam),
		row("light", fmt.Sprint(m.reading.Light)),
		row("soil", fmt.Sprint(m.reading.Soil)),
		row("motion", flag(m.reading.Motion, "yes", "no")),
	}, "\n")
}

func (m *Model) renderOutputs() string {
	intent := m.controller.Intent()
	out := m.last.Outputs
	lines := []string{
		row("fan", flag(intent.FanOn, "ON", "OFF")),
		row("window", flag(intent.WindowOpen, "OPEN", "CLOSED")),
		row("lamp", flag(out.MotionLamp, "ON", "OFF")),
		row("rain", flag(out.RainLamp, "ON", "OFF")),
	}
	if s := m.controller.Session(); s.Active {
		lines = append(lines, row("session", alarmStyle.Render(fmt.Sprintf("%s %s", s.Plan, s.Stage))))
	}
	if !m.controller.Booted() {
		lines = append(lines, row("state", offStyle.Render("booting")))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBuzzer() string {
	steady, hz := m.buzzer.State()
	switch {
	case steady:
		return alarmStyle.Render("buzzer: SOLID")
	case hz > 0 && m.controller.BuzzerMode() == logic.BuzzerOff:
		return onStyle.Render(fmt.Sprintf("buzzer: chime %dHz", hz))
	case hz > 0:
		return alarmStyle.Render(fmt.Sprintf("buzzer: %s %dHz", m.controller.BuzzerMode(), hz))
	}
	return offStyle.Render(fmt.Sprintf("buzzer: %s", m.controller.BuzzerMode()))
}
