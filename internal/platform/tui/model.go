package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/IllumuIll/rescue-ai/internal/core"
	"github.com/IllumuIll/rescue-ai/internal/env"
	"github.com/IllumuIll/rescue-ai/internal/observe"
	"github.com/IllumuIll/rescue-ai/internal/registry"
	"github.com/IllumuIll/rescue-ai/internal/render"
	"github.com/IllumuIll/rescue-ai/internal/storage"
)

// manualPolicyID is stored for episodes driven from the keyboard.
const manualPolicyID = "manual"

// statusLines is the height of the status bar and help line below the scene.
const statusLines = 2

var (
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	outcomeStyles = map[string]lipgloss.Style{
		"success":                lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		"mistake":                lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		storage.OutcomeTruncated: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	}
)

// Options configures the viewer.
type Options struct {
	Policy   registry.Policy // nil starts and stays in manual control
	Store    *storage.Store  // nil disables episode recording
	Logger   *log.Logger
	MaxSteps int // 0 means episodes only end by termination
}

// Model is the Bubble Tea model for watching or piloting the rescuer.
type Model struct {
	env        *env.Env
	policy     registry.Policy
	manual     bool
	store      *storage.Store
	logger     *log.Logger
	maxSteps   int
	screen     *core.Screen
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	obs        *observe.Observation
	lastReward float64
	paused     bool
	done       bool
	truncated  bool
	saved      bool // Whether the current episode has been recorded
	quitting   bool
}

// NewModel creates a viewer for e and starts the first episode.
func NewModel(e *env.Env, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		env:        e,
		policy:     opts.Policy,
		manual:     opts.Policy == nil,
		store:      opts.Store,
		logger:     logger,
		maxSteps:   opts.MaxSteps,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-statusLines, 1)),
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}
	m.reset()
	return m
}

// reset starts a new episode with the current seed.
func (m *Model) reset() {
	m.obs = m.env.Reset(m.config.Seed)
	if m.policy != nil {
		m.policy.Reset(m.config.Seed)
	}
	m.inputFrame.Clear()
	m.lastReward = 0
	m.done = false
	m.truncated = false
	m.saved = false
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.finish()
		m.config.Seed++
		m.reset()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.policy != nil {
			m.manual = !m.manual
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		m.saveScreenshot()
		return m, nil
	}

	if m.manual {
		if a, ok := m.keys.MapKey(msg); ok {
			m.inputFrame.Push(a)
		}
	}
	return m, nil
}

// handleResize processes window resize events. The episode is kept; only the
// projection changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-statusLines, 1))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick advances the environment by one step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.paused || m.done {
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	actions := m.inputFrame.IDs()
	if !m.manual {
		actions = m.policy.Act(m.obs)
	}
	m.inputFrame.Clear()

	res := m.env.Step(actions)
	m.obs = res.Observation
	m.lastReward = res.Reward

	switch {
	case res.Terminated:
		m.done = true
	case m.maxSteps > 0 && m.env.Episode().Steps >= m.maxSteps:
		m.done = true
		m.truncated = true
	}
	if m.done {
		m.finish()
	}

	return m, tickCmd(m.config.TickRate)
}

// finish records the current episode once. Episodes with no steps are skipped.
func (m *Model) finish() {
	ep := m.env.Episode()
	if m.saved || ep.Steps == 0 {
		return
	}
	m.saved = true

	rec := storage.FromEpisode(m.policyID(), ep)
	m.logger.Info("episode finished",
		"policy", rec.Policy,
		"seed", rec.Seed,
		"steps", rec.Steps,
		"reward", rec.TotalReward,
		"outcome", rec.Outcome,
	)
	if m.store != nil {
		if _, err := m.store.SaveEpisode(rec); err != nil {
			m.logger.Warn("could not record episode", "error", err)
		}
	}
}

// policyID names the controller of the current episode.
func (m Model) policyID() string {
	if m.manual || m.policy == nil {
		return manualPolicyID
	}
	return m.policy.ID()
}

// saveScreenshot saves the current projection to a text file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	render.Project(m.screen, m.env.World())

	dir := filepath.Join(os.Getenv("HOME"), ".rescue", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("rescue_%d_%s.txt", m.config.Seed, timestamp))

	//nolint:errcheck // Best-effort save, the viewer continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the scene, a status bar and the help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	render.Project(m.screen, m.env.World())
	switch {
	case m.done:
		render.Overlay(m.screen, strings.ToUpper(m.outcomeLabel()), "press r for the next seed")
	case m.paused:
		render.Overlay(m.screen, "PAUSED")
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// statusLine summarises the running episode.
func (m Model) statusLine() string {
	ep := m.env.Episode()
	carrying := "no"
	if r := m.env.World().Rescuer(); r.Rescuer != nil && r.Rescuer.CarriesResource {
		carrying = "yes"
	}

	parts := []string{
		fmt.Sprintf("seed %d", ep.Seed),
		fmt.Sprintf("step %d", ep.Steps),
		fmt.Sprintf("reward %+.3f (total %+.2f)", m.lastReward, ep.TotalReward),
		"cargo " + carrying,
		"pilot " + m.policyID(),
	}
	line := statusStyle.Render(strings.Join(parts, " | "))

	switch {
	case m.done:
		label := m.outcomeLabel()
		line += "  " + outcomeStyles[label].Render(strings.ToUpper(label))
	case m.paused:
		line += "  " + dimStyle.Render("PAUSED")
	}
	return line
}

// outcomeLabel names how the current episode ended.
func (m Model) outcomeLabel() string {
	if m.truncated {
		return storage.OutcomeTruncated
	}
	return m.env.Episode().Outcome.String()
}

// Run starts the Bubble Tea program with the given environment.
func Run(e *env.Env, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(e, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
