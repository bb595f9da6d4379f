package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/IllumuIll/rescue-ai/internal/registry"
	"github.com/IllumuIll/rescue-ai/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show policy list sidebar
	sidebarWidth       = 24  // Width of policy list sidebar
	maxEpisodes        = 200 // Max episodes to load per policy
)

// HistoryKeyMap defines the key bindings for the episode history.
type HistoryKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextPolicy key.Binding
	PrevPolicy key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPolicy, k.PrevPolicy, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextPolicy, k.PrevPolicy, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextPolicy: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next policy"),
		),
		PrevPolicy: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev policy"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing recorded episodes.
type HistoryModel struct {
	policies    []registry.PolicyInfo
	cursor      int
	store       *storage.Store
	episodes    []storage.EpisodeRecord
	stats       *storage.PolicyStats
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a history browser over the registered policies
// plus manual control.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	policies := append(registry.List(), registry.PolicyInfo{ID: manualPolicyID, Title: "Manual"})

	m := HistoryModel{
		policies:    policies,
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the terminal.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Outcome", Width: 10},
		{Title: "Steps", Width: 7},
		{Title: "Reward", Width: 10},
		{Title: "Seed", Width: 20},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, stats and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads the episodes and aggregate of the selected policy.
func (m *HistoryModel) load() {
	m.episodes, m.stats = nil, nil
	if m.store != nil && len(m.policies) > 0 {
		id := m.policies[m.cursor].ID
		if eps, err := m.store.RecentEpisodes(id, maxEpisodes); err == nil {
			m.episodes = eps
		}
		if st, err := m.store.GetPolicyStats(id); err == nil {
			m.stats = st
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded episodes.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.episodes))
	for i, ep := range m.episodes {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			ep.Outcome,
			fmt.Sprintf("%d", ep.Steps),
			fmt.Sprintf("%+.2f", ep.TotalReward),
			fmt.Sprintf("%d", ep.Seed),
			ep.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextPolicy):
			if len(m.policies) > 0 {
				m.cursor = (m.cursor + 1) % len(m.policies)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevPolicy):
			if len(m.policies) > 0 {
				m.cursor = (m.cursor - 1 + len(m.policies)) % len(m.policies)
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "EPISODES"
	if len(m.policies) > 0 {
		title = fmt.Sprintf("EPISODES - %s", m.policies[m.cursor].Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(centerText(m.summary(), m.width)))
	b.WriteString("\n\n")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(m.tableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", panel))
	} else {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.policies[m.cursor].ID), m.width))
		b.WriteString("\n")
		b.WriteString(panel)
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// summary formats the aggregate of the selected policy.
func (m HistoryModel) summary() string {
	if m.stats == nil || m.stats.Episodes == 0 {
		return "no episodes"
	}
	return fmt.Sprintf("%d episodes | success %.0f%% | avg reward %+.2f | best %+.2f | avg steps %.0f",
		m.stats.Episodes, m.stats.SuccessRate*100, m.stats.AvgReward, m.stats.BestReward, m.stats.AvgSteps)
}

// sidebar lists the policies with the cursor on the selected one.
func (m HistoryModel) sidebar() string {
	var sb strings.Builder
	sb.WriteString("Policies\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, p := range m.policies {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := p.Title
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sb.WriteString(style.Render(cursor + name))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1).
		Render(sb.String())
}

// tableContent renders the table or an empty message.
func (m HistoryModel) tableContent() string {
	if len(m.episodes) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("No episodes recorded yet.\nRun 'rescue run' or 'rescue watch' first.")
	}
	return m.table.View()
}

// RunHistory runs the episode history browser.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
