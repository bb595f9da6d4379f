package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/IllumuIll/rescue-ai/internal/config"
	"github.com/IllumuIll/rescue-ai/internal/core"
)

func updateMenu(t *testing.T, m MenuModel, msg tea.Msg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T, expected MenuModel", next)
	}
	return nm
}

func TestMenuListsManualFirst(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	if len(m.items) == 0 || m.items[0].PolicyID != "" {
		t.Fatalf("first item should be manual control, got %+v", m.items)
	}

	m = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() == nil || m.Selected().PolicyID != "" {
		t.Errorf("Enter should select manual control, got %+v", m.Selected())
	}
}

func TestMenuPresetCycle(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	if m.Preset() != config.PresetNormal {
		t.Fatalf("initial preset = %q, expected normal", m.Preset())
	}

	tests := []struct {
		key  tea.KeyType
		want config.Preset
	}{
		{tea.KeyRight, config.PresetEasy},
		{tea.KeyRight, config.PresetHard},
		{tea.KeyRight, config.PresetNormal},
		{tea.KeyLeft, config.PresetHard},
	}
	for _, tt := range tests {
		m = updateMenu(t, m, tea.KeyMsg{Type: tt.key})
		if m.Preset() != tt.want {
			t.Errorf("after %v preset = %q, expected %q", tt.key, m.Preset(), tt.want)
		}
	}
}

func TestMenuCursorBounds(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	m = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, expected to stay at 0", m.cursor)
	}
	for i := 0; i < len(m.items)+2; i++ {
		m = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, expected to stop at %d", m.cursor, len(m.items)-1)
	}
}

func TestMenuHistoryAndQuit(t *testing.T) {
	m := updateMenu(t, NewMenuModel(core.DefaultConfig()), tea.KeyMsg{Type: tea.KeyTab})
	if !m.openHistory {
		t.Error("Tab should request the episode history")
	}

	m = updateMenu(t, NewMenuModel(core.DefaultConfig()), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !m.quitting || m.View() != "" {
		t.Error("q should quit the menu")
	}
}
