package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// MenuItemID identifies a menu entry.
type MenuItemID string

const (
	MenuPlay    MenuItemID = "play"
	MenuReplays MenuItemID = "replays"
	MenuQuit    MenuItemID = "quit"
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	ID    MenuItemID
	Title string
}

// MenuModel is the Bubble Tea model for the session start menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	keys     KeyMap
	quitting bool
	selected *MenuItem // Set when user selects an entry
}

// NewMenuModel creates a new menu model. The replays entry is only offered
// when recordings can be browsed.
func NewMenuModel(cfg core.RuntimeConfig, withReplays bool) MenuModel {
	items := []MenuItem{{ID: MenuPlay, Title: "Play"}}
	if withReplays {
		items = append(items, MenuItem{ID: MenuReplays, Title: "Replays"})
	}
	items = append(items, MenuItem{ID: MenuQuit, Title: "Quit"})

	return MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		keys:   DefaultKeyMap(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		return m.choose()
	}

	switch m.keys.Action(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionUp:
		m.cursor = core.Clamp(m.cursor-1, 0, len(m.items)-1)

	case core.ActionDown:
		m.cursor = core.Clamp(m.cursor+1, 0, len(m.items)-1)
	}

	return m, nil
}

func (m MenuModel) choose() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	selected := m.items[m.cursor]
	if selected.ID == MenuQuit {
		m.quitting = true
		return m, tea.Quit
	}
	m.selected = &selected
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  S N A K E  ", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%-8s", cursor, item.Title), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(centerText("Up/Down: Navigate  |  Enter: Select  |  Q: Quit", m.width)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}
