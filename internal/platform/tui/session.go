package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// GameFactory builds a fresh game for each Play selection.
type GameFactory func() *snake.Game

// SessionModel manages the full session flow: menu -> game or replays -> menu.
// This is the top-level model used for SSH sessions and `snake menu`.
type SessionModel struct {
	newGame  GameFactory
	store    RunStore
	config   core.RuntimeConfig
	opts     GameOptions
	menu     MenuModel
	game     *Model
	browser  *BrowserModel
	quitting bool
}

// NewSessionModel creates a new session model. A nil store hides replays.
func NewSessionModel(newGame GameFactory, store RunStore, cfg core.RuntimeConfig, opts GameOptions) SessionModel {
	opts.Embedded = true
	return SessionModel{
		newGame: newGame,
		store:   store,
		config:  cfg,
		opts:    opts,
		menu:    NewMenuModel(cfg, store != nil),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.browser != nil:
		return m.updateBrowser(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.menu = NewMenuModel(m.config, m.store != nil)

	switch selected.ID {
	case MenuPlay:
		game := NewModel(m.newGame(), m.config, m.opts)
		m.game = &game
		return m, game.Init()

	case MenuReplays:
		browser := NewBrowserModel(m.store, m.config)
		browser.embedded = true
		m.browser = &browser
		return m, browser.Init()
	}
	return m, cmd
}

// updateGame handles updates when in game mode. Ticks that arrive after the
// game was left are dropped by the game's generation check.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.BackToMenu() {
		m.game = nil
		return m, nil
	}
	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// updateBrowser handles updates when browsing replays.
func (m SessionModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.browser.Update(msg)
	if browser, ok := newModel.(BrowserModel); ok {
		m.browser = &browser
	}

	if m.browser.GoingBack() {
		m.browser = nil
		return m, nil
	}
	if m.browser.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.game != nil:
		return m.game.View()
	case m.browser != nil:
		return m.browser.View()
	}
	return m.menu.View()
}

// RunSession runs the menu-driven session locally.
func RunSession(newGame GameFactory, store RunStore, cfg core.RuntimeConfig, opts GameOptions) error {
	p := tea.NewProgram(
		NewSessionModel(newGame, store, cfg, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
