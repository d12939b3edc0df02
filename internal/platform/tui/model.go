package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// GameOptions configures the game screen.
type GameOptions struct {
	BoardWidth        int // Board units; 0 fits the terminal
	BoardHeight       int // Board units; 0 fits the terminal
	SwipeMinMagnitude int // Board cells a drag must cover to count
	Title             string
	Embedded          bool // Back leaves the game instead of being ignored
}

// Model is the Bubble Tea model for a game of Snake. It owns the tick
// source: the game decides on every tick whether another one is scheduled.
type Model struct {
	game   *snake.Game
	screen *core.Screen
	config core.RuntimeConfig
	opts   GameOptions
	keys   KeyMap
	help   help.Model

	boardW int
	boardH int

	// Mouse drag in progress
	dragging bool
	dragX    int
	dragY    int

	quitting bool
	back     bool
}

// NewModel creates a model for game. The board size is fixed here, from the
// options or from the terminal size in cfg.
func NewModel(game *snake.Game, cfg core.RuntimeConfig, opts GameOptions) Model {
	if opts.Title == "" {
		opts.Title = "SNAKE"
	}
	boardW, boardH := opts.BoardWidth, opts.BoardHeight
	if boardW <= 0 || boardH <= 0 {
		fitW, fitH := FitBoard(cfg.ScreenW, cfg.ScreenH, game.Snapshot().CellSize)
		if boardW <= 0 {
			boardW = fitW
		}
		if boardH <= 0 {
			boardH = fitH
		}
	}

	h := help.New()
	h.Width = cfg.ScreenW

	keys := DefaultKeyMap()
	keys.Back.SetEnabled(opts.Embedded)

	return Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, core.Max(cfg.ScreenH-helpHeight, 1)),
		config: cfg,
		opts:   opts,
		keys:   keys,
		help:   h,
		boardW: boardW,
		boardH: boardH,
	}
}

// Init starts the game and its tick source.
func (m Model) Init() tea.Cmd {
	m.game.Start(m.boardW, m.boardH)
	return tickCmd(m.config.TickInterval, m.game.Generation())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if m.game.OnTick(msg.Gen) {
			return m, tickCmd(m.config.TickInterval, m.game.Generation())
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m.apply(m.keys.Action(msg))
}

// apply performs an action from any input source.
func (m Model) apply(action core.Action) (tea.Model, tea.Cmd) {
	switch action {
	case core.ActionQuit:
		m.game.Stop()
		m.quitting = true
		return m, tea.Quit

	case core.ActionRestart:
		m.game.Restart()
		return m, tickCmd(m.config.TickInterval, m.game.Generation())

	case core.ActionBack:
		m.game.Stop()
		m.back = true
		return m, nil
	}

	if d, ok := snake.DirectionFor(action); ok {
		m.game.SetDirection(d)
	}
	return m, nil
}

// handleMouse turns a press-drag-release into a swipe.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		dx := (msg.X - m.dragX) / cellWidth
		dy := msg.Y - m.dragY
		action := core.SwipeAction(dx, dy, m.opts.SwipeMinMagnitude)
		if !action.IsDirectional() {
			return m, nil
		}
		return m.apply(action)
	}
	return m, nil
}

// handleResize keeps the running game and only resizes the screen buffer.
// A terminal too small for the board shows a notice until it grows back.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, core.Max(msg.Height-helpHeight, 1))
	m.help.Width = msg.Width
	return m, nil
}

// BackToMenu reports whether the user left an embedded game.
func (m Model) BackToMenu() bool {
	return m.back
}

// IsQuitting reports whether the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Game returns the game the model drives.
func (m Model) Game() *snake.Game {
	return m.game
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.game.Snapshot()
	drawBoard(m.screen, snap, boardView{
		Title: m.opts.Title,
		Over: []string{
			"GAME OVER",
			causeText(snap.Cause),
			scoreLine(snap),
			"r restart  q quit",
		},
	})
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program for game.
func Run(game *snake.Game, cfg core.RuntimeConfig, opts GameOptions) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse drags become swipes
	)

	_, err := p.Run()
	return err
}
