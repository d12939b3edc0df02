package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

const maxBrowserRuns = 100 // Max runs to load

// RunStore is the part of the store the browser needs.
type RunStore interface {
	RecentRuns(limit int) ([]storage.RunRecord, error)
	Run(id int64) (*storage.RunRecord, error)
	DeleteRun(id int64) error
}

// BrowserKeyMap defines the key bindings for the replay browser.
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Play   key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Play, k.Delete, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Play, k.Delete, k.Back, k.Quit},
	}
}

// DefaultBrowserKeyMap returns default key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BrowserModel lists recorded runs and plays the selected one back.
type BrowserModel struct {
	store    RunStore
	runs     []storage.RunRecord
	table    table.Model
	help     help.Model
	keys     BrowserKeyMap
	config   core.RuntimeConfig
	playback *PlaybackModel
	err      error
	now      func() time.Time
	embedded bool // Back returns to the caller instead of quitting
	back     bool
	quitting bool
}

// NewBrowserModel creates a browser over store.
func NewBrowserModel(store RunStore, cfg core.RuntimeConfig) BrowserModel {
	h := help.New()
	h.ShowAll = false
	h.Width = cfg.ScreenW

	m := BrowserModel{
		store:  store,
		keys:   DefaultBrowserKeyMap(),
		help:   h,
		config: cfg,
		now:    time.Now,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table sized to the terminal.
func (m *BrowserModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Player", Width: 12},
		{Title: "Score", Width: 6},
		{Title: "Length", Width: 7},
		{Title: "Ticks", Width: 7},
		{Title: "End", Width: 5},
		{Title: "When", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.Max(m.config.ScreenH-6, 3)), // Leave room for title, help, and borders
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

// loadRuns reloads the run list from the store.
func (m *BrowserModel) loadRuns() {
	m.runs, m.err = nil, nil
	if m.store != nil {
		m.runs, m.err = m.store.RecentRuns(maxBrowserRuns)
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded runs.
func (m *BrowserModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.ID),
			r.Player,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Length),
			fmt.Sprintf("%d", r.Ticks),
			r.Cause,
			humanize.RelTime(r.CreatedAt, m.now(), "ago", "from now"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(core.Max(len(rows)-1, 0))
	}
}

// selected returns the run under the cursor.
func (m BrowserModel) selected() (storage.RunRecord, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return storage.RunRecord{}, false
	}
	return m.runs[i], true
}

// Init initializes the browser model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = wsm.Width
	}

	if m.playback != nil {
		return m.updatePlayback(msg)
	}

	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.embedded {
				m.back = true
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Play):
			return m.play()

		case key.Matches(msg, m.keys.Delete):
			if r, ok := m.selected(); ok {
				if err := m.store.DeleteRun(r.ID); err != nil {
					m.err = err
					return m, nil
				}
				m.loadRuns()
			}
			return m, nil
		}
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// play loads the selected run and switches to playback.
func (m BrowserModel) play() (tea.Model, tea.Cmd) {
	sel, ok := m.selected()
	if !ok {
		return m, nil
	}
	rec, err := m.store.Run(sel.ID)
	if err != nil {
		m.err = err
		return m, nil
	}
	if rec == nil {
		m.err = fmt.Errorf("run #%d no longer exists", sel.ID)
		m.loadRuns()
		return m, nil
	}
	run, err := replay.FromRecord(*rec)
	if err != nil {
		m.err = err
		return m, nil
	}

	pb := NewPlaybackModel(run, m.config, true)
	m.playback = &pb
	return m, pb.Init()
}

// updatePlayback forwards messages to the embedded playback.
func (m BrowserModel) updatePlayback(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.playback.Update(msg)
	if pb, ok := newModel.(PlaybackModel); ok {
		m.playback = &pb
	}

	if m.playback.GoingBack() {
		m.playback = nil
		m.loadRuns()
		return m, nil
	}
	if m.playback.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the browser.
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}
	if m.playback != nil {
		return m.playback.View()
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("RECORDED RUNS", m.config.ScreenW)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(centerText(tableStyle.Render(emptyStyle.Render("No runs recorded yet.\nPlay a game to record one!")), m.config.ScreenW))
	} else {
		b.WriteString(centerText(tableStyle.Render(m.table.View()), m.config.ScreenW))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// GoingBack reports whether the user left an embedded browser.
func (m BrowserModel) GoingBack() bool {
	return m.back
}

// IsQuitting reports whether the user asked to quit.
func (m BrowserModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers every line of text within width.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}

// RunBrowser runs the replay browser.
func RunBrowser(store RunStore, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(NewBrowserModel(store, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
