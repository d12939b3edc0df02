package tui

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/replay"
)

// playbackGens hands out playback tick tokens, unique across all playback
// screens so a tick left over from a closed playback is never taken by the
// next one.
var playbackGens atomic.Uint64

// PlaybackModel plays a recorded run back at the recording's tick rate.
type PlaybackModel struct {
	run    replay.Run
	player *replay.Player
	err    error
	screen *core.Screen
	config core.RuntimeConfig
	keys   KeyMap
	help   help.Model
	gen    uint64

	embedded bool // Back returns to the caller instead of quitting
	back     bool
	quitting bool
}

// NewPlaybackModel creates a playback screen for run. An embedded model
// reports Back through GoingBack instead of quitting the program.
func NewPlaybackModel(run replay.Run, cfg core.RuntimeConfig, embedded bool) PlaybackModel {
	keys := DefaultKeyMap()
	keys.Restart.SetHelp("r", "replay again")
	keys.Up.SetEnabled(false)
	keys.Down.SetEnabled(false)
	keys.Left.SetEnabled(false)
	keys.Right.SetEnabled(false)
	if !embedded {
		keys.Back.SetEnabled(false)
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := PlaybackModel{
		run:      run,
		screen:   core.NewScreen(cfg.ScreenW, core.Max(cfg.ScreenH-helpHeight, 1)),
		config:   cfg,
		keys:     keys,
		help:     h,
		gen:      playbackGens.Add(1),
		embedded: embedded,
	}
	m.player, m.err = replay.NewPlayer(run, nil)
	return m
}

// Init schedules the first playback tick.
func (m PlaybackModel) Init() tea.Cmd {
	if m.player == nil {
		return nil
	}
	return playbackTickCmd(m.config.TickInterval, m.gen)
}

// Update handles messages for the playback screen.
func (m PlaybackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		switch m.keys.Action(msg) {
		case core.ActionQuit:
			m.quitting = true
			return m, tea.Quit
		case core.ActionBack:
			if m.embedded {
				m.back = true
				return m, nil
			}
		case core.ActionRestart:
			return m.restart()
		}

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, core.Max(msg.Height-helpHeight, 1))
		m.help.Width = msg.Width

	case playbackTickMsg:
		if msg.gen != m.gen || m.player == nil {
			return m, nil
		}
		if m.player.Step() {
			return m, playbackTickCmd(m.config.TickInterval, m.gen)
		}
	}
	return m, nil
}

// restart rewinds to the first tick. Ticks still queued from the previous
// pass carry an old generation and are ignored.
func (m PlaybackModel) restart() (tea.Model, tea.Cmd) {
	m.player, m.err = replay.NewPlayer(m.run, nil)
	m.gen = playbackGens.Add(1)
	return m, m.Init()
}

// GoingBack reports whether the user asked to leave an embedded playback.
func (m PlaybackModel) GoingBack() bool {
	return m.back
}

// IsQuitting reports whether the user asked to quit.
func (m PlaybackModel) IsQuitting() bool {
	return m.quitting
}

// View renders the playback.
func (m PlaybackModel) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		m.screen.Clear()
		m.screen.DrawTextCentered(m.screen.Height()/2, m.err.Error(), core.ColorRed)
		return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
	}

	snap := m.player.Snapshot()
	v := boardView{
		Title:  fmt.Sprintf("REPLAY #%d", m.run.ID),
		Status: fmt.Sprintf("Tick %d/%d  Score %d", snap.Tick, m.run.Ticks, snap.Score),
		Over: []string{
			"GAME OVER",
			causeText(snap.Cause),
			scoreLine(snap),
			"r replay again",
		},
	}
	if m.run.Player != "" {
		v.Title += " " + m.run.Player
	}
	if m.player.Done() && !snap.GameOver {
		v.Notice = "END OF RECORDING"
	}
	drawBoard(m.screen, snap, v)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// RunPlayback plays run back in a standalone program.
func RunPlayback(run replay.Run, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(NewPlaybackModel(run, cfg, false), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
