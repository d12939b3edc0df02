// Package tui provides the Bubble Tea front end for tui-snake: the game
// screen, replay playback and browser, and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the game to advance one step. Gen must match the game's
// current generation or the tick is dropped.
type TickMsg struct {
	Gen uint64
}

// tickCmd schedules one TickMsg after interval.
func tickCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}

// playbackTickMsg drives replay playback. Gen is bumped when playback
// restarts so ticks from the previous pass are ignored.
type playbackTickMsg struct {
	gen uint64
}

func playbackTickCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return playbackTickMsg{gen: gen}
	})
}
