package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// Layout constants, in terminal cells.
const (
	cellWidth  = 2 // Columns per board cell, keeps cells roughly square
	hudHeight  = 1 // Status line above the board
	helpHeight = 1 // Help line below the screen buffer
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorBrightRed:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// FitBoard returns the largest board, in board units, whose frame fits a
// terminal of the given size alongside the status and help lines.
func FitBoard(screenW, screenH, cellSize int) (width, height int) {
	cols := (screenW - 2) / cellWidth
	rows := screenH - helpHeight - hudHeight - 2
	return core.Max(cols, 1) * cellSize, core.Max(rows, 1) * cellSize
}

// boardFrame returns the terminal rectangle the bordered board needs.
func boardFrame(snap snake.Snapshot) core.Rect {
	return core.NewRect(0, hudHeight, snap.Columns()*cellWidth+2, snap.Rows()+2)
}

// boardView carries the text drawn around the board.
type boardView struct {
	Title  string   // Left side of the status line
	Status string   // Right side of the status line; defaults to the score
	Over   []string // Overlay lines when the game is over
	Notice string   // Overlay when not over, e.g. end of a recording
}

// drawBoard renders snap into s. When the screen cannot hold the board it
// draws a "window too small" notice instead and returns false.
func drawBoard(s *core.Screen, snap snake.Snapshot, v boardView) bool {
	s.Clear()

	frame := boardFrame(snap)
	if s.Width() < frame.W || s.Height() < frame.Bottom() {
		mid := s.Height() / 2
		s.DrawTextCentered(mid-1, "Window too small", core.ColorYellow)
		s.DrawTextCentered(mid, fmt.Sprintf("need %dx%d, have %dx%d",
			frame.W, frame.Bottom()+helpHeight, s.Width(), s.Height()+helpHeight), core.ColorGray)
		return false
	}
	frame.X = (s.Width() - frame.W) / 2

	// Status line
	status := v.Status
	if status == "" {
		status = fmt.Sprintf("Score: %d  Length: %d", snap.Score, snap.Len())
	}
	s.DrawTextColor(frame.Right()-len([]rune(status)), 0, status, core.ColorBrightWhite)
	s.DrawTextColor(frame.X, 0, v.Title, core.ColorCyan)

	s.DrawBox(frame, core.ColorGray)

	cs := snap.CellSize
	at := func(p snake.Point) (int, int) {
		return frame.X + 1 + (p.X/cs)*cellWidth, frame.Y + 1 + p.Y/cs
	}

	if snap.HasFood {
		x, y := at(snap.Food)
		s.SetColor(x, y, '*', core.ColorBrightRed)
	}
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		x, y := at(snap.Snake[i])
		if i == 0 {
			c := core.ColorBrightGreen
			if snap.GameOver {
				c = core.ColorRed
			}
			s.SetColor(x, y, '@', c)
			continue
		}
		s.SetColor(x, y, 'o', core.ColorGreen)
	}

	switch {
	case snap.GameOver:
		drawOverlay(s, frame, v.Over, core.ColorBrightRed)
	case v.Notice != "":
		drawOverlay(s, frame, []string{v.Notice}, core.ColorYellow)
	case snap.BoardFull:
		label := " BOARD FULL "
		s.DrawTextColor(frame.X+(frame.W-len(label))/2, frame.Bottom()-1, label, core.ColorYellow)
	}
	return true
}

// drawOverlay draws a boxed message centered on the board frame.
func drawOverlay(s *core.Screen, frame core.Rect, lines []string, c core.Color) {
	if len(lines) == 0 {
		return
	}
	w := 0
	for _, l := range lines {
		w = core.Max(w, len([]rune(l)))
	}
	box := core.NewRect(0, 0, w+4, len(lines)+2)
	box.X = frame.X + (frame.W-box.W)/2
	box.Y = frame.Y + (frame.H-box.H)/2

	s.FillRect(box, ' ', core.ColorDefault)
	s.DrawBox(box, c)
	for i, l := range lines {
		x := box.X + (box.W-len([]rune(l)))/2
		lc := core.ColorBrightWhite
		if i == 0 {
			lc = c
		}
		s.DrawTextColor(x, box.Y+1+i, l, lc)
	}
}

// causeText describes how a run ended.
func causeText(c snake.Cause) string {
	switch c {
	case snake.CauseWall:
		return "Hit the wall"
	case snake.CauseSelf:
		return "Ran into itself"
	default:
		return "Stopped"
	}
}

func scoreLine(snap snake.Snapshot) string {
	return fmt.Sprintf("Score %d  Length %d", snap.Score, snap.Len())
}
