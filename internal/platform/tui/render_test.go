package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

func TestFitBoard(t *testing.T) {
	tests := []struct {
		w, h, cell   int
		wantW, wantH int
	}{
		{80, 24, 20, 39 * 20, 20 * 20},
		{42, 24, 10, 20 * 10, 20 * 10},
		{3, 3, 20, 20, 20}, // Never below one cell
	}
	for _, tc := range tests {
		gotW, gotH := FitBoard(tc.w, tc.h, tc.cell)
		if gotW != tc.wantW || gotH != tc.wantH {
			t.Errorf("FitBoard(%d, %d, %d) = %d, %d; expected %d, %d",
				tc.w, tc.h, tc.cell, gotW, gotH, tc.wantW, tc.wantH)
		}
	}
}

func testSnapshot() snake.Snapshot {
	return snake.Snapshot{
		Width:    100,
		Height:   60,
		CellSize: 20,
		Snake:    []snake.Point{{X: 40, Y: 20}, {X: 20, Y: 20}},
		Food:     snake.Point{X: 80, Y: 40},
		HasFood:  true,
		Score:    1,
		State:    snake.StateRunning,
	}
}

func TestDrawBoardPlacesCells(t *testing.T) {
	s := core.NewScreen(12, 6)
	if !drawBoard(s, testSnapshot(), boardView{Title: "T"}) {
		t.Fatal("board should fit")
	}

	// 5x3 cells -> 12x5 frame starting at row 1, cells from row 2
	if got := s.Get(0, 1); got != '┌' {
		t.Errorf("frame corner = %q", got)
	}
	if got := s.Get(1+2*2, 3); got != '@' {
		t.Errorf("head cell = %q, expected '@'", got)
	}
	if got := s.Get(1+1*2, 3); got != 'o' {
		t.Errorf("body cell = %q, expected 'o'", got)
	}
	if got := s.Get(1+4*2, 4); got != '*' {
		t.Errorf("food cell = %q, expected '*'", got)
	}
	if s.GetCell(1+2*2, 3).Color != core.ColorBrightGreen {
		t.Error("live head should be bright green")
	}
	if got := s.Get(0, 0); got != 'T' {
		t.Errorf("title = %q", got)
	}
}

func TestDrawBoardTooSmall(t *testing.T) {
	s := core.NewScreen(40, 4)
	if drawBoard(s, testSnapshot(), boardView{}) {
		t.Error("a screen shorter than the frame should not fit")
	}
	if !strings.Contains(s.String(), "Window too small") {
		t.Error("notice missing")
	}
}

func TestDrawBoardOverlays(t *testing.T) {
	snap := testSnapshot()
	snap.Width, snap.Height = 400, 200

	snap.BoardFull = true
	s := core.NewScreen(60, 20)
	drawBoard(s, snap, boardView{})
	if !strings.Contains(s.String(), "BOARD FULL") {
		t.Error("board full notice missing")
	}

	snap.GameOver = true
	snap.Cause = snake.CauseSelf
	drawBoard(s, snap, boardView{Over: []string{"GAME OVER", causeText(snap.Cause)}})
	out := s.String()
	if !strings.Contains(out, "GAME OVER") || !strings.Contains(out, "Ran into itself") {
		t.Error("game over overlay missing")
	}
	if strings.Contains(out, "BOARD FULL") {
		t.Error("game over should replace the board full notice")
	}
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(5, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorRed)
	s.DrawText(2, 0, "c")
	s.DrawTextColor(0, 1, "xyz", core.ColorGray)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[0], "c") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "xyz") {
		t.Errorf("second line = %q", lines[1])
	}
}
