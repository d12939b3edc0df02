// Package replay records finished Snake runs and plays them back.
//
// A run is fully determined by its seed, its board geometry and the
// accepted direction changes stamped with the tick they preceded, so a
// recording stores only those and the outcome used to verify playback.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// ErrMismatch is returned by Verify when playback diverges from the
// recorded outcome.
var ErrMismatch = errors.New("replay: outcome mismatch")

// Move is an accepted direction change made after Tick ticks had completed.
type Move struct {
	Tick uint64
	Dir  snake.Direction
}

// Run is a recorded game.
type Run struct {
	ID        int64 // Store ID, 0 until saved
	RunID     string
	Player    string
	Seed      int64
	Width     int
	Height    int
	CellSize  int
	Margin    snake.Margin
	Score     int
	Length    int
	Ticks     uint64
	Cause     snake.Cause
	Moves     []Move
	CreatedAt time.Time
}

// Record converts the run to its storage form.
func (r Run) Record() storage.RunRecord {
	moves := make([]storage.Move, len(r.Moves))
	for i, m := range r.Moves {
		moves[i] = storage.Move{Tick: m.Tick, Dir: m.Dir.String()}
	}
	return storage.RunRecord{
		ID:        r.ID,
		RunID:     r.RunID,
		Player:    r.Player,
		Seed:      r.Seed,
		Width:     r.Width,
		Height:    r.Height,
		CellSize:  r.CellSize,
		Margin:    [4]int{r.Margin.Top, r.Margin.Right, r.Margin.Bottom, r.Margin.Left},
		Score:     r.Score,
		Length:    r.Length,
		Ticks:     r.Ticks,
		Cause:     string(r.Cause),
		Moves:     moves,
		CreatedAt: r.CreatedAt,
	}
}

// FromRecord converts a stored record back into a Run.
func FromRecord(rec storage.RunRecord) (Run, error) {
	run := Run{
		ID:       rec.ID,
		RunID:    rec.RunID,
		Player:   rec.Player,
		Seed:     rec.Seed,
		Width:    rec.Width,
		Height:   rec.Height,
		CellSize: rec.CellSize,
		Margin: snake.Margin{
			Top:    rec.Margin[0],
			Right:  rec.Margin[1],
			Bottom: rec.Margin[2],
			Left:   rec.Margin[3],
		},
		Score:     rec.Score,
		Length:    rec.Length,
		Ticks:     rec.Ticks,
		Cause:     snake.Cause(rec.Cause),
		Moves:     make([]Move, 0, len(rec.Moves)),
		CreatedAt: rec.CreatedAt,
	}
	for i, m := range rec.Moves {
		d, ok := snake.ParseDirection(m.Dir)
		if !ok {
			return Run{}, fmt.Errorf("replay: move %d has unknown direction %q", i, m.Dir)
		}
		run.Moves = append(run.Moves, Move{Tick: m.Tick, Dir: d})
	}
	return run, nil
}

// Summary is a one-line description of the outcome.
func (r Run) Summary() string {
	return fmt.Sprintf("score %d, length %d, %d ticks, hit %s", r.Score, r.Length, r.Ticks, r.Cause)
}
