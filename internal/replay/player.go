package replay

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// Player steps a recorded run through a fresh Game one tick at a time.
type Player struct {
	run  Run
	game *snake.Game
	next int // Index of the next move to apply
}

// NewPlayer rebuilds the run's starting position. obs, if non-nil, sees
// every event of the playback.
func NewPlayer(run Run, obs snake.Observer) (*Player, error) {
	if run.Width <= 0 || run.Height <= 0 || run.CellSize <= 0 {
		return nil, fmt.Errorf("replay: run %q has invalid geometry %dx%d/%d", run.RunID, run.Width, run.Height, run.CellSize)
	}
	for i := 1; i < len(run.Moves); i++ {
		if run.Moves[i].Tick < run.Moves[i-1].Tick {
			return nil, fmt.Errorf("replay: run %q moves out of order at %d", run.RunID, i)
		}
	}

	g := snake.New(snake.Options{
		CellSize:   run.CellSize,
		FoodMargin: run.Margin,
		Seed:       run.Seed,
	})
	if obs != nil {
		g.Subscribe(obs)
	}
	g.Start(run.Width, run.Height)
	return &Player{run: run, game: g}, nil
}

// Step applies the moves due before the next tick and performs it.
// It reports whether playback can continue.
func (p *Player) Step() bool {
	if p.Done() {
		return false
	}
	tick := p.game.Snapshot().Tick
	for p.next < len(p.run.Moves) && p.run.Moves[p.next].Tick <= tick {
		p.game.SetDirection(p.run.Moves[p.next].Dir)
		p.next++
	}
	p.game.Tick()
	return !p.Done()
}

// Done reports whether the game ended or the recorded tick count was reached.
func (p *Player) Done() bool {
	snap := p.game.Snapshot()
	return snap.GameOver || snap.Tick >= p.run.Ticks
}

// Snapshot returns the current playback state.
func (p *Player) Snapshot() snake.Snapshot {
	return p.game.Snapshot()
}

// Run returns the recording being played.
func (p *Player) Run() Run {
	return p.run
}

// Play replays run to completion and returns the final state.
func Play(run Run, obs snake.Observer) (snake.Snapshot, error) {
	p, err := NewPlayer(run, obs)
	if err != nil {
		return snake.Snapshot{}, err
	}
	for p.Step() {
	}
	p.game.Stop()
	return p.Snapshot(), nil
}

// Verify replays run and checks that it ends exactly as recorded.
func Verify(run Run) error {
	snap, err := Play(run, nil)
	if err != nil {
		return err
	}

	var diffs []error
	if snap.Score != run.Score {
		diffs = append(diffs, fmt.Errorf("score %d, recorded %d", snap.Score, run.Score))
	}
	if snap.Len() != run.Length {
		diffs = append(diffs, fmt.Errorf("length %d, recorded %d", snap.Len(), run.Length))
	}
	if snap.Tick != run.Ticks {
		diffs = append(diffs, fmt.Errorf("ticks %d, recorded %d", snap.Tick, run.Ticks))
	}
	if snap.Cause != run.Cause {
		diffs = append(diffs, fmt.Errorf("cause %q, recorded %q", snap.Cause, run.Cause))
	}
	if len(diffs) > 0 {
		return fmt.Errorf("%w: run %s: %w", ErrMismatch, run.RunID, errors.Join(diffs...))
	}
	return nil
}
