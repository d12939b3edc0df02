package replay

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Sink receives finished runs. *storage.Store satisfies it.
type Sink interface {
	SaveRun(rec storage.RunRecord) (int64, error)
}

// RecorderOptions configures a Recorder.
type RecorderOptions struct {
	Player string
	Margin snake.Margin // Food margin the game was created with
	Logger *log.Logger  // nil discards
}

// Recorder observes a Game and saves each run that reaches game over.
// Runs abandoned by Stop or Restart are dropped.
type Recorder struct {
	sink   Sink
	opts   RecorderOptions
	logger *log.Logger

	cur  *Run
	last *Run
}

// NewRecorder creates a recorder writing to sink.
func NewRecorder(sink Sink, opts RecorderOptions) *Recorder {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{sink: sink, opts: opts, logger: logger}
}

// OnEvent implements snake.Observer.
func (r *Recorder) OnEvent(ev snake.Event) {
	switch ev.Kind {
	case snake.EventStarted:
		st := ev.State
		r.cur = &Run{
			RunID:    uuid.NewString(),
			Player:   r.opts.Player,
			Seed:     st.Seed,
			Width:    st.Width,
			Height:   st.Height,
			CellSize: st.CellSize,
			Margin:   r.opts.Margin,
		}

	case snake.EventDirection:
		if r.cur != nil {
			r.cur.Moves = append(r.cur.Moves, Move{Tick: ev.Tick, Dir: ev.Dir})
		}

	case snake.EventGameOver:
		if r.cur == nil {
			return
		}
		run := r.cur
		r.cur = nil
		run.Score = ev.State.Score
		run.Length = ev.State.Len()
		run.Ticks = ev.Tick
		run.Cause = ev.State.Cause
		r.save(run)

	case snake.EventStopped:
		if r.cur != nil && !ev.State.GameOver {
			r.logger.Debug("run abandoned", "run_id", r.cur.RunID, "ticks", ev.Tick)
			r.cur = nil
		}
	}
}

func (r *Recorder) save(run *Run) {
	r.last = run
	if r.sink == nil {
		return
	}
	id, err := r.sink.SaveRun(run.Record())
	if err != nil {
		r.logger.Error("failed to save run", "run_id", run.RunID, "err", err)
		return
	}
	run.ID = id
	r.logger.Info("run saved", "id", id, "score", run.Score, "ticks", run.Ticks)
}

// Last returns the most recently finished run, if any.
func (r *Recorder) Last() (Run, bool) {
	if r.last == nil {
		return Run{}, false
	}
	return *r.last, true
}
