package replay

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

type memorySink struct {
	runs []storage.RunRecord
	err  error
}

func (s *memorySink) SaveRun(rec storage.RunRecord) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.runs = append(s.runs, rec)
	return int64(len(s.runs)), nil
}

// playRandom drives a recorded game with pseudo-random input until it ends.
func playRandom(t *testing.T, g *snake.Game, inputSeed int64) {
	t.Helper()
	rnd := rand.New(rand.NewSource(inputSeed))
	dirs := []snake.Direction{snake.DirUp, snake.DirDown, snake.DirLeft, snake.DirRight}
	for range 10000 {
		if g.Snapshot().GameOver {
			return
		}
		if rnd.Intn(3) == 0 {
			g.SetDirection(dirs[rnd.Intn(len(dirs))])
		}
		// Occasionally change twice within one tick
		if rnd.Intn(10) == 0 {
			g.SetDirection(dirs[rnd.Intn(len(dirs))])
		}
		g.Tick()
	}
	t.Fatal("game did not end within 10000 ticks")
}

func newRecordedGame(sink Sink, margin snake.Margin, seed int64) (*snake.Game, *Recorder) {
	g := snake.New(snake.Options{CellSize: 20, FoodMargin: margin, Seed: seed})
	rec := NewRecorder(sink, RecorderOptions{Player: "tester", Margin: margin})
	g.Subscribe(rec)
	return g, rec
}

func TestRecorderSavesFinishedRun(t *testing.T) {
	sink := &memorySink{}
	g, rec := newRecordedGame(sink, snake.Margin{}, 7)

	g.Start(300, 400)
	g.SetDirection(snake.DirUp)
	for !g.Snapshot().GameOver {
		g.Tick()
	}

	if len(sink.runs) != 1 {
		t.Fatalf("Expected 1 saved run, got %d", len(sink.runs))
	}
	saved := sink.runs[0]
	if saved.RunID == "" {
		t.Error("RunID should be set")
	}
	if saved.Player != "tester" || saved.Seed != 7 || saved.Width != 300 || saved.Height != 400 || saved.CellSize != 20 {
		t.Errorf("unexpected run header: %+v", saved)
	}
	if saved.Cause != "wall" {
		t.Errorf("Cause = %q, expected wall", saved.Cause)
	}
	// From (140,200) going up: 10 moves reach y=0, the 11th hits the wall
	if saved.Ticks != 11 {
		t.Errorf("Ticks = %d, expected 11", saved.Ticks)
	}
	if len(saved.Moves) != 1 || saved.Moves[0] != (storage.Move{Tick: 0, Dir: "up"}) {
		t.Errorf("Moves = %+v, expected one up move at tick 0", saved.Moves)
	}

	last, ok := rec.Last()
	if !ok || last.ID != 1 || last.RunID != saved.RunID {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
}

func TestRecorderDropsAbandonedRun(t *testing.T) {
	sink := &memorySink{}
	g, rec := newRecordedGame(sink, snake.Margin{}, 1)

	g.Start(300, 400)
	g.Tick()
	g.Restart()
	g.Tick()
	g.Stop()

	if len(sink.runs) != 0 {
		t.Errorf("Abandoned runs should not be saved, got %d", len(sink.runs))
	}
	if _, ok := rec.Last(); ok {
		t.Error("Last() should report no finished run")
	}
}

func TestRecorderRecordsEachRestart(t *testing.T) {
	sink := &memorySink{}
	g, _ := newRecordedGame(sink, snake.Margin{}, 3)

	g.Start(200, 200)
	for !g.Snapshot().GameOver {
		g.Tick()
	}
	g.Restart()
	for !g.Snapshot().GameOver {
		g.Tick()
	}

	if len(sink.runs) != 2 {
		t.Fatalf("Expected 2 saved runs, got %d", len(sink.runs))
	}
	if sink.runs[0].RunID == sink.runs[1].RunID {
		t.Error("Each run should get its own RunID")
	}
	if sink.runs[0].Seed == sink.runs[1].Seed {
		t.Error("Restarted run should carry its derived seed")
	}
}

func TestRecorderSinkErrorKeepsLast(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	g, rec := newRecordedGame(sink, snake.Margin{}, 5)

	g.Start(100, 100)
	for !g.Snapshot().GameOver {
		g.Tick()
	}

	last, ok := rec.Last()
	if !ok {
		t.Fatal("Last() should be set even when saving fails")
	}
	if last.ID != 0 {
		t.Errorf("ID = %d, expected 0 for an unsaved run", last.ID)
	}
}

func TestRecordedRunsVerify(t *testing.T) {
	margins := []snake.Margin{{}, {Top: 100}, {Top: 20, Right: 40, Bottom: 20, Left: 40}}
	for i, margin := range margins {
		for seed := int64(1); seed <= 20; seed++ {
			sink := &memorySink{}
			g, _ := newRecordedGame(sink, margin, seed)
			g.Start(300, 400)
			playRandom(t, g, seed*31+int64(i))

			if len(sink.runs) != 1 {
				t.Fatalf("seed %d: expected 1 run, got %d", seed, len(sink.runs))
			}
			run, err := FromRecord(sink.runs[0])
			if err != nil {
				t.Fatalf("FromRecord() failed: %v", err)
			}
			if err := Verify(run); err != nil {
				t.Errorf("margin %d seed %d: %v", i, seed, err)
			}
		}
	}
}

func TestVerifyDetectsMismatch(t *testing.T) {
	sink := &memorySink{}
	g, _ := newRecordedGame(sink, snake.Margin{}, 11)
	g.Start(300, 400)
	playRandom(t, g, 99)

	run, err := FromRecord(sink.runs[0])
	if err != nil {
		t.Fatalf("FromRecord() failed: %v", err)
	}

	tampered := run
	tampered.Score++
	if err := Verify(tampered); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify(tampered score) = %v, expected ErrMismatch", err)
	}

	tampered = run
	tampered.Ticks += 5
	if err := Verify(tampered); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify(tampered ticks) = %v, expected ErrMismatch", err)
	}
}

func TestPlayObserverSeesPlayback(t *testing.T) {
	run := Run{
		RunID:    "manual",
		Seed:     1,
		Width:    300,
		Height:   400,
		CellSize: 20,
		Margin:   snake.Margin{Top: 220}, // Keeps food off the path
		Ticks:    11,
		Cause:    snake.CauseWall,
		Length:   1,
		Moves:    []Move{{Tick: 0, Dir: snake.DirUp}},
	}

	var moved, over int
	snap, err := Play(run, snake.ObserverFunc(func(ev snake.Event) {
		switch ev.Kind {
		case snake.EventMoved:
			moved++
		case snake.EventGameOver:
			over++
		}
	}))
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if moved != 10 || over != 1 {
		t.Errorf("moved=%d over=%d, expected 10 and 1", moved, over)
	}
	if head, _ := snap.Head(); head != (snake.Point{X: 140, Y: 0}) {
		t.Errorf("final head = %+v, expected (140,0)", head)
	}
	if err := Verify(run); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestPlayerStopsAtRecordedTicks(t *testing.T) {
	run := Run{RunID: "short", Seed: 1, Width: 300, Height: 400, CellSize: 20, Ticks: 3}

	p, err := NewPlayer(run, nil)
	if err != nil {
		t.Fatalf("NewPlayer() failed: %v", err)
	}
	steps := 0
	for p.Step() {
		steps++
	}
	if steps != 2 {
		t.Errorf("Step() reported %d continuations, expected 2", steps)
	}
	if got := p.Snapshot().Tick; got != 3 {
		t.Errorf("Tick = %d, expected 3", got)
	}
	if p.Step() {
		t.Error("Step() after Done should report false")
	}
	if p.Run().RunID != "short" {
		t.Error("Run() should return the recording")
	}
}

func TestNewPlayerRejectsBadRuns(t *testing.T) {
	tests := []struct {
		name string
		run  Run
	}{
		{"zero size", Run{CellSize: 20}},
		{"zero cell", Run{Width: 100, Height: 100}},
		{"unordered moves", Run{Width: 100, Height: 100, CellSize: 20, Moves: []Move{{Tick: 5}, {Tick: 2}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewPlayer(tc.run, nil); err == nil {
				t.Error("NewPlayer() should fail")
			}
		})
	}
}

func TestFromRecordUnknownDirection(t *testing.T) {
	rec := storage.RunRecord{RunID: "x", Moves: []storage.Move{{Tick: 1, Dir: "sideways"}}}
	if _, err := FromRecord(rec); err == nil {
		t.Error("FromRecord() should reject unknown directions")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	margin := snake.Margin{Top: 100}
	g, rec := newRecordedGame(store, margin, 2024)
	g.Start(300, 400)
	playRandom(t, g, 5)

	last, ok := rec.Last()
	if !ok || last.ID == 0 {
		t.Fatalf("run was not saved: %+v", last)
	}

	loaded, err := store.Run(last.ID)
	if err != nil || loaded == nil {
		t.Fatalf("store.Run() = %v, %v", loaded, err)
	}
	run, err := FromRecord(*loaded)
	if err != nil {
		t.Fatalf("FromRecord() failed: %v", err)
	}
	if run.Margin != margin {
		t.Errorf("Margin = %+v, expected %+v", run.Margin, margin)
	}
	if err := Verify(run); err != nil {
		t.Errorf("Verify() after store round trip = %v", err)
	}
}
