package snake

import (
	"fmt"
	"slices"
	"strings"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StateIdle     GameStateType = "idle"
	StateRunning  GameStateType = "running"
	StateGameOver GameStateType = "game_over"
)

// Snapshot is a read-only copy of everything a front end needs to draw the
// board. It shares no memory with the Game.
type Snapshot struct {
	Tick      uint64
	Width     int
	Height    int
	CellSize  int
	Seed      int64
	Snake     []Point // Head at index 0
	Food      Point
	HasFood   bool
	BoardFull bool
	Score     int
	Dir       Direction
	GameOver  bool
	Cause     Cause
	Ticking   bool // Tick source active
	State     GameStateType
}

// Head returns the head cell, or false when the snake is empty.
func (s Snapshot) Head() (Point, bool) {
	if len(s.Snake) == 0 {
		return Point{}, false
	}
	return s.Snake[0], true
}

// Len returns the number of snake segments.
func (s Snapshot) Len() int {
	return len(s.Snake)
}

// Columns returns the number of whole cells across the board.
func (s Snapshot) Columns() int {
	if s.CellSize <= 0 {
		return 0
	}
	return s.Width / s.CellSize
}

// Rows returns the number of whole cells down the board.
func (s Snapshot) Rows() int {
	if s.CellSize <= 0 {
		return 0
	}
	return s.Height / s.CellSize
}

// Snapshot returns the current game state. It has no side effects.
func (g *Game) Snapshot() Snapshot {
	state := StateRunning
	switch {
	case !g.started:
		state = StateIdle
	case g.gameOver:
		state = StateGameOver
	}

	return Snapshot{
		Tick:      g.tick,
		Width:     g.width,
		Height:    g.height,
		CellSize:  g.cellSize,
		Seed:      g.seed,
		Snake:     slices.Clone(g.snake),
		Food:      g.food,
		HasFood:   g.hasFood,
		BoardFull: g.boardFull,
		Score:     g.score,
		Dir:       g.direction,
		GameOver:  g.gameOver,
		Cause:     g.cause,
		Ticking:   g.running,
		State:     state,
	}
}

// DebugState returns a short human-readable summary of the snapshot.
func (s Snapshot) DebugState() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d, Score: %d, State: %s\n", s.Tick, s.Score, s.State)
	fmt.Fprintf(&b, "Snake len: %d, Direction: %s\n", len(s.Snake), s.Dir)
	if head, ok := s.Head(); ok {
		fmt.Fprintf(&b, "Head: (%d, %d), Food: (%d, %d)\n", head.X, head.Y, s.Food.X, s.Food.Y)
	}
	if s.GameOver {
		fmt.Fprintf(&b, "Cause: %s\n", s.Cause)
	}
	return b.String()
}

// EventKind identifies a state change.
type EventKind int

const (
	EventStarted EventKind = iota
	EventDirection
	EventMoved
	EventAte
	EventGameOver
	EventBoardFull
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventDirection:
		return "direction"
	case EventMoved:
		return "moved"
	case EventAte:
		return "ate"
	case EventGameOver:
		return "game_over"
	case EventBoardFull:
		return "board_full"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is pushed to observers after every state change.
type Event struct {
	Kind  EventKind
	Tick  uint64    // Ticks completed when the event fired
	Dir   Direction // Set for direction, moved and ate events
	Err   error     // Set for board full events
	State Snapshot
}

// Observer receives state change notifications. Observers run synchronously
// on the caller's goroutine and must not call back into the Game.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnEvent calls f(ev).
func (f ObserverFunc) OnEvent(ev Event) {
	f(ev)
}

type observerEntry struct {
	id int
	o  Observer
}

// Subscribe registers an observer and returns a function that removes it.
func (g *Game) Subscribe(o Observer) (unsubscribe func()) {
	g.nextObsID++
	id := g.nextObsID
	g.observers = append(g.observers, &observerEntry{id: id, o: o})
	return func() {
		g.observers = slices.DeleteFunc(g.observers, func(e *observerEntry) bool {
			return e.id == id
		})
	}
}

func (g *Game) emit(ev Event) {
	if len(g.observers) == 0 {
		return
	}
	ev.Tick = g.tick
	ev.State = g.Snapshot()
	for _, e := range slices.Clone(g.observers) {
		e.o.OnEvent(ev)
	}
}
