// Package snake implements the Snake simulation: a grid, a body list, a
// single food cell and the per-tick movement rules. It performs no I/O and
// never blocks; a clock and an input source drive it from the outside.
package snake

import (
	"errors"
	"io"
	"math/rand"
	"slices"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// DefaultCellSize is the edge length of one grid cell in board units.
const DefaultCellSize = 20

// ErrBoardFull is reported when no free cell is left for food.
var ErrBoardFull = errors.New("snake: no free cell for food")

// generations hands out tick tokens. Tokens are unique across all games so
// a tick queued for one game is never accepted by another.
var generations atomic.Uint64

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Delta returns the unit vector for the direction. Y grows downward.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection is the inverse of Direction.String.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	}
	return DirRight, false
}

// DirectionFor maps a directional platform action to a Direction.
func DirectionFor(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	case core.ActionRight:
		return DirRight, true
	}
	return DirRight, false
}

// Point is a grid cell position in board units. Both coordinates are
// multiples of the cell size.
type Point struct {
	X, Y int
}

// Cause records why a game ended.
type Cause string

const (
	CauseNone Cause = ""
	CauseWall Cause = "wall"
	CauseSelf Cause = "self"
)

// Margin is a band along the board edges where food is never placed.
type Margin struct {
	Top, Right, Bottom, Left int
}

// Options configures a Game.
type Options struct {
	CellSize   int
	FoodMargin Margin
	Seed       int64       // Seed for the first run; later runs derive theirs
	Logger     *log.Logger // nil discards
}

// Game is the Snake simulation. It is not safe for concurrent use: the
// owner must deliver ticks and input from a single goroutine.
type Game struct {
	cellSize int
	margin   Margin
	logger   *log.Logger
	seed     int64
	rng      *rand.Rand

	width  int
	height int

	// Snake state
	snake     []Point // Head at index 0
	direction Direction
	nextDir   Direction // Applied on the next tick

	food      Point
	hasFood   bool
	boardFull bool

	score    int
	tick     uint64
	gameOver bool
	cause    Cause

	// Tick source ownership
	started bool
	running bool
	gen     uint64

	observers []*observerEntry
	nextObsID int
}

// New creates a game that has not been started yet.
func New(opts Options) *Game {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		cellSize: opts.CellSize,
		margin:   opts.FoodMargin,
		logger:   logger,
		seed:     opts.Seed,
	}
}

// Start initializes the board, places a one-segment snake at the board
// center, places the first food and activates the tick source.
// The dimensions must fit at least one cell; smaller boards are not handled.
func (g *Game) Start(width, height int) {
	if g.started {
		// Every run after the first draws its seed from the previous run so
		// a sequence of restarts stays reproducible from the first seed.
		g.seed = g.rng.Int63()
	}
	g.rng = rand.New(rand.NewSource(g.seed))

	g.width = width
	g.height = height
	g.score = 0
	g.tick = 0
	g.gameOver = false
	g.cause = CauseNone
	g.boardFull = false
	g.hasFood = false
	g.direction = DirRight
	g.nextDir = DirRight
	g.snake = []Point{g.center()}
	g.started = true

	if err := g.placeFood(); err != nil {
		g.logger.Warn("no room for initial food", "width", width, "height", height)
	}

	g.running = true
	g.gen = generations.Add(1)
	g.logger.Debug("game started", "width", width, "height", height, "seed", g.seed)
	g.emit(Event{Kind: EventStarted})
}

// Stop halts the tick source. It is idempotent and leaves the board as is.
// Any tick already queued with the old generation becomes a no-op.
func (g *Game) Stop() {
	if !g.running {
		return
	}
	g.running = false
	g.gen = generations.Add(1)
	g.emit(Event{Kind: EventStopped})
}

// Restart stops the game, clears score, flag and snake, and starts again
// with the last known board dimensions. It is a no-op before the first Start.
func (g *Game) Restart() {
	if !g.started {
		return
	}
	g.Stop()
	g.snake = nil
	g.score = 0
	g.gameOver = false
	g.Start(g.width, g.height)
}

// SetDirection records the direction used by the next tick. The latest call
// between two ticks wins. Reversing onto the neck is silently ignored while
// the snake is longer than one segment, and every call is ignored after
// game over.
func (g *Game) SetDirection(d Direction) {
	if !g.started || g.gameOver {
		return
	}
	if len(g.snake) > 1 && d == g.direction.Opposite() {
		return
	}
	if d == g.nextDir {
		return
	}
	g.nextDir = d
	g.emit(Event{Kind: EventDirection, Dir: d})
}

// OnTick is the clock entry point. Ticks carrying a stale generation, or
// arriving while the tick source is stopped, are dropped. It reports whether
// the clock should schedule another tick.
func (g *Game) OnTick(gen uint64) bool {
	if !g.running || gen != g.gen {
		return false
	}
	g.Tick()
	return g.running
}

// Generation returns the token the clock must present with each tick.
func (g *Game) Generation() uint64 {
	return g.gen
}

// Running reports whether the tick source is active.
func (g *Game) Running() bool {
	return g.running
}

// Seed returns the seed of the current run.
func (g *Game) Seed() int64 {
	return g.seed
}

// Tick performs one state transition. It is a no-op before Start and after
// game over.
func (g *Game) Tick() {
	if !g.started || g.gameOver || len(g.snake) == 0 {
		return
	}
	g.tick++

	g.direction = g.nextDir
	dx, dy := g.direction.Delta()
	head := g.snake[0]
	newHead := Point{X: head.X + dx*g.cellSize, Y: head.Y + dy*g.cellSize}

	if !g.bounds().Contains(newHead.X, newHead.Y) {
		g.endGame(CauseWall)
		return
	}

	grows := g.hasFood && newHead == g.food

	// The tail cell moves out of the way this tick unless the snake grows.
	// A two-segment snake's tail is also its neck, so it stays solid.
	body := g.snake
	if !grows && len(body) > 2 {
		body = body[:len(body)-1]
	}
	if slices.Contains(body, newHead) {
		g.endGame(CauseSelf)
		return
	}

	g.snake = append([]Point{newHead}, g.snake...)

	if !grows {
		g.snake = g.snake[:len(g.snake)-1]
		g.emit(Event{Kind: EventMoved, Dir: g.direction})
		return
	}

	g.score++
	err := g.placeFood()
	g.emit(Event{Kind: EventAte, Dir: g.direction})
	if err != nil {
		g.logger.Warn("board full, food left in place", "score", g.score, "length", len(g.snake))
		g.emit(Event{Kind: EventBoardFull, Err: err})
	}
}

// endGame is the terminal transition; it also stops the tick source.
func (g *Game) endGame(cause Cause) {
	g.gameOver = true
	g.cause = cause
	g.running = false
	g.gen = generations.Add(1)
	g.logger.Info("game over", "cause", cause, "score", g.score, "ticks", g.tick)
	g.logger.Debug("final state", "state", g.Snapshot().DebugState())
	g.emit(Event{Kind: EventGameOver})
}

// placeFood picks a uniformly random free cell inside the food area.
// When none exists the previous food position is kept.
func (g *Game) placeFood() error {
	area := g.foodArea()
	var free []Point
	if !area.Empty() {
		occupied := make(map[Point]struct{}, len(g.snake))
		for _, seg := range g.snake {
			occupied[seg] = struct{}{}
		}
		for y := snapUp(area.Y, g.cellSize); y < area.Bottom(); y += g.cellSize {
			for x := snapUp(area.X, g.cellSize); x < area.Right(); x += g.cellSize {
				p := Point{X: x, Y: y}
				if _, ok := occupied[p]; !ok {
					free = append(free, p)
				}
			}
		}
	}

	if len(free) == 0 {
		g.boardFull = true
		return ErrBoardFull
	}

	g.boardFull = false
	g.food = free[g.rng.Intn(len(free))]
	g.hasFood = true
	return nil
}

func (g *Game) bounds() core.Rect {
	return core.NewRect(0, 0, g.width, g.height)
}

func (g *Game) foodArea() core.Rect {
	return g.bounds().Inset(g.margin.Top, g.margin.Right, g.margin.Bottom, g.margin.Left)
}

// center returns the board center snapped down to the grid.
func (g *Game) center() Point {
	cx, cy := g.bounds().Center()
	return Point{
		X: core.SnapDown(cx, g.cellSize),
		Y: core.SnapDown(cy, g.cellSize),
	}
}

// snapUp rounds a non-negative v up to the next multiple of step.
func snapUp(v, step int) int {
	if v <= 0 {
		return 0
	}
	return core.SnapDown(v+step-1, step)
}
