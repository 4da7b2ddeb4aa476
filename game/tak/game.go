package tak

import (
	"errors"
	"fmt"
	"strings"

	"zerosearch/searcher"

	"golang.org/x/exp/rand"
)

const (
	MinSize = 3
	MaxSize = 8
)

var (
	ErrInvalidMove   = errors.New("invalid move")
	ErrGameOver      = errors.New("game is over")
	ErrOutOfBounds   = errors.New("square is off the board")
	ErrOccupied      = errors.New("square is occupied")
	ErrNoReserves    = errors.New("no pieces left in reserve")
	ErrOpening       = errors.New("only flat placements are allowed in the opening")
	ErrNotControlled = errors.New("stack is not controlled by the player to move")
	ErrCarryLimit    = errors.New("too many stones picked up")
	ErrBlocked       = errors.New("spread is blocked")
)

type Reserves struct {
	Stones uint8
	Caps   uint8
}

func (r Reserves) empty() bool {
	return r.Stones == 0 && r.Caps == 0
}

var startingReserves = map[int]Reserves{
	3: {Stones: 10},
	4: {Stones: 15},
	5: {Stones: 21, Caps: 1},
	6: {Stones: 30, Caps: 1},
	7: {Stones: 40, Caps: 2},
	8: {Stones: 50, Caps: 2},
}

type Stack []Piece

func (s Stack) top() (Piece, bool) {
	if len(s) == 0 {
		return Piece{}, false
	}
	return s[len(s)-1], true
}

type outcome uint8

const (
	ongoing outcome = iota
	whiteWins
	blackWins
	drawn
)

func winner(c Color) outcome {
	if c == White {
		return whiteWins
	}
	return blackWins
}

// Game is a game of Tak without komi. It implements searcher.Environment[Move].
type Game struct {
	size     int
	board    []Stack // rank-major
	toMove   Color
	ply      uint16
	reserves [2]Reserves
	outcome  outcome
}

var _ searcher.Environment[Move] = (*Game)(nil)

// New returns the starting position. It panics on an unsupported size.
func New(size int) *Game {
	reserves, ok := startingReserves[size]
	if !ok {
		panic(fmt.Sprintf("unsupported board size %d", size))
	}
	return &Game{
		size:     size,
		board:    make([]Stack, size*size),
		reserves: [2]Reserves{reserves, reserves},
	}
}

// FromPTNMoves plays the given PTN moves from the starting position.
func FromPTNMoves(size int, moves ...string) (*Game, error) {
	g := New(size)
	for i, ptn := range moves {
		move, err := ParseMove(ptn)
		if err != nil {
			return nil, err
		}
		if err := g.Play(move); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, ptn, err)
		}
	}
	return g, nil
}

func (g *Game) Size() int {
	return g.size
}

func (g *Game) ToMove() Color {
	return g.toMove
}

func (g *Game) Reserves(c Color) Reserves {
	return g.reserves[c]
}

// Stack returns the pieces on a square from bottom to top.
func (g *Game) Stack(square Square) Stack {
	return g.board[g.index(square)]
}

func (g *Game) index(square Square) int {
	return int(square.Rank)*g.size + int(square.File)
}

func (g *Game) onBoard(square Square) bool {
	return int(square.File) < g.size && int(square.Rank) < g.size
}

func (g *Game) inOpening() bool {
	return g.ply < 2
}

// Play applies a move for the player to move, or returns why it is illegal.
// The position is unchanged when an error is returned.
func (g *Game) Play(move Move) error {
	if g.outcome != ongoing {
		return ErrGameOver
	}
	if !g.onBoard(move.Square) {
		return ErrOutOfBounds
	}

	var err error
	if move.Kind == Place {
		err = g.place(move)
	} else {
		err = g.spread(move)
	}
	if err != nil {
		return err
	}

	mover := g.toMove
	g.toMove = mover.Opponent()
	g.ply++
	g.outcome = g.result(mover)
	return nil
}

func (g *Game) place(move Move) error {
	i := g.index(move.Square)
	if len(g.board[i]) > 0 {
		return ErrOccupied
	}

	color := g.toMove
	if g.inOpening() {
		if move.Piece != Flat {
			return ErrOpening
		}
		color = color.Opponent()
	}

	reserves := &g.reserves[color]
	if move.Piece == Cap {
		if reserves.Caps == 0 {
			return ErrNoReserves
		}
		reserves.Caps--
	} else {
		if reserves.Stones == 0 {
			return ErrNoReserves
		}
		reserves.Stones--
	}

	g.board[i] = append(g.board[i], Piece{Color: color, Kind: move.Piece})
	return nil
}

func (g *Game) spread(move Move) error {
	if g.inOpening() {
		return ErrOpening
	}
	from := g.index(move.Square)
	stack := g.board[from]
	top, ok := stack.top()
	if !ok || top.Color != g.toMove {
		return ErrNotControlled
	}

	count := int(move.Count)
	if count == 0 || count > len(stack) || count > g.size {
		return ErrCarryLimit
	}
	drops := move.Drops[:move.dropCount()]
	sum := 0
	for _, d := range drops {
		sum += int(d)
	}
	if len(drops) == 0 || sum != count {
		return fmt.Errorf("%w: drops do not add up to %d", ErrInvalidMove, count)
	}

	// Validate the path before touching the board.
	targets := make([]int, len(drops))
	square := move.Square
	for j, d := range drops {
		next, ok := square.step(move.Dir)
		if !ok || !g.onBoard(next) {
			return ErrOutOfBounds
		}
		square = next
		targets[j] = g.index(square)
		if !g.canDrop(targets[j], top, j == len(drops)-1, d) {
			return ErrBlocked
		}
	}

	carried := stack[len(stack)-count:]
	g.board[from] = stack[:len(stack)-count]
	for j, d := range drops {
		target := targets[j]
		if t, ok := g.board[target].top(); ok && t.Kind == Wall {
			g.board[target][len(g.board[target])-1].Kind = Flat
		}
		g.board[target] = append(g.board[target], carried[:d]...)
		carried = carried[d:]
	}
	return nil
}

// canDrop reports whether d stones may be dropped on the target square.
// Walls only give way to a lone capstone on the final drop, capstones never do.
func (g *Game) canDrop(target int, carriedTop Piece, last bool, d uint8) bool {
	t, ok := g.board[target].top()
	if !ok {
		return true
	}
	switch t.Kind {
	case Cap:
		return false
	case Wall:
		return last && d == 1 && carriedTop.Kind == Cap
	default:
		return true
	}
}

func (g *Game) result(mover Color) outcome {
	whiteRoad := g.hasRoad(White)
	blackRoad := g.hasRoad(Black)
	switch {
	case whiteRoad && blackRoad:
		return winner(mover)
	case whiteRoad:
		return whiteWins
	case blackRoad:
		return blackWins
	}

	if g.reserves[White].empty() || g.reserves[Black].empty() || g.full() {
		white, black := g.flatCount(White), g.flatCount(Black)
		switch {
		case white > black:
			return whiteWins
		case black > white:
			return blackWins
		default:
			return drawn
		}
	}
	return ongoing
}

func (g *Game) full() bool {
	for _, stack := range g.board {
		if len(stack) == 0 {
			return false
		}
	}
	return true
}

func (g *Game) flatCount(c Color) int {
	n := 0
	for _, stack := range g.board {
		if t, ok := stack.top(); ok && t.Color == c && t.Kind == Flat {
			n++
		}
	}
	return n
}

func (g *Game) isRoad(i int, c Color) bool {
	t, ok := g.board[i].top()
	return ok && t.Color == c && t.Kind != Wall
}

// hasRoad reports whether c connects opposite edges with flats and capstones.
func (g *Game) hasRoad(c Color) bool {
	return g.connects(c, true) || g.connects(c, false)
}

// connects searches from the left edge to the right edge, or from the bottom edge to the top edge.
func (g *Game) connects(c Color, horizontal bool) bool {
	visited := make([]bool, len(g.board))
	queue := make([]Square, 0, len(g.board))
	for k := 0; k < g.size; k++ {
		square := Square{File: 0, Rank: uint8(k)}
		if !horizontal {
			square = Square{File: uint8(k), Rank: 0}
		}
		if i := g.index(square); g.isRoad(i, c) {
			visited[i] = true
			queue = append(queue, square)
		}
	}

	for len(queue) > 0 {
		square := queue[0]
		queue = queue[1:]
		if (horizontal && int(square.File) == g.size-1) || (!horizontal && int(square.Rank) == g.size-1) {
			return true
		}
		for _, dir := range directions {
			next, ok := square.step(dir)
			if !ok || !g.onBoard(next) {
				continue
			}
			if i := g.index(next); !visited[i] && g.isRoad(i, c) {
				visited[i] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// Winner returns the winning color, or false when the game is ongoing or drawn.
func (g *Game) Winner() (Color, bool) {
	switch g.outcome {
	case whiteWins:
		return White, true
	case blackWins:
		return Black, true
	}
	return White, false
}

// Moves returns the legal moves in generation order.
func (g *Game) Moves() []Move {
	return g.PopulateActions(nil)
}

// PopulateActions appends the legal moves. Squares are visited from a1 along each rank,
// with placements before spreads.
func (g *Game) PopulateActions(actions []Move) []Move {
	if g.outcome != ongoing {
		return actions
	}

	for rank := 0; rank < g.size; rank++ {
		for file := 0; file < g.size; file++ {
			square := Square{File: uint8(file), Rank: uint8(rank)}
			stack := g.board[g.index(square)]
			top, ok := stack.top()
			switch {
			case !ok && g.inOpening():
				actions = append(actions, Placement(square, Flat))
			case !ok:
				reserves := g.reserves[g.toMove]
				if reserves.Stones > 0 {
					actions = append(actions, Placement(square, Flat), Placement(square, Wall))
				}
				if reserves.Caps > 0 {
					actions = append(actions, Placement(square, Cap))
				}
			case !g.inOpening() && top.Color == g.toMove:
				carry := min(len(stack), g.size)
				for _, dir := range directions {
					for count := 1; count <= carry; count++ {
						actions = g.appendSpreads(actions, square, dir, uint8(count), top)
					}
				}
			}
		}
	}
	return actions
}

func (g *Game) appendSpreads(actions []Move, from Square, dir Direction, count uint8, carriedTop Piece) []Move {
	var drops [MaxSize]uint8
	var walk func(square Square, j int, remaining uint8)
	walk = func(square Square, j int, remaining uint8) {
		next, ok := square.step(dir)
		if !ok || !g.onBoard(next) {
			return
		}
		target := g.index(next)
		for d := uint8(1); d <= remaining; d++ {
			last := d == remaining
			if !g.canDrop(target, carriedTop, last, d) {
				continue
			}
			drops[j] = d
			if last {
				move := Move{Square: from, Kind: Spread, Dir: dir, Count: count}
				copy(move.Drops[:j+1], drops[:j+1])
				actions = append(actions, move)
			} else if t, ok := g.board[target].top(); !ok || t.Kind == Flat {
				walk(next, j+1, remaining-d)
			}
		}
	}
	walk(from, 0, count)
	return actions
}

// Step plays a move which must be legal.
func (g *Game) Step(action Move) {
	if err := g.Play(action); err != nil {
		panic(fmt.Sprintf("illegal move %v: %v", action, err))
	}
}

// Terminal reports the outcome from the perspective of the player to move.
func (g *Game) Terminal() (searcher.Terminal, bool) {
	switch g.outcome {
	case drawn:
		return searcher.TerminalDraw, true
	case whiteWins, blackWins:
		if g.outcome == winner(g.toMove) {
			return searcher.TerminalWin, true
		}
		return searcher.TerminalLoss, true
	}
	return 0, false
}

func (g *Game) Steps() uint16 {
	return g.ply
}

func (g *Game) Clone() searcher.Environment[Move] {
	return g.Copy()
}

// Copy returns an independent copy of the game.
func (g *Game) Copy() *Game {
	clone := *g
	clone.board = make([]Stack, len(g.board))
	for i, stack := range g.board {
		if len(stack) > 0 {
			clone.board[i] = append(Stack(nil), stack...)
		}
	}
	return &clone
}

// NewOpening resets the game and plays two random opening placements.
func (g *Game) NewOpening(rng *rand.Rand, actions []Move) []Move {
	*g = *New(g.size)
	for i := 0; i < 2; i++ {
		actions = g.PopulateActions(actions[:0])
		g.Step(actions[rng.Intn(len(actions))])
	}
	return actions[:0]
}

// String renders the board in TPS, e.g. "x3/x,2,x/1,x2 1 2".
func (g *Game) String() string {
	var b strings.Builder
	for rank := g.size - 1; rank >= 0; rank-- {
		empty := 0
		flush := func() {
			if empty == 1 {
				b.WriteString("x")
			} else if empty > 1 {
				fmt.Fprintf(&b, "x%d", empty)
			}
			empty = 0
		}
		first := true
		for file := 0; file < g.size; file++ {
			stack := g.board[rank*g.size+file]
			if len(stack) == 0 {
				if empty == 0 && !first {
					b.WriteByte(',')
				}
				empty++
				first = false
				continue
			}
			flush()
			if !first {
				b.WriteByte(',')
			}
			first = false
			for _, p := range stack {
				b.WriteByte('1' + byte(p.Color))
			}
			switch t, _ := stack.top(); t.Kind {
			case Wall:
				b.WriteByte('S')
			case Cap:
				b.WriteByte('C')
			}
		}
		flush()
		if rank > 0 {
			b.WriteByte('/')
		}
	}
	fmt.Fprintf(&b, " %d %d", g.toMove+1, g.ply/2+1)
	return b.String()
}
