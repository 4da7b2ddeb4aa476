package tak

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	return 1 - c
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

type Kind uint8

const (
	Flat Kind = iota
	Wall      // standing stone
	Cap
)

type Piece struct {
	Color Color
	Kind  Kind
}

// Square is a board coordinate. File 0 is "a", rank 0 is "1".
type Square struct {
	File, Rank uint8
}

func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+s.File, s.Rank+1)
}

type Direction uint8

const (
	Up    Direction = iota // +
	Down                   // -
	Left                   // <
	Right                  // >
)

var directions = [...]Direction{Up, Down, Left, Right}

const directionSymbols = "+-<>"

func (d Direction) String() string {
	return string(directionSymbols[d])
}

// step returns the neighbouring square, which may be off the board.
func (s Square) step(d Direction) (Square, bool) {
	switch d {
	case Up:
		return Square{s.File, s.Rank + 1}, true
	case Down:
		return Square{s.File, s.Rank - 1}, s.Rank > 0
	case Left:
		return Square{s.File - 1, s.Rank}, s.File > 0
	default:
		return Square{s.File + 1, s.Rank}, true
	}
}

type MoveKind uint8

const (
	Place MoveKind = iota
	Spread
)

// Move is either a placement or a spread. Moves are comparable.
type Move struct {
	Square Square
	Kind   MoveKind
	Piece  Kind      // placed piece
	Dir    Direction // spread direction
	Count  uint8     // stones picked up
	Drops  [MaxSize]uint8
}

func Placement(square Square, piece Kind) Move {
	return Move{Square: square, Kind: Place, Piece: piece}
}

func SpreadMove(square Square, dir Direction, drops ...uint8) Move {
	m := Move{Square: square, Kind: Spread, Dir: dir}
	for i, d := range drops {
		m.Drops[i] = d
		m.Count += d
	}
	return m
}

func (m Move) dropCount() int {
	n := 0
	for n < MaxSize && m.Drops[n] != 0 {
		n++
	}
	return n
}

// String formats the move in PTN.
func (m Move) String() string {
	var b strings.Builder
	if m.Kind == Place {
		switch m.Piece {
		case Wall:
			b.WriteByte('S')
		case Cap:
			b.WriteByte('C')
		}
		b.WriteString(m.Square.String())
		return b.String()
	}

	if m.Count > 1 {
		fmt.Fprintf(&b, "%d", m.Count)
	}
	b.WriteString(m.Square.String())
	b.WriteString(m.Dir.String())
	if n := m.dropCount(); n > 1 {
		for _, d := range m.Drops[:n] {
			fmt.Fprintf(&b, "%d", d)
		}
	}
	return b.String()
}

// ParseMove parses a move in PTN, e.g. "a1", "Sb2", "c3-" or "3a1>12".
func ParseMove(s string) (Move, error) {
	ptn := strings.TrimRight(strings.TrimSpace(s), "*'!?")
	if ptn == "" {
		return Move{}, fmt.Errorf("%w: empty", ErrInvalidMove)
	}

	rest := ptn
	piece := Flat
	explicitPiece := false
	switch rest[0] {
	case 'F':
		explicitPiece = true
	case 'S':
		piece, explicitPiece = Wall, true
	case 'C':
		piece, explicitPiece = Cap, true
	}
	if explicitPiece {
		rest = rest[1:]
	}

	count := uint8(0)
	if !explicitPiece && len(rest) > 0 && isDigit(rest[0]) {
		count = rest[0] - '0'
		rest = rest[1:]
	}

	if len(rest) < 2 || rest[0] < 'a' || rest[0] >= 'a'+MaxSize || !isDigit(rest[1]) || rest[1] == '0' {
		return Move{}, fmt.Errorf("%w: bad square in %q", ErrInvalidMove, s)
	}
	square := Square{File: rest[0] - 'a', Rank: rest[1] - '1'}
	if square.Rank >= MaxSize {
		return Move{}, fmt.Errorf("%w: bad square in %q", ErrInvalidMove, s)
	}
	rest = rest[2:]

	if rest == "" {
		if count != 0 {
			return Move{}, fmt.Errorf("%w: placement with a count in %q", ErrInvalidMove, s)
		}
		return Placement(square, piece), nil
	}
	if explicitPiece {
		return Move{}, fmt.Errorf("%w: trailing characters in %q", ErrInvalidMove, s)
	}

	dir := strings.IndexByte(directionSymbols, rest[0])
	if dir < 0 {
		return Move{}, fmt.Errorf("%w: bad direction in %q", ErrInvalidMove, s)
	}
	rest = rest[1:]
	if count == 0 {
		count = 1
	}
	if count > MaxSize {
		return Move{}, fmt.Errorf("%w: too many stones in %q", ErrInvalidMove, s)
	}

	if rest == "" {
		return SpreadMove(square, Direction(dir), count), nil
	}
	if len(rest) > MaxSize {
		return Move{}, fmt.Errorf("%w: too many drops in %q", ErrInvalidMove, s)
	}
	drops := make([]uint8, len(rest))
	sum := 0
	for i := range rest {
		if !isDigit(rest[i]) || rest[i] == '0' {
			return Move{}, fmt.Errorf("%w: bad drops in %q", ErrInvalidMove, s)
		}
		drops[i] = rest[i] - '0'
		sum += int(drops[i])
	}
	if sum != int(count) {
		return Move{}, fmt.Errorf("%w: drops do not add up to %d in %q", ErrInvalidMove, count, s)
	}
	return SpreadMove(square, Direction(dir), drops...), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
