package searcher

import "fmt"

type outcome uint8

const (
	unknown outcome = iota
	win
	loss
	draw
)

// Eval is the evaluation of a node from the perspective of the side to move there.
// It is either a proven result at some ply distance or an unproven estimate in [-1, 1].
// The zero value is Value(0).
type Eval struct {
	outcome outcome
	value   float32
	ply     uint32
}

func Value(v float32) Eval { return Eval{outcome: unknown, value: v} }
func Win(ply uint32) Eval  { return Eval{outcome: win, ply: ply} }
func Loss(ply uint32) Eval { return Eval{outcome: loss, ply: ply} }
func Draw(ply uint32) Eval { return Eval{outcome: draw, ply: ply} }

func (e Eval) IsWin() bool   { return e.outcome == win }
func (e Eval) IsLoss() bool  { return e.outcome == loss }
func (e Eval) IsDraw() bool  { return e.outcome == draw }
func (e Eval) IsKnown() bool { return e.outcome != unknown }

// Ply returns the distance to the proven result. It is false for unproven estimates.
func (e Eval) Ply() (uint32, bool) {
	if e.outcome == unknown {
		return 0, false
	}
	return e.ply, true
}

// Negate flips the perspective to the other player.
func (e Eval) Negate() Eval {
	switch e.outcome {
	case win:
		return Loss(e.ply)
	case loss:
		return Win(e.ply)
	case draw:
		return e
	default:
		return Value(-e.value)
	}
}

// Float32 converts the evaluation to a scalar: 1 for wins, -1 for losses, 0 for draws.
func (e Eval) Float32() float32 {
	switch e.outcome {
	case win:
		return WIN
	case loss:
		return LOSS
	case draw:
		return DRAW
	default:
		return e.value
	}
}

// Compare orders evaluations by how good they are for the side to move.
// Shorter wins are better than longer ones and longer losses better than shorter ones.
func (e Eval) Compare(other Eval) int {
	switch {
	case e.IsWin() && other.IsWin():
		return compareUint(other.ply, e.ply)
	case e.IsWin():
		return 1
	case other.IsWin():
		return -1
	case e.IsLoss() && other.IsLoss():
		return compareUint(e.ply, other.ply)
	case e.IsLoss():
		return -1
	case other.IsLoss():
		return 1
	}

	a, b := e.Float32(), other.Float32()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (e Eval) Less(other Eval) bool {
	return e.Compare(other) < 0
}

func (e Eval) String() string {
	switch e.outcome {
	case win:
		return fmt.Sprintf("W%d", e.ply)
	case loss:
		return fmt.Sprintf("L%d", e.ply)
	case draw:
		return fmt.Sprintf("D%d", e.ply)
	default:
		return fmt.Sprintf("%+.4f", e.value)
	}
}

func compareUint(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
