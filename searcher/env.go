package searcher

import "golang.org/x/exp/rand"

// Environment is a deterministic, perfect-information two-player game.
// Any game that aims to be searchable implements it; the searcher package never imports a game.
type Environment[A comparable] interface {
	// PopulateActions appends the legal actions to actions and returns it.
	// The order defines the order of a node's children.
	PopulateActions(actions []A) []A
	// Step plays the action. It panics if the action is illegal.
	Step(action A)
	// Terminal reports the result relative to the side to move, if the game is over.
	Terminal() (Terminal, bool)
	// Steps is the number of plies played so far.
	Steps() uint16
	// Clone returns an independent copy. Simulate consumes the environment it is given.
	Clone() Environment[A]
	// NewOpening resets the receiver to a randomized opening position.
	// actions is scratch space and is returned empty for reuse.
	NewOpening(rng *rand.Rand, actions []A) []A
}

type Terminal uint8

const (
	TerminalWin Terminal = iota + 1
	TerminalLoss
	TerminalDraw
)

// Use rewards in [-1, 1] from the perspective of the side to move
const (
	WIN  = 1.0
	LOSS = -WIN
	DRAW = 0.0
)

// Eval converts a terminal result into a proven evaluation at distance 0.
func (t Terminal) Eval() Eval {
	switch t {
	case TerminalWin:
		return Win(0)
	case TerminalLoss:
		return Loss(0)
	case TerminalDraw:
		return Draw(0)
	default:
		panic("unexpected terminal result")
	}
}

func (t Terminal) Float32() float32 {
	return t.Eval().Float32()
}

func (t Terminal) String() string {
	switch t {
	case TerminalWin:
		return "win"
	case TerminalLoss:
		return "loss"
	case TerminalDraw:
		return "draw"
	default:
		return "unknown"
	}
}
