package engine

import (
	"context"

	"zerosearch/experiments/metrics"
)

const MaxSteps = 1000

type Engine interface {
	// Run plays a game till it is over or MaxSteps plies are reached.
	Run(ctx context.Context) (result Result, records []metrics.SearchRecord)
}

// Result is the outcome of a game for the first player.
type Result int

const (
	Unfinished Result = iota
	FirstWins
	SecondWins
	Drawn
)

func (r Result) String() string {
	switch r {
	case FirstWins:
		return "first"
	case SecondWins:
		return "second"
	case Drawn:
		return "draw"
	default:
		return "unfinished"
	}
}
