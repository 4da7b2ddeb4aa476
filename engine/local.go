package engine

import (
	"context"

	"zerosearch/experiments/metrics"
	"zerosearch/searcher"
	"zerosearch/searcher/agent"

	"github.com/rs/zerolog/log"
)

// LocalEngine plays two players against each other in process.
type LocalEngine[A comparable] struct {
	env      searcher.Environment[A]
	players  []agent.Player[A]
	game     int
	maxSteps int
}

var _ Engine = (*LocalEngine[int])(nil)

// NewLocalEngine plays from env, which is modified. players[0] moves first.
func NewLocalEngine[A comparable](env searcher.Environment[A], players []agent.Player[A], game int) *LocalEngine[A] {
	if len(players) != 2 {
		panic("need exactly two players")
	}
	return &LocalEngine[A]{env: env, players: players, game: game, maxSteps: MaxSteps}
}

// Run executes the entire game loop until the game is over.
func (e *LocalEngine[A]) Run(ctx context.Context) (Result, []metrics.SearchRecord) {
	// Each player is told the actions played since its previous search
	lineages := make([][]A, len(e.players))
	var records []metrics.SearchRecord

	step := 0
	for ; step < e.maxSteps && ctx.Err() == nil; step++ {
		terminal, over := e.env.Terminal()
		if over {
			return result(terminal, step), records
		}

		mover := step % len(e.players)
		action, searchResult := e.players[mover].FindMove(ctx, e.env, lineages[mover]...)
		records = append(records, metrics.SearchRecord{
			Game:         e.game,
			Step:         step,
			SearchMetric: searchResult.SearchMetric,
		})
		log.Debug().Msgf("game %d step %d: player %d plays %v (%v)", e.game, step, mover+1, action, searchResult.Evaluation)

		e.env.Step(action)
		lineages[mover] = lineages[mover][:0]
		for i := range lineages {
			lineages[i] = append(lineages[i], action)
		}
	}

	if terminal, over := e.env.Terminal(); over {
		return result(terminal, step), records
	}
	log.Warn().Msgf("game %d stopped after %d steps without a result", e.game, step)
	return Unfinished, records
}

// result converts a terminal result for the side to move at step into one for the first player.
func result(terminal searcher.Terminal, step int) Result {
	firstToMove := step%2 == 0
	switch {
	case terminal == searcher.TerminalDraw:
		return Drawn
	case (terminal == searcher.TerminalWin) == firstToMove:
		return FirstWins
	default:
		return SecondWins
	}
}
