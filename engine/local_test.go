package engine

import (
	"context"
	"testing"

	"zerosearch/experiments/metrics"
	"zerosearch/game/tak"
	"zerosearch/searcher"
	"zerosearch/searcher/agent"

	"github.com/stretchr/testify/require"
)

func newPlayers(simulations int) []agent.Player[tak.Move] {
	players := make([]agent.Player[tak.Move], 2)
	for i := range players {
		players[i] = agent.NewEvaluationPlayer(searcher.NewMCTS[tak.Move](
			agent.Uniform[tak.Move]{},
			searcher.WithSimulations[tak.Move](simulations),
			searcher.WithMetrics[tak.Move](metrics.NewCollector()),
		))
	}
	return players
}

func TestLocalEngine(t *testing.T) {
	t.Run("playing out a forced win", func(t *testing.T) {
		g, err := tak.FromPTNMoves(3, "a3", "c1", "c2", "c3", "b3", "c3-")
		require.NoError(t, err)

		result, records := NewLocalEngine[tak.Move](g, newPlayers(3000), 7).Run(context.Background())

		require.Equal(t, FirstWins, result)
		require.Len(t, records, 3, "White plays b1, black replies, white completes a road")
		for i, r := range records {
			require.Equal(t, 7, r.Game)
			require.Equal(t, i, r.Step)
		}
		require.True(t, records[0].IsTreeReset)
		require.False(t, records[2].IsTreeReset, "White should reuse its tree after black's reply")
	})

	t.Run("stopping at the step limit", func(t *testing.T) {
		e := NewLocalEngine[tak.Move](tak.New(3), newPlayers(8), 1)
		e.maxSteps = 2

		result, records := e.Run(context.Background())

		require.Equal(t, Unfinished, result)
		require.Len(t, records, 2)
	})

	t.Run("stopping when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, records := NewLocalEngine[tak.Move](tak.New(3), newPlayers(8), 1).Run(ctx)

		require.Equal(t, Unfinished, result)
		require.Empty(t, records)
	})

	t.Run("two players are needed", func(t *testing.T) {
		require.Panics(t, func() { NewLocalEngine[tak.Move](tak.New(3), newPlayers(8)[:1], 1) })
	})
}

func TestResult(t *testing.T) {
	require.Equal(t, FirstWins, result(searcher.TerminalLoss, 3))
	require.Equal(t, SecondWins, result(searcher.TerminalWin, 3))
	require.Equal(t, FirstWins, result(searcher.TerminalWin, 4))
	require.Equal(t, SecondWins, result(searcher.TerminalLoss, 4))
	require.Equal(t, Drawn, result(searcher.TerminalDraw, 1))
	require.Equal(t, "draw", Drawn.String())
}
