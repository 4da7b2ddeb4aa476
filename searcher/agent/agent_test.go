package agent

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"zerosearch/game/tak"
	"zerosearch/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestUniform(t *testing.T) {
	t.Run("every action gets the same prior", func(t *testing.T) {
		u := Uniform[tak.Move]{Value: 0.25}

		policy, value, uncertainty := u.PolicyValueUncertainty(tak.New(3))

		require.Equal(t, float32(0.25), value)
		require.Zero(t, uncertainty)
		for _, m := range tak.New(3).PopulateActions(nil) {
			require.Equal(t, float32(1), policy.Probability(m))
		}
	})

	t.Run("batched form skips inactive slots", func(t *testing.T) {
		batch := Uniform[tak.Move]{Value: -0.5}.Batch()
		envs := []searcher.Environment[tak.Move]{tak.New(3), nil, tak.New(4)}

		predictions := batch.PolicyValueUncertainty(envs, make([][]tak.Move, 3), []bool{true, false, true})

		require.Len(t, predictions, 2)
		require.Equal(t, float32(-0.5), predictions[1].Value)
	})
}

func TestUnmask(t *testing.T) {
	t.Run("spreading predictions over the batch", func(t *testing.T) {
		predictions := []searcher.Prediction[int]{{Value: 0.1}, {Value: 0.2}}

		got := Unmask([]bool{false, true, false, true}, predictions)

		require.Len(t, got, 4)
		require.Nil(t, got[0])
		require.Nil(t, got[2])
		require.Equal(t, float32(0.1), got[1].Value)
		require.Equal(t, float32(0.2), got[3].Value)
	})

	t.Run("mismatched counts", func(t *testing.T) {
		require.Panics(t, func() { Unmask([]bool{true}, []searcher.Prediction[int]{{}, {}}) })
		require.Panics(t, func() { Unmask([]bool{true, true}, []searcher.Prediction[int]{{}}) })
	})
}

func newTestNetwork(weights [][][]float64) *Network[tak.Move] {
	return NewNetwork(NetworkConfig[tak.Move]{
		Inputs:  tak.FeatureCount(3),
		Actions: tak.ActionCount(3),
		Hidden:  []int{16},
		Index:   tak.ActionIndex(3),
		Weights: weights,
	})
}

func TestNetwork(t *testing.T) {
	t.Run("policy over the legal moves", func(t *testing.T) {
		g, err := tak.FromPTNMoves(3, "a1", "c3", "b2")
		require.NoError(t, err)
		network := NewBatched[tak.Move](newTestNetwork(nil))

		policy, value, uncertainty := network.PolicyValueUncertainty(g)

		var sum float32
		for _, m := range g.PopulateActions(nil) {
			p := policy.Probability(m)
			require.Greater(t, p, float32(0))
			sum += p
		}
		require.InDelta(t, 1.0, sum, 1e-4)
		require.Zero(t, policy.Probability(tak.Placement(tak.Square{File: 1, Rank: 1}, tak.Flat)),
			"Illegal moves should get no prior")
		require.True(t, value >= -1 && value <= 1, "Value %v should be in [-1, 1]", value)
		require.GreaterOrEqual(t, uncertainty, float32(0))
		require.False(t, math.IsNaN(float64(uncertainty)))
	})

	t.Run("applying weights reproduces predictions", func(t *testing.T) {
		g := tak.New(3)
		original := newTestNetwork(nil)
		restored := newTestNetwork(original.Weights())
		actions := g.PopulateActions(nil)
		envs := []searcher.Environment[tak.Move]{g}

		want := original.PolicyValueUncertainty(envs, [][]tak.Move{actions}, []bool{true})
		got := restored.PolicyValueUncertainty(envs, [][]tak.Move{actions}, []bool{true})

		require.Equal(t, want[0].Value, got[0].Value)
		require.Equal(t, want[0].Uncertainty, got[0].Uncertainty)
		for _, m := range actions {
			require.Equal(t, want[0].Policy.Probability(m), got[0].Policy.Probability(m))
		}
	})

	t.Run("weights survive a checkpoint file", func(t *testing.T) {
		original := newTestNetwork(nil)
		path := filepath.Join(t.TempDir(), "weights.json")
		require.NoError(t, SaveWeights(path, original))

		weights, err := LoadWeights(path)
		require.NoError(t, err)
		require.Equal(t, original.Weights(), newTestNetwork(weights).Weights())

		_, err = LoadWeights(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})

	t.Run("misconfigured networks", func(t *testing.T) {
		require.Panics(t, func() { NewNetwork(NetworkConfig[tak.Move]{Inputs: 1, Actions: 1}) })
		require.Panics(t, func() {
			NewNetwork(NetworkConfig[tak.Move]{Actions: 1, Index: tak.ActionIndex(3)})
		})
	})

	t.Run("environments must be featurizable", func(t *testing.T) {
		network := NewNetwork(NetworkConfig[int]{Inputs: 1, Actions: 2, Index: func(a int) int { return a }})
		require.Panics(t, func() {
			network.PolicyValueUncertainty([]searcher.Environment[int]{nil}, [][]int{{0}}, []bool{true})
		})
	})

	t.Run("searching with a network", func(t *testing.T) {
		m := searcher.NewMCTS[tak.Move](NewBatched[tak.Move](newTestNetwork(nil)), searcher.WithSimulations[tak.Move](64))

		action, result := m.Search(context.Background(), tak.New(3))

		require.NoError(t, tak.New(3).Play(action))
		require.Equal(t, uint32(64), result.VisitCount)
	})
}

func TestPlayers(t *testing.T) {
	tinue := []string{"a3", "c1", "c2", "c3", "b3", "c3-"}

	t.Run("evaluation player plays the search's choice", func(t *testing.T) {
		g, err := tak.FromPTNMoves(3, tinue...)
		require.NoError(t, err)
		player := NewEvaluationPlayer(searcher.NewMCTS[tak.Move](Uniform[tak.Move]{}, searcher.WithSimulations[tak.Move](3000)))

		move, result := player.FindMove(context.Background(), g)

		require.Equal(t, "b1", move.String())
		require.True(t, result.Evaluation.IsWin())
	})

	t.Run("training player samples a legal move", func(t *testing.T) {
		g := tak.New(3)
		mcts := searcher.NewMCTS[tak.Move](Uniform[tak.Move]{}, searcher.WithSimulations[tak.Move](50))
		player := NewTrainingPlayer(mcts, 1.0, rand.New(rand.NewSource(3)))

		move, _ := player.FindMove(context.Background(), g)

		require.NoError(t, g.Play(move))
	})

	t.Run("training player follows proofs", func(t *testing.T) {
		g, err := tak.FromPTNMoves(3, tinue...)
		require.NoError(t, err)
		mcts := searcher.NewMCTS[tak.Move](Uniform[tak.Move]{}, searcher.WithSimulations[tak.Move](3000))
		player := NewTrainingPlayer(mcts, 1.0, rand.New(rand.NewSource(3)))

		move, _ := player.FindMove(context.Background(), g)

		require.Equal(t, "b1", move.String())
	})

	t.Run("training player never samples a move proven to lose", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 200; i++ {
			mcts := searcher.NewMCTS[int](Uniform[int]{}, searcher.WithSimulations[int](20))
			player := NewTrainingPlayer(mcts, 10, rng)

			action, result := player.FindMove(context.Background(), &trap{})

			require.False(t, result.Evaluation.IsKnown())
			require.True(t, mcts.Root().Children[0].Node.Evaluation.IsWin())
			require.Equal(t, 1, action, "search %d sampled the losing move", i)
		}
	})

	t.Run("temperature", func(t *testing.T) {
		require.Panics(t, func() { NewTrainingPlayer[int](nil, 0, nil) })
		require.InDeltaSlice(t, []float64{0.2, 0.8}, adjustTemperature([]float64{1, 2}, 0.5), 1e-9)
	})
}

// trap loses at once on action 0 and never ends on action 1.
type trap struct {
	steps  uint16
	sprung bool
}

func (e *trap) PopulateActions(actions []int) []int {
	return append(actions, 0, 1)
}

func (e *trap) Step(action int) {
	e.sprung = e.sprung || action == 0
	e.steps++
}

func (e *trap) Terminal() (searcher.Terminal, bool) {
	if e.sprung {
		return searcher.TerminalWin, true
	}
	return 0, false
}

func (e *trap) Steps() uint16 {
	return e.steps
}

func (e *trap) Clone() searcher.Environment[int] {
	clone := *e
	return &clone
}

func (e *trap) NewOpening(_ *rand.Rand, actions []int) []int {
	*e = trap{}
	return actions[:0]
}
