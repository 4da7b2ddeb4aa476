package agent

import (
	"context"
	"math"

	"zerosearch/searcher"

	"golang.org/x/exp/rand"
)

// Player chooses moves by searching.
type Player[A comparable] interface {
	// FindMove returns the move to play and the search result. lineage lists the actions
	// played since the previous call.
	FindMove(ctx context.Context, env searcher.Environment[A], lineage ...A) (A, searcher.Result[A])
}

type evaluationPlayer[A comparable] struct {
	mcts *searcher.MCTS[A]
}

// NewEvaluationPlayer returns a player for actual game play which always plays the search's choice.
func NewEvaluationPlayer[A comparable](mcts *searcher.MCTS[A]) Player[A] {
	return evaluationPlayer[A]{mcts: mcts}
}

func (p evaluationPlayer[A]) FindMove(ctx context.Context, env searcher.Environment[A], lineage ...A) (A, searcher.Result[A]) {
	return p.mcts.Search(ctx, env, lineage...)
}

type trainingPlayer[A comparable] struct {
	mcts        *searcher.MCTS[A]
	temperature float64
	rng         *rand.Rand
}

// NewTrainingPlayer returns a player for self-play which samples from the improved policy
// sharpened by 1/temperature. Moves proven to lose are never sampled, and proven roots are
// still played along the proof.
func NewTrainingPlayer[A comparable](mcts *searcher.MCTS[A], temperature float64, rng *rand.Rand) Player[A] {
	if temperature <= 0 {
		panic("temperature must be > 0")
	}
	return trainingPlayer[A]{mcts: mcts, temperature: temperature, rng: rng}
}

func (p trainingPlayer[A]) FindMove(ctx context.Context, env searcher.Environment[A], lineage ...A) (A, searcher.Result[A]) {
	action, result := p.mcts.Search(ctx, env, lineage...)
	if result.Evaluation.IsKnown() {
		return action, result
	}
	// Sample in child order so a seeded rng replays the same game.
	root := p.mcts.Root()
	policy := make([]float64, len(root.Children))
	for i, child := range root.Children {
		if child.Node.Evaluation.IsWin() {
			continue // proven win for the opponent
		}
		policy[i] = float64(result.Policy[child.Action])
	}
	adjusted := adjustTemperature(policy, p.temperature)
	return root.Children[sample(adjusted, p.rng)].Action, result
}

func adjustTemperature(policy []float64, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(policy))
	for i, prob := range policy {
		adjusted[i] = math.Pow(prob, exponent)
		sum += adjusted[i]
	}
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(policy []float64, rng *rand.Rand) int {
	sampled := rng.Float64()
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
