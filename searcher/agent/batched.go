package agent

import (
	"fmt"

	"zerosearch/searcher"
)

// Batched adapts a BatchAgent to the single-environment Agent interface with a batch of one.
// It is not safe for concurrent use.
type Batched[A comparable] struct {
	agent   searcher.BatchAgent[A]
	actions []A
}

var _ searcher.Uncertain[int] = (*Batched[int])(nil)

func NewBatched[A comparable](agent searcher.BatchAgent[A]) *Batched[A] {
	return &Batched[A]{agent: agent}
}

func (b *Batched[A]) PolicyValue(env searcher.Environment[A]) (searcher.Policy[A], float32) {
	policy, value, _ := b.PolicyValueUncertainty(env)
	return policy, value
}

func (b *Batched[A]) PolicyValueUncertainty(env searcher.Environment[A]) (searcher.Policy[A], float32, float32) {
	b.actions = env.PopulateActions(b.actions[:0])
	predictions := b.agent.PolicyValueUncertainty(
		[]searcher.Environment[A]{env},
		[][]A{b.actions},
		[]bool{true},
	)
	if len(predictions) != 1 {
		panic(fmt.Sprintf("batch of one returned %d predictions", len(predictions)))
	}
	p := predictions[0]
	return p.Policy, p.Value, p.Uncertainty
}

// Unmask spreads the predictions of the active slots back over the whole batch.
// Inactive slots are nil. It panics if the number of predictions does not match the mask.
func Unmask[A comparable](mask []bool, predictions []searcher.Prediction[A]) []*searcher.Prediction[A] {
	unmasked := make([]*searcher.Prediction[A], len(mask))
	next := 0
	for i, active := range mask {
		if !active {
			continue
		}
		if next >= len(predictions) {
			panic("fewer predictions than active slots")
		}
		unmasked[i] = &predictions[next]
		next++
	}
	if next != len(predictions) {
		panic("more predictions than active slots")
	}
	return unmasked
}
