package agent

import "zerosearch/searcher"

// Uniform gives every action the same prior and every position the same value.
type Uniform[A comparable] struct {
	Value float32
}

var _ searcher.Uncertain[int] = Uniform[int]{}

type uniformPolicy[A comparable] struct{}

func (uniformPolicy[A]) Probability(A) float32 {
	return 1.0
}

func (u Uniform[A]) PolicyValue(env searcher.Environment[A]) (searcher.Policy[A], float32) {
	return uniformPolicy[A]{}, u.Value
}

func (u Uniform[A]) PolicyValueUncertainty(env searcher.Environment[A]) (searcher.Policy[A], float32, float32) {
	return uniformPolicy[A]{}, u.Value, 0
}

// Batch returns the batched form of u.
func (u Uniform[A]) Batch() searcher.BatchAgent[A] {
	return uniformBatch[A]{value: u.Value}
}

type uniformBatch[A comparable] struct {
	value float32
}

func (u uniformBatch[A]) PolicyValueUncertainty(envs []searcher.Environment[A], actions [][]A, mask []bool) []searcher.Prediction[A] {
	predictions := make([]searcher.Prediction[A], 0, len(mask))
	for _, active := range mask {
		if active {
			predictions = append(predictions, searcher.Prediction[A]{Policy: uniformPolicy[A]{}, Value: u.value})
		}
	}
	return predictions
}
