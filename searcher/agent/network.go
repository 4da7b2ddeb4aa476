package agent

import (
	"fmt"
	"math"
	"sync"

	"zerosearch/searcher"

	"github.com/patrikeh/go-deep"
)

// Featurizer is implemented by environments which can be fed to a Network.
type Featurizer interface {
	Features() []float64
}

type NetworkConfig[A comparable] struct {
	Inputs  int
	Actions int   // size of the policy head
	Hidden  []int // hidden layer widths
	Index   func(A) int
	Weights [][][]float64 // optional, e.g. from a checkpoint
}

// Network is a multilayer perceptron with a policy head, a value head and an uncertainty head.
// Environments must implement Featurizer. Wrap it with NewBatched to search with it directly.
type Network[A comparable] struct {
	mu      sync.Mutex
	network *deep.Neural
	config  NetworkConfig[A]
}

var _ searcher.BatchAgent[int] = (*Network[int])(nil)

func NewNetwork[A comparable](config NetworkConfig[A]) *Network[A] {
	if config.Inputs <= 0 || config.Actions <= 0 {
		panic("network needs inputs and actions")
	}
	if config.Index == nil {
		panic("network needs an action index")
	}

	layout := append(append([]int(nil), config.Hidden...), config.Actions+2)
	network := deep.NewNeural(&deep.Config{
		Inputs:     config.Inputs,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.0, 0.1),
		Bias:       true,
	})
	if config.Weights != nil {
		network.ApplyWeights(config.Weights)
	}

	return &Network[A]{network: network, config: config}
}

// Weights returns the current weights in the layout accepted by NetworkConfig.Weights.
func (n *Network[A]) Weights() [][][]float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.network.Weights()
}

// PolicyValueUncertainty evaluates the active slots of a batch.
func (n *Network[A]) PolicyValueUncertainty(envs []searcher.Environment[A], actions [][]A, mask []bool) []searcher.Prediction[A] {
	predictions := make([]searcher.Prediction[A], 0, len(mask))
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, active := range mask {
		if active {
			predictions = append(predictions, n.predict(envs[i], actions[i]))
		}
	}
	return predictions
}

func (n *Network[A]) predict(env searcher.Environment[A], actions []A) searcher.Prediction[A] {
	featurizer, ok := env.(Featurizer)
	if !ok {
		panic(fmt.Sprintf("environment %T does not implement Featurizer", env))
	}
	features := featurizer.Features()
	if len(features) != n.config.Inputs {
		panic(fmt.Sprintf("expected %d features, got %d", n.config.Inputs, len(features)))
	}

	out := n.network.Predict(features)
	logits := make([]float32, len(actions))
	for i, action := range actions {
		index := n.config.Index(action)
		if index < 0 || index >= n.config.Actions {
			panic(fmt.Sprintf("action %v has index %d outside [0, %d)", action, index, n.config.Actions))
		}
		logits[i] = float32(out[index])
	}

	policy := make(mapPolicy[A], len(actions))
	if len(actions) > 0 {
		for i, p := range searcher.Softmax(logits) {
			policy[actions[i]] = p
		}
	}

	return searcher.Prediction[A]{
		Policy:      policy,
		Value:       float32(math.Tanh(out[n.config.Actions])),
		Uncertainty: float32(softplus(out[n.config.Actions+1])),
	}
}

// mapPolicy gives actions it does not know a zero prior.
type mapPolicy[A comparable] map[A]float32

func (p mapPolicy[A]) Probability(action A) float32 {
	return p[action]
}

func softplus(x float64) float64 {
	if x > 20 {
		return x
	}
	return math.Log1p(math.Exp(x))
}
