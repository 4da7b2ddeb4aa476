package searcher

// Policy maps actions to prior probabilities.
type Policy[A comparable] interface {
	Probability(action A) float32
}

// Agent is a policy/value oracle.
type Agent[A comparable] interface {
	// PolicyValue returns the prior over actions and a value in [-1, 1] for the side to move.
	PolicyValue(env Environment[A]) (Policy[A], float32)
}

// Uncertain is implemented by agents which also estimate the epistemic uncertainty of their value.
// Expansion stores that estimate as the node's variance, otherwise the variance stays 0.
type Uncertain[A comparable] interface {
	Agent[A]
	PolicyValueUncertainty(env Environment[A]) (Policy[A], float32, float32)
}

type Prediction[A comparable] struct {
	Policy      Policy[A]
	Value       float32
	Uncertainty float32
}

// BatchAgent evaluates many environments at once.
// It returns one prediction per active slot in mask, in slot order; inactive slots are absent.
type BatchAgent[A comparable] interface {
	PolicyValueUncertainty(envs []Environment[A], actions [][]A, mask []bool) []Prediction[A]
}

func predict[A comparable](agent Agent[A], env Environment[A]) (Policy[A], float32, float32) {
	if u, ok := agent.(Uncertain[A]); ok {
		return u.PolicyValueUncertainty(env)
	}
	policy, value := agent.PolicyValue(env)
	return policy, value, 0
}
