package searcher

import "golang.org/x/exp/rand"

// nim: take one or two stones, whoever takes the last stone wins.
// Piles divisible by three are lost for the side to move.
type nim struct {
	pile  int
	steps uint16
}

func (n *nim) PopulateActions(actions []int) []int {
	for take := 1; take <= 2 && take <= n.pile; take++ {
		actions = append(actions, take)
	}
	return actions
}

func (n *nim) Step(take int) {
	if take < 1 || take > 2 || take > n.pile {
		panic("illegal take")
	}
	n.pile -= take
	n.steps++
}

func (n *nim) Terminal() (Terminal, bool) {
	if n.pile == 0 {
		return TerminalLoss, true
	}
	return 0, false
}

func (n *nim) Steps() uint16 {
	return n.steps
}

func (n *nim) Clone() Environment[int] {
	clone := *n
	return &clone
}

func (n *nim) NewOpening(rng *rand.Rand, actions []int) []int {
	*n = nim{pile: 4 + rng.Intn(6)}
	return actions[:0]
}

// endless never ends and always offers two actions.
type endless struct {
	steps uint16
}

func (e *endless) PopulateActions(actions []int) []int {
	return append(actions, 0, 1)
}

func (e *endless) Step(action int) {
	e.steps++
}

func (e *endless) Terminal() (Terminal, bool) {
	return 0, false
}

func (e *endless) Steps() uint16 {
	return e.steps
}

func (e *endless) Clone() Environment[int] {
	clone := *e
	return &clone
}

func (e *endless) NewOpening(rng *rand.Rand, actions []int) []int {
	e.steps = 0
	return actions[:0]
}

type evenPolicy struct{}

func (evenPolicy) Probability(int) float32 {
	return 1.0
}

type mapPolicy map[int]float32

func (p mapPolicy) Probability(action int) float32 {
	return p[action]
}

// fixedAgent evaluates every position the same.
type fixedAgent struct {
	value float32
}

func (a fixedAgent) PolicyValue(env Environment[int]) (Policy[int], float32) {
	return evenPolicy{}, a.value
}

// uncertainAgent returns fixed priors, value and uncertainty.
type uncertainAgent struct {
	policy      mapPolicy
	value       float32
	uncertainty float32
}

func (a uncertainAgent) PolicyValue(env Environment[int]) (Policy[int], float32) {
	return a.policy, a.value
}

func (a uncertainAgent) PolicyValueUncertainty(env Environment[int]) (Policy[int], float32, float32) {
	return a.policy, a.value, a.uncertainty
}

// parityAgent values positions at even plies with value and odd plies with -value,
// so every backed-up sample agrees.
type parityAgent struct {
	value float32
}

func (a parityAgent) PolicyValue(env Environment[int]) (Policy[int], float32) {
	if env.Steps()%2 == 0 {
		return evenPolicy{}, a.value
	}
	return evenPolicy{}, -a.value
}

// withChildren builds an expanded node whose children have the given evaluations and visit counts.
func withChildren(visitCount uint32, evaluations []Eval, visits []uint32) *Node[int] {
	n := &Node[int]{VisitCount: visitCount}
	for i, e := range evaluations {
		child := newNode[int](1.0 / float32(len(evaluations)))
		child.Evaluation = e
		if visits != nil {
			child.VisitCount = visits[i]
		}
		n.Children = append(n.Children, Child[int]{Action: i, Node: child})
	}
	return n
}
