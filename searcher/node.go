package searcher

import "math"

// Node is a search tree node. It exclusively owns its children.
type Node[A comparable] struct {
	Evaluation  Eval    // Q(s), from the perspective of the side to move at this node
	VisitCount  uint32  // N(s_prev, a)
	Probability float32 // P(s_prev, a)
	Logit       float32 // ln P(s_prev, a)
	Variance    float32 // epistemic uncertainty of Q(s), 0 unless the agent estimates it
	Children    []Child[A]
}

type Child[A comparable] struct {
	Action A
	Node   Node[A]
}

func NewNode[A comparable](probability float32) *Node[A] {
	n := newNode[A](probability)
	return &n
}

func newNode[A comparable](probability float32) Node[A] {
	return Node[A]{
		Probability: probability,
		Logit:       float32(math.Log(float64(probability))),
	}
}

// NeedsInitialization is true until the node has been expanded.
// The first visit to a node expands it instead of descending.
func (n *Node[A]) NeedsInitialization() bool {
	return n.VisitCount <= 1
}

func (n *Node[A]) IsKnown() bool {
	return n.Evaluation.IsKnown()
}

func (n *Node[A]) MostVisitedCount() uint32 {
	var most uint32
	for i := range n.Children {
		most = max(most, n.Children[i].Node.VisitCount)
	}
	return most
}

// Child returns the child reached by action.
func (n *Node[A]) Child(action A) (*Node[A], bool) {
	for i := range n.Children {
		if n.Children[i].Action == action {
			return &n.Children[i].Node, true
		}
	}
	return nil, false
}

// Descend makes the subtree reached by action the new root, discarding its siblings.
// If the action was never expanded the node is reset.
func (n *Node[A]) Descend(action A) {
	child, ok := n.Child(action)
	if !ok {
		*n = Node[A]{}
		return
	}
	*n = *child
}

func (n *Node[A]) updateMeanValue(value float32) {
	if n.IsKnown() {
		panic("updating the mean value doesn't make sense if the result is known")
	}
	// The explicit conversion rounds the product and stops the compiler from fusing it,
	// so the running mean is reproducible on every architecture.
	previous := float32(n.Evaluation.value * float32(n.VisitCount-1))
	n.Evaluation = Value((previous + value) / float32(n.VisitCount))
}

func (n *Node[A]) propagateChildEval(childEval Eval) Eval {
	n.updateMeanValue(childEval.Negate().Float32())

	switch {
	// This move made the opponent lose, so this position is a win.
	case childEval.IsLoss():
		n.Evaluation = childEval.Negate()
		return n.Evaluation

	// If all moves lead to wins for the opponent, this node is a loss.
	// The defender delays the loss as long as possible.
	case childEval.IsWin() && n.allChildren(Eval.IsWin):
		n.Evaluation = Loss(1 + n.maxChildPly(Eval.IsWin))
		return n.Evaluation

	// If all moves lead to wins or draws for the opponent, we choose to draw.
	case (childEval.IsDraw() || childEval.IsWin()) && n.allChildren(isWinOrDraw):
		n.Evaluation = Draw(1 + n.maxChildPly(Eval.IsDraw))
		return n.Evaluation
	}

	// Otherwise this position is not known and we just back-propagate the child result.
	return Value(childEval.Negate().Float32())
}

func isWinOrDraw(e Eval) bool {
	return e.IsWin() || e.IsDraw()
}

func (n *Node[A]) allChildren(predicate func(Eval) bool) bool {
	for i := range n.Children {
		if !predicate(n.Children[i].Node.Evaluation) {
			return false
		}
	}
	return true
}

func (n *Node[A]) maxChildPly(predicate func(Eval) bool) uint32 {
	found := false
	var most uint32
	for i := range n.Children {
		e := n.Children[i].Node.Evaluation
		if !predicate(e) {
			continue
		}
		ply, _ := e.Ply()
		most = max(most, ply)
		found = true
	}
	if !found {
		panic("there should be a proven child evaluation")
	}
	return most
}
