package searcher

import "math"

// Hyperparameters for the policy improvement operator and PUCT

const (
	CVisit = 50.0 // Paper used 50
	CScale = 0.1  // Paper used 1, but 0.1 solves tests

	ExplorationBase = 500.0
	ExplorationInit = 4.0
)

// Softmax normalizes logits into a distribution. The maximum is subtracted before exponentiating.
//
// It panics if any exponent is not finite.
func Softmax(logits []float32) []float32 {
	out := make([]float32, len(logits))
	if len(logits) == 0 {
		return out
	}

	maxLogit := logits[0]
	for _, logit := range logits[1:] {
		maxLogit = max(maxLogit, logit)
	}

	var sum float32
	for i, logit := range logits {
		exp := float32(math.Exp(float64(logit - maxLogit)))
		if math.IsNaN(float64(exp)) || math.IsInf(float64(exp), 0) {
			panic("exponent should be finite in softmax")
		}
		out[i] = exp
		sum += exp
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Sigma is the monotonic transformation of completed values used by the policy improvement operator.
func Sigma(q, variance, beta, mostVisitedCount float32) float32 {
	return (q + beta*sqrt32(variance)) * (CVisit + mostVisitedCount) * CScale
}

// ExplorationRate is C(s), which grows slowly with the parent visit count.
func ExplorationRate(visitCount float32) float32 {
	return float32(math.Log(float64((1+visitCount+ExplorationBase)/ExplorationBase))) + ExplorationInit
}

// UpperConfidenceBound is U(s, a) = C(s) * P(s, a) * N(s) / (1 + N(s, a)).
func UpperConfidenceBound(parentVisitCount, visitCount, probability float32) float32 {
	return ExplorationRate(parentVisitCount) * probability * parentVisitCount / (1 + visitCount)
}

// SelectWithRegularizedPolicy returns the index of the child whose visit share lags its prior the most.
// Children proven to be wins for the opponent are pruned to preserve optimality.
func (n *Node[A]) SelectWithRegularizedPolicy() int {
	return n.selectVisitMatching(func(i int) float32 {
		return n.Children[i].Node.Probability
	})
}

// ImprovedPolicy returns the improved policy over the children: the softmax of
// logits plus sigma of the completed values.
//
// It panics if a completed value is NaN.
func (n *Node[A]) ImprovedPolicy(beta float32) []float32 {
	mostVisited := float32(n.MostVisitedCount())
	logits := make([]float32, len(n.Children))
	for i := range n.Children {
		child := &n.Children[i].Node

		// Unvisited children optimistically get the parent's evaluation.
		var completed float32
		if child.NeedsInitialization() {
			completed = n.Evaluation.Float32()
		} else {
			completed = child.Evaluation.Negate().Float32()
		}
		if math.IsNaN(float64(completed)) {
			panic("completed value should not be NaN")
		}

		logits[i] = Sigma(completed, child.Variance, beta, mostVisited) + child.Logit
	}
	return Softmax(logits)
}

// SelectWithImprovedPolicy returns the index of the child whose visit share lags the
// improved policy the most. Children proven to be wins for the opponent are pruned.
func (n *Node[A]) SelectWithImprovedPolicy(beta float32) int {
	improved := n.ImprovedPolicy(beta)
	return n.selectVisitMatching(func(i int) float32 {
		return improved[i]
	})
}

// SelectWithPUCT returns the index of the child which maximizes PUCT plus an uncertainty bonus.
//
// Unlike the other selection formulas this does not prune children proven to be wins for the
// opponent.
// TODO: add back pruning once the policy target no longer depends on visits.
func (n *Node[A]) SelectWithPUCT(beta float32) int {
	if len(n.Children) == 0 {
		panic("there should always be a child to select")
	}

	parentVisitCount := float32(n.VisitCount)
	best, bestScore := -1, float32(math.Inf(-1))
	for i := range n.Children {
		child := &n.Children[i].Node
		q := child.Evaluation.Negate().Float32()
		u := UpperConfidenceBound(parentVisitCount, float32(child.VisitCount), child.Probability)
		score := q + u + beta*sqrt32(child.Variance)
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// selectVisitMatching maximizes target(i) - N(s, a) / (N(s) + 1) over unpruned children.
// Ties go to the first child.
func (n *Node[A]) selectVisitMatching(target func(i int) float32) int {
	denominator := float32(n.VisitCount + 1)
	best, bestScore := -1, float32(math.Inf(-1))
	for i := range n.Children {
		child := &n.Children[i].Node
		if child.Evaluation.IsWin() {
			continue
		}
		score := target(i) - float32(child.VisitCount)/denominator
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		panic("if this node is not known there should be some unknown children")
	}
	return best
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
