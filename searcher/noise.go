package searcher

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
)

// minNoise is the smallest normal float32. Mixed with any ratio the prior stays positive.
const minNoise float32 = 0x1p-126

// ApplyDirichlet mixes symmetric Dirichlet noise into the priors of the children, for exploration at the root.
// Probability and logit are updated together so that Logit == ln(Probability) still holds.
func (n *Node[A]) ApplyDirichlet(src rand.Source, alpha, ratio float32) {
	if n.VisitCount == 0 {
		panic("cannot apply dirichlet noise without initialized policy")
	}
	if ratio < 0 || ratio >= 1 {
		panic("dirichlet ratio must be in [0, 1)")
	}
	if len(n.Children) == 0 {
		return
	}

	alphas := make([]float64, len(n.Children))
	for i := range alphas {
		alphas[i] = float64(alpha)
	}
	samples := distmv.NewDirichlet(alphas, src).Rand(nil)

	for i := range n.Children {
		child := &n.Children[i].Node
		// Components underflow to zero for small alpha.
		noise := float32(samples[i])
		if !(noise >= minNoise) {
			noise = minNoise
		}
		probability := child.Probability*(1-ratio) + noise*ratio
		if !(probability > 0) {
			panic("probability after dirichlet noise should be positive")
		}
		child.Probability = probability
		child.Logit = float32(math.Log(float64(probability)))
	}
}
