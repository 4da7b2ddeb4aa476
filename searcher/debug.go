package searcher

import (
	"fmt"
	"sort"
	"strings"
)

type ActionInfo[A comparable] struct {
	Action         A
	VisitCount     uint32
	Logit          float32
	ImprovedPolicy float32
	Variance       float32
	Evaluation     Eval
}

func (a ActionInfo[A]) String() string {
	return fmt.Sprintf("%8v c:%8d l:%+.4f i:%+.4f v:%.4f e:%v",
		a.Action, a.VisitCount, a.Logit, a.ImprovedPolicy, a.Variance, a.Evaluation)
}

// ActionInfo summarizes every child together with its improved policy, in child order.
func (n *Node[A]) ActionInfo(beta float32) []ActionInfo[A] {
	improved := n.ImprovedPolicy(beta)
	infos := make([]ActionInfo[A], len(n.Children))
	for i := range n.Children {
		child := &n.Children[i].Node
		infos[i] = ActionInfo[A]{
			Action:         n.Children[i].Action,
			VisitCount:     child.VisitCount,
			Logit:          child.Logit,
			ImprovedPolicy: improved[i],
			Variance:       child.Variance,
			Evaluation:     child.Evaluation,
		}
	}
	return infos
}

func (n *Node[A]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[root]   c:%8d v:%+.4f e:%v\n", n.VisitCount, n.Variance, n.Evaluation)

	infos := n.ActionInfo(0)
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].ImprovedPolicy < infos[j].ImprovedPolicy
	})
	for _, info := range infos {
		b.WriteString(info.String())
		b.WriteByte('\n')
	}
	return b.String()
}
