package searcher

// Simulate runs one simulation from this node and returns its backed-up evaluation.
//
// env must be positioned at this node and is consumed: it is stepped along the selected path.
// actions is scratch space reused across calls.
func (n *Node[A]) Simulate(env Environment[A], actions *[]A, agent Agent[A]) Eval {
	n.VisitCount++
	if n.IsKnown() {
		if n.Evaluation.IsWin() {
			panic("simulating known wins is useless because the action leading to this state should never be taken")
		}
		return n.Evaluation
	}

	if n.NeedsInitialization() {
		if terminal, ok := env.Terminal(); ok {
			n.Evaluation = terminal.Eval()
			return n.Evaluation
		}
		n.expand(env, actions, agent)
		return n.Evaluation
	}

	child := &n.Children[n.SelectWithRegularizedPolicy()]
	env.Step(child.Action)
	childEval := child.Node.Simulate(env, actions, agent)
	return n.propagateChildEval(childEval)
}

func (n *Node[A]) expand(env Environment[A], actions *[]A, agent Agent[A]) {
	policy, value, variance := predict(agent, env)

	*actions = env.PopulateActions((*actions)[:0])
	n.Children = make([]Child[A], len(*actions))
	for i, action := range *actions {
		n.Children[i] = Child[A]{
			Action: action,
			Node:   newNode[A](policy.Probability(action)),
		}
	}
	*actions = (*actions)[:0]

	n.Evaluation = Value(value)
	n.Variance = variance
}
