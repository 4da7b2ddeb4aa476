package searcher

import (
	"context"
	"time"

	"zerosearch/experiments/metrics"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option[A comparable] func(m *MCTS[A])

// MCTS drives simulations on a single tree which is kept between searches.
// It is not safe for concurrent use.
type MCTS[A comparable] struct {
	simulations int
	duration    time.Duration
	beta        float32
	alpha       float32
	ratio       float32
	source      rand.Source
	agent       Agent[A]
	root        *Node[A]
	actions     []A
	metrics     metrics.Collector
	logger      zerolog.Logger
}

type Result[A comparable] struct {
	Evaluation   Eval
	VisitCount   uint32 // root visits, including those kept from earlier searches
	Simulations  int    // simulations run by this search
	Policy       map[A]float32 // improved policy at the root
	SearchMetric metrics.SearchMetric
}

func WithSimulations[A comparable](simulations int) Option[A] {
	return func(m *MCTS[A]) {
		if simulations > 0 {
			m.simulations = simulations
		}
	}
}

func WithDuration[A comparable](duration time.Duration) Option[A] {
	return func(m *MCTS[A]) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithBeta[A comparable](beta float32) Option[A] {
	return func(m *MCTS[A]) {
		m.beta = beta
	}
}

// WithDirichlet mixes Dirichlet(alpha) noise into the root priors with the given ratio.
func WithDirichlet[A comparable](alpha, ratio float32) Option[A] {
	return func(m *MCTS[A]) {
		if alpha > 0 && ratio > 0 {
			m.alpha = alpha
			m.ratio = ratio
		}
	}
}

func WithSource[A comparable](source rand.Source) Option[A] {
	return func(m *MCTS[A]) {
		if source != nil {
			m.source = source
		}
	}
}

func WithMetrics[A comparable](collector metrics.Collector) Option[A] {
	return func(m *MCTS[A]) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func WithLogger[A comparable](logger zerolog.Logger) Option[A] {
	return func(m *MCTS[A]) {
		m.logger = logger
	}
}

func NewMCTS[A comparable](agent Agent[A], options ...Option[A]) *MCTS[A] {
	m := &MCTS[A]{ // Default values
		agent:   agent,
		source:  rand.NewSource(uint64(time.Now().UnixNano())),
		metrics: metrics.NewDummyCollector(),
		logger:  log.Logger,
	}
	for _, option := range options {
		option(m)
	}
	if m.simulations <= 0 && m.duration <= 0 {
		panic("Must specify search simulations or duration")
	}
	if m.ratio >= 1 {
		panic("dirichlet ratio must be in [0, 1)")
	}
	return m
}

// Root returns the retained tree.
func (m *MCTS[A]) Root() *Node[A] {
	return m.root
}

// Advance moves the retained tree along an action played outside of Search.
func (m *MCTS[A]) Advance(action A) {
	if m.root != nil {
		m.root.Descend(action)
	}
}

func (m *MCTS[A]) Reset() {
	m.root = nil
}

// Search runs simulations from env and returns the action to play.
//
// lineage lists the actions played since the previous search; the tree is reused along them.
// The search stops when the simulation budget or duration is spent, ctx is done, or the root is proven.
func (m *MCTS[A]) Search(ctx context.Context, env Environment[A], lineage ...A) (A, Result[A]) {
	if terminal, ok := env.Terminal(); ok {
		panic("cannot search a terminal position: " + terminal.String())
	}

	m.metrics.Start()
	fresh := m.findRoot(lineage)

	start := time.Now()
	simulations := 0
	simulate := func() {
		m.root.Simulate(env.Clone(), &m.actions, m.agent)
		m.metrics.AddSimulation()
		simulations++
	}

	if m.root.VisitCount == 0 {
		simulate()
	}
	// A root searched before already carries its noise.
	if fresh && m.ratio > 0 && len(m.root.Children) > 0 {
		m.root.ApplyDirichlet(m.source, m.alpha, m.ratio)
	}

	for !m.root.IsKnown() && ctx.Err() == nil {
		if m.simulations > 0 && simulations >= m.simulations {
			break
		}
		if m.duration > 0 && time.Since(start) >= m.duration {
			break
		}
		simulate()
	}

	if m.root.IsKnown() {
		m.metrics.SetProven(true)
		m.logger.Info().Stringer("evaluation", m.root.Evaluation).Int("simulations", simulations).
			Msg("root is proven")
	}

	action := m.selectAction()
	result := Result[A]{
		Evaluation:   m.root.Evaluation,
		VisitCount:   m.root.VisitCount,
		Simulations:  simulations,
		Policy:       m.policy(),
		SearchMetric: m.metrics.Complete(),
	}

	m.logger.Debug().
		Int("simulations", simulations).
		Stringer("evaluation", m.root.Evaluation).
		Interface("action", action).
		Msg("search complete")

	return action, result
}

// findRoot reports whether the root is a position that was not the root of the previous search.
func (m *MCTS[A]) findRoot(lineage []A) bool {
	if m.root == nil {
		m.root = &Node[A]{}
		m.metrics.SetTreeReset(true)
		return true
	}

	for _, action := range lineage {
		if _, ok := m.root.Child(action); !ok {
			m.logger.Warn().Msgf("node has not expanded action %v, resetting the tree", action)
			m.root = &Node[A]{}
			m.metrics.SetTreeReset(true)
			return true
		}
		m.root.Descend(action)
	}
	m.metrics.SetTreeReset(false)
	return len(lineage) > 0
}

func (m *MCTS[A]) selectAction() A {
	if len(m.root.Children) == 0 {
		panic("root has no children")
	}
	if !m.root.IsKnown() {
		return m.root.Children[m.root.SelectWithImprovedPolicy(m.beta)].Action
	}

	// Follow the proof: the quickest win, or the slowest loss.
	best := 0
	for i := range m.root.Children[1:] {
		candidate := m.root.Children[i+1].Node.Evaluation.Negate()
		if m.root.Children[best].Node.Evaluation.Negate().Less(candidate) {
			best = i + 1
		}
	}
	return m.root.Children[best].Action
}

func (m *MCTS[A]) policy() map[A]float32 {
	improved := m.root.ImprovedPolicy(m.beta)
	policy := make(map[A]float32, len(improved))
	for i, p := range improved {
		policy[m.root.Children[i].Action] = p
	}
	return policy
}
