package experiments

import (
	"context"
	"fmt"
	"path/filepath"

	"zerosearch/engine"
	"zerosearch/experiments/metrics"
	"zerosearch/searcher"
	"zerosearch/searcher/agent"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// PlayerConfig identifies a search configuration in the records.
type PlayerConfig struct {
	ID     int
	Config searcher.Config
}

// Experiment plays two search configurations against each other from random openings.
type Experiment[A comparable] struct {
	Name    string
	Games   int
	Seed    uint64
	NewEnv  func() searcher.Environment[A]
	Agent   searcher.Agent[A]
	Players [2]PlayerConfig
	// Registerer exports search metrics to Prometheus when set.
	Registerer prometheus.Registerer
}

type Summary struct {
	Wins       map[int]int // by player ID
	Draws      int
	Unfinished int
}

// Run plays the games, alternating who moves first, and stores the records under baseDir/Name.
func Run[A comparable](ctx context.Context, e Experiment[A], baseDir string) (Summary, error) {
	if e.Games <= 0 {
		return Summary{}, fmt.Errorf("experiment %s needs at least one game", e.Name)
	}
	for _, p := range e.Players {
		if err := p.Config.Validate(); err != nil {
			return Summary{}, fmt.Errorf("player %d: %w", p.ID, err)
		}
	}

	var collector metrics.Collector = metrics.NewCollector()
	if e.Registerer != nil {
		collector = metrics.NewPrometheusCollector(e.Registerer)
	}

	rng := rand.New(rand.NewSource(e.Seed))
	summary := Summary{Wins: map[int]int{}}
	var gameRecords []metrics.GameRecord
	var searchRecords []metrics.SearchRecord
	var actions []A

	log.Info().Msgf("starting %s experiment...", e.Name)

	for game := 1; game <= e.Games && ctx.Err() == nil; game++ {
		first, second := e.Players[0], e.Players[1]
		if game%2 == 0 {
			first, second = second, first
		}

		env := e.NewEnv()
		actions = env.NewOpening(rng, actions)
		players := []agent.Player[A]{
			agent.NewEvaluationPlayer(newMCTS(e.Agent, first, collector)),
			agent.NewEvaluationPlayer(newMCTS(e.Agent, second, collector)),
		}

		log.Info().Msgf("starting game %d of %d between player %d and player %d...", game, e.Games, first.ID, second.ID)
		result, records := engine.NewLocalEngine(env, players, game).Run(ctx)
		searchRecords = append(searchRecords, records...)
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:     game,
			First:  first.ID,
			Second: second.ID,
			Result: result.String(),
			Steps:  len(records),
		})

		switch result {
		case engine.FirstWins:
			summary.Wins[first.ID]++
		case engine.SecondWins:
			summary.Wins[second.ID]++
		case engine.Drawn:
			summary.Draws++
		default:
			summary.Unfinished++
		}
		log.Info().Msgf("completed game %d with result: %s", game, result)
	}

	log.Info().Msgf("completed %s experiment", e.Name)

	writer, err := metrics.NewWriter(filepath.Join(baseDir, e.Name))
	if err != nil {
		return summary, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return summary, err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteSearchRecords(searchRecords); err != nil {
		return summary, err
	}
	log.Info().Msg("stored search records")

	return summary, ctx.Err()
}

func newMCTS[A comparable](a searcher.Agent[A], p PlayerConfig, collector metrics.Collector) *searcher.MCTS[A] {
	options := searcher.OptionsFromConfig[A](p.Config)
	options = append(options, searcher.WithMetrics[A](collector))
	return searcher.NewMCTS(a, options...)
}
