package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"zerosearch/experiments"
	"zerosearch/game/tak"
	"zerosearch/searcher"
	"zerosearch/searcher/agent"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "zerosearch.yaml", "Search configuration file")
	size := flag.Int("size", 3, "Tak board size")
	games := flag.Int("games", 10, "Number of games")
	baseline := flag.Int("baseline", 0, "Simulations of the baseline player, defaults to half of the configured ones")
	out := flag.String("out", "results", "Directory for the experiment records")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address, e.g. :2112")
	oracle := flag.String("agent", "uniform", "Oracle guiding both players: uniform or network")
	weights := flag.String("weights", "", "Network weights saved as JSON, random weights when empty")
	hidden := flag.Int("hidden", 64, "Width of the network's hidden layer")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config, err := searcher.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	level, _ := zerolog.ParseLevel(config.LogLevel)
	zerolog.SetGlobalLevel(level)

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	baselineConfig := config
	baselineConfig.Simulations = *baseline
	if baselineConfig.Simulations == 0 {
		baselineConfig.Simulations = max(config.Simulations/2, 1)
	}

	a, err := newAgent(*oracle, *size, *hidden, *weights)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create agent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := experiments.Run(ctx, experiments.Experiment[tak.Move]{
		Name:       "simulations",
		Games:      *games,
		Seed:       config.Seed,
		NewEnv:     func() searcher.Environment[tak.Move] { return tak.New(*size) },
		Agent:      a,
		Players:    [2]experiments.PlayerConfig{{ID: 1, Config: config}, {ID: 2, Config: baselineConfig}},
		Registerer: prometheus.DefaultRegisterer,
	}, *out)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}

	log.Info().
		Int("player1", summary.Wins[1]).
		Int("player2", summary.Wins[2]).
		Int("draws", summary.Draws).
		Int("unfinished", summary.Unfinished).
		Msg("experiment complete")
}

func newAgent(kind string, size, hidden int, weightsPath string) (searcher.Agent[tak.Move], error) {
	switch kind {
	case "uniform":
		return agent.Uniform[tak.Move]{}, nil
	case "network":
		var weights [][][]float64
		if weightsPath != "" {
			var err error
			if weights, err = agent.LoadWeights(weightsPath); err != nil {
				return nil, err
			}
		}
		network := agent.NewNetwork(agent.NetworkConfig[tak.Move]{
			Inputs:  tak.FeatureCount(size),
			Actions: tak.ActionCount(size),
			Hidden:  []int{hidden},
			Index:   tak.ActionIndex(size),
			Weights: weights,
		})
		log.Info().Str("weights", weightsPath).Int("hidden", hidden).Msg("using network agent")
		return agent.NewBatched[tak.Move](network), nil
	default:
		return nil, fmt.Errorf("unknown agent %q", kind)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
