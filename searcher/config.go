package searcher

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ZEROSEARCH_"

// Config holds the search settings which can be loaded from a file.
type Config struct {
	Simulations int             `yaml:"simulations"`
	Duration    time.Duration   `yaml:"duration"`
	Beta        float32         `yaml:"beta"`
	Dirichlet   DirichletConfig `yaml:"dirichlet"`
	Seed        uint64          `yaml:"seed"` // 0 seeds from the clock
	LogLevel    string          `yaml:"log_level"`
}

// DirichletConfig configures root exploration noise. A zero ratio disables it.
type DirichletConfig struct {
	Alpha float32 `yaml:"alpha"`
	Ratio float32 `yaml:"ratio"`
}

func DefaultConfig() Config {
	return Config{
		Simulations: 512,
		Beta:        0,
		Dirichlet: DirichletConfig{
			Alpha: 0.3,
			Ratio: 0,
		},
		LogLevel: "info",
	}
}

// LoadConfig loads the configuration with priority: env > file > defaults.
// A missing file keeps the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return config, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return config, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := config.loadEnv(); err != nil {
		return config, fmt.Errorf("load config from environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (c *Config) loadEnv() error {
	if v, ok := os.LookupEnv(envPrefix + "SIMULATIONS"); ok {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("simulations: %w", err)
		}
		c.Simulations = i
	}
	if v, ok := os.LookupEnv(envPrefix + "DURATION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		c.Duration = d
	}
	if v, ok := os.LookupEnv(envPrefix + "BETA"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("beta: %w", err)
		}
		c.Beta = float32(f)
	}
	if v, ok := os.LookupEnv(envPrefix + "DIRICHLET_ALPHA"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("dirichlet alpha: %w", err)
		}
		c.Dirichlet.Alpha = float32(f)
	}
	if v, ok := os.LookupEnv(envPrefix + "DIRICHLET_RATIO"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("dirichlet ratio: %w", err)
		}
		c.Dirichlet.Ratio = float32(f)
	}
	if v, ok := os.LookupEnv(envPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Simulations < 0 {
		return fmt.Errorf("simulations must be >= 0")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must be >= 0")
	}
	if c.Simulations == 0 && c.Duration == 0 {
		return fmt.Errorf("simulations or duration must be set")
	}
	if c.Dirichlet.Ratio < 0 || c.Dirichlet.Ratio >= 1 {
		return fmt.Errorf("dirichlet ratio must be in [0, 1)")
	}
	if c.Dirichlet.Ratio > 0 && c.Dirichlet.Alpha <= 0 {
		return fmt.Errorf("dirichlet alpha must be > 0 when noise is enabled")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// OptionsFromConfig translates a validated configuration into driver options.
func OptionsFromConfig[A comparable](c Config) []Option[A] {
	options := []Option[A]{
		WithSimulations[A](c.Simulations),
		WithDuration[A](c.Duration),
		WithBeta[A](c.Beta),
		WithDirichlet[A](c.Dirichlet.Alpha, c.Dirichlet.Ratio),
	}
	if c.Seed != 0 {
		options = append(options, WithSource[A](rand.NewSource(c.Seed)))
	}
	if level, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		options = append(options, WithLogger[A](log.Logger.Level(level)))
	}
	return options
}
