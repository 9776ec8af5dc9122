// Package config loads trainer settings from a YAML file and TRAINER_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/evolution"
	"github.com/signalnine/thirtyone/simulation"
)

// EnvPrefix prefixes every environment variable the trainer reads.
const EnvPrefix = "TRAINER_"

// Resume modes.
const (
	ResumeNone   = ""
	ResumeStrict = "strict"
	ResumeScan   = "scan"
)

// Config is the full set of trainer settings.
type Config struct {
	OutputDir   string `yaml:"output_dir"   env:"OUTPUT_DIR"`
	Session     string `yaml:"session"      env:"SESSION"`
	Resume      string `yaml:"resume"       env:"RESUME"`
	ResumeRound int    `yaml:"resume_round" env:"RESUME_ROUND"`
	Rounds      int    `yaml:"rounds"       env:"ROUNDS"`

	PoolSize            int     `yaml:"pool_size"             env:"POOL_SIZE"`
	GamesPerGenome      int     `yaml:"games_per_genome"      env:"GAMES_PER_GENOME"`
	MaxTurnsPerPlayer   int     `yaml:"max_turns_per_player"  env:"MAX_TURNS_PER_PLAYER"`
	HiddenSize          int     `yaml:"hidden_size"           env:"HIDDEN_SIZE"`
	BaseMutationRate    float64 `yaml:"base_mutation_rate"    env:"BASE_MUTATION_RATE"`
	SnapshotInterval    int     `yaml:"snapshot_interval"     env:"SNAPSHOT_INTERVAL"`
	CorrelationInterval int     `yaml:"correlation_interval"  env:"CORRELATION_INTERVAL"`
	Workers             int     `yaml:"workers"               env:"WORKERS"`
	Seed                int64   `yaml:"seed"                  env:"SEED"`

	// Roster names the personalities to train. Empty means all of them.
	Roster   []string           `yaml:"roster"    env:"ROSTER"    envSeparator:","`
	StandIns map[string]float64 `yaml:"stand_ins" env:"STAND_INS"`

	Ledger    string `yaml:"ledger"     env:"LEDGER"`
	Scans     bool   `yaml:"scans"      env:"SCANS"`
	LogLevel  string `yaml:"log_level"  env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	tc := evolution.DefaultConfig()
	standIns := make(map[string]float64)
	for _, s := range tc.Round.StandIns {
		standIns[s.Personality.String()] = s.Weight
	}
	return &Config{
		OutputDir:           "brains",
		ResumeRound:         -1,
		Rounds:              tc.Rounds,
		PoolSize:            tc.PoolSize,
		GamesPerGenome:      tc.Round.GamesPerGenome,
		MaxTurnsPerPlayer:   tc.Round.MaxTurnsPerPlayer,
		HiddenSize:          tc.HiddenSize,
		BaseMutationRate:    tc.BaseMutationRate,
		SnapshotInterval:    tc.SnapshotInterval,
		CorrelationInterval: tc.CorrelationInterval,
		StandIns:            standIns,
		Scans:               tc.Scans,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		// A configured stand-in map replaces the default one.
		defaults := cfg.StandIns
		cfg.StandIns = nil
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
		if cfg.StandIns == nil {
			cfg.StandIns = defaults
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors is every problem found by Validate.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Validate returns a list of validation errors (empty = valid).
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors
	positive := func(field string, v int) {
		if v <= 0 {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("must be positive, got %d", v)})
		}
	}
	notNegative := func(field string, v int) {
		if v < 0 {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("must not be negative, got %d", v)})
		}
	}

	if c.OutputDir == "" {
		errs = append(errs, ValidationError{Field: "output_dir", Message: "must be set"})
	}
	switch c.Resume {
	case ResumeNone, ResumeStrict, ResumeScan:
	default:
		errs = append(errs, ValidationError{Field: "resume", Message: fmt.Sprintf("unknown mode %q", c.Resume)})
	}
	if c.Resume != ResumeNone && c.Session == "" {
		errs = append(errs, ValidationError{Field: "session", Message: "required to resume"})
	}
	if strings.ContainsAny(c.Session, `/\`) {
		errs = append(errs, ValidationError{Field: "session", Message: "must be a plain name"})
	}
	notNegative("rounds", c.Rounds)
	positive("pool_size", c.PoolSize)
	positive("games_per_genome", c.GamesPerGenome)
	positive("max_turns_per_player", c.MaxTurnsPerPlayer)
	positive("hidden_size", c.HiddenSize)
	notNegative("snapshot_interval", c.SnapshotInterval)
	notNegative("correlation_interval", c.CorrelationInterval)
	notNegative("workers", c.Workers)
	if c.BaseMutationRate < 0 {
		errs = append(errs, ValidationError{Field: "base_mutation_rate", Message: "must not be negative"})
	}

	for _, name := range c.Roster {
		if _, err := engine.ParsePersonality(name); err != nil {
			errs = append(errs, ValidationError{Field: "roster", Message: err.Error()})
		}
	}
	total := 0.0
	for name, w := range c.StandIns {
		p, err := engine.ParsePersonality(name)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{Field: "stand_ins", Message: err.Error()})
		case p.Role() != engine.RoleStandIn:
			errs = append(errs, ValidationError{Field: "stand_ins", Message: fmt.Sprintf("%s is not a stand-in", name)})
		case w < 0:
			errs = append(errs, ValidationError{Field: "stand_ins", Message: fmt.Sprintf("%s has negative weight", name)})
		}
		total += w
	}
	if len(c.StandIns) > 0 && total <= 0 {
		errs = append(errs, ValidationError{Field: "stand_ins", Message: "weights must not all be zero"})
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: "log_level", Message: err.Error()})
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, ValidationError{Field: "log_format", Message: fmt.Sprintf("want text or json, got %q", c.LogFormat)})
	}
	return errs
}

// Personalities resolves the roster names. Call Validate first.
func (c *Config) Personalities() []engine.Personality {
	if len(c.Roster) == 0 {
		return engine.AllPersonalities()
	}
	var out []engine.Personality
	seen := make(map[engine.Personality]bool)
	for _, name := range c.Roster {
		p, err := engine.ParsePersonality(name)
		if err != nil || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Trainer converts the settings into a training configuration.
func (c *Config) Trainer() *evolution.Config {
	tc := evolution.DefaultConfig()
	tc.Personalities = c.Personalities()
	tc.PoolSize = c.PoolSize
	tc.HiddenSize = c.HiddenSize
	tc.BaseMutationRate = c.BaseMutationRate
	tc.Rounds = c.Rounds
	tc.SnapshotInterval = c.SnapshotInterval
	tc.CorrelationInterval = c.CorrelationInterval
	tc.Scans = c.Scans
	tc.RandomSeed = c.Seed
	tc.Round.GamesPerGenome = c.GamesPerGenome
	tc.Round.MaxTurnsPerPlayer = c.MaxTurnsPerPlayer
	tc.Round.Workers = c.Workers
	if len(c.StandIns) > 0 {
		tc.Round.StandIns = standIns(c.StandIns)
	}
	return tc
}

// standIns orders the weights by personality so assembly is reproducible.
func standIns(weights map[string]float64) []simulation.StandInWeight {
	var out []simulation.StandInWeight
	for name, w := range weights {
		p, err := engine.ParsePersonality(name)
		if err != nil {
			continue
		}
		out = append(out, simulation.StandInWeight{Personality: p, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Personality < out[j].Personality })
	return out
}

// ResumeMode maps the resume setting to the trainer's mode.
func (c *Config) ResumeMode() evolution.ResumeMode {
	if c.Resume == ResumeScan {
		return evolution.Scan
	}
	return evolution.Strict
}

// SetupLogging applies the log level and format to the standard logger.
func (c *Config) SetupLogging() {
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
