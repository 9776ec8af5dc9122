// Package evolution runs training: every round plays all pools against each
// other, ranks each pool by fitness, snapshots the session periodically and
// replaces the weakest genomes of every trainable pool.
package evolution

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/evolution/fitness"
	"github.com/signalnine/thirtyone/genome"
	"github.com/signalnine/thirtyone/simulation"
	"github.com/signalnine/thirtyone/store"
)

// Config holds configuration for a training run.
type Config struct {
	Personalities       []engine.Personality // Pools to train; each gets PoolSize genomes
	PoolSize            int                  // Genomes per personality
	HiddenSize          int                  // Width of every hidden evaluator layer
	BaseMutationRate    float64              // Mutation deviation at round 0
	Rounds              int                  // Rounds to play (0 = until stopped)
	SnapshotInterval    int                  // Snapshot every N rounds (0 = never)
	CorrelationInterval int                  // Accumulate correlations every N rounds (0 = never)
	Scans               bool                 // Render scans with each snapshot
	RandomSeed          int64                // Random seed (0 = use time)
	Round               simulation.Config
}

// DefaultConfig returns a default training configuration.
func DefaultConfig() *Config {
	return &Config{
		Personalities:       engine.AllPersonalities(),
		PoolSize:            20,
		HiddenSize:          128,
		BaseMutationRate:    0.05,
		Rounds:              0,
		SnapshotInterval:    100,
		CorrelationInterval: 100,
		Scans:               true,
		RandomSeed:          0,
		Round:               simulation.DefaultConfig(),
	}
}

// RoundStats holds the outcome of a single round.
type RoundStats struct {
	Round     int
	Result    *simulation.Result
	Summaries []Summary
	Replaced  int
	Snapshot  bool
	Duration  time.Duration
	Timestamp time.Time
}

// Trainer runs the training loop over a roster of pools.
type Trainer struct {
	Config   *Config
	Registry *genome.Registry
	Roster   *genome.Roster
	Rng      *rand.Rand

	// Round is the index of the next round to play.
	Round        int
	History      []RoundStats
	Checkpointer *AutoCheckpointer

	// Session and Ledger are optional.
	Session *store.Session
	Ledger  *store.Ledger

	// Callbacks for progress reporting
	OnRoundComplete func(stats RoundStats)
}

// NewTrainer creates a trainer with an empty roster. Call Initialize, or
// Resume followed by Initialize, before Run.
func NewTrainer(config *Config, session *store.Session, ledger *store.Ledger) *Trainer {
	if config == nil {
		config = DefaultConfig()
	}
	seed := config.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	t := &Trainer{
		Config:   config,
		Registry: genome.NewRegistry(),
		Roster:   &genome.Roster{},
		Rng:      rand.New(rand.NewSource(seed)),
		Session:  session,
		Ledger:   ledger,
	}
	t.Checkpointer = NewAutoCheckpointer(t, config.SnapshotInterval)
	return t
}

// Initialize fills every configured pool up to PoolSize with founder
// genomes. Pools restored by Resume keep their genomes.
func (t *Trainer) Initialize() {
	start := time.Now()
	added := 0
	for _, p := range t.Config.Personalities {
		pool := t.Roster.Ensure(p)
		for pool.Size() < t.Config.PoolSize {
			pool.Genomes = append(pool.Genomes, genome.New(t.Registry, p, t.Config.HiddenSize, t.Rng))
			added++
		}
	}
	logrus.WithFields(logrus.Fields{
		"pools":   len(t.Roster.Pools),
		"added":   added,
		"elapsed": time.Since(start),
	}).Info("Initialized genomes")
}

// Step plays, ranks and evolves one round.
func (t *Trainer) Step(ctx context.Context) (RoundStats, error) {
	round := t.Round
	log := logrus.WithField("round", round)
	start := time.Now()

	cfg := t.Config.Round
	cfg.Correlate = every(t.Config.CorrelationInterval, round)
	res, err := simulation.Play(round, t.Roster, cfg, t.Rng)
	if err != nil {
		return RoundStats{}, errors.Wrapf(err, "round %d", round)
	}

	summaries, standings := t.rank()
	logStandings(log, summaries, standings)
	if t.Ledger != nil {
		if err := t.record(ctx, res, standings); err != nil {
			return RoundStats{}, err
		}
	}

	stats := RoundStats{Round: round, Result: res, Summaries: summaries}
	if t.Checkpointer.ShouldSave(round) {
		if err := t.Checkpointer.Save(round); err != nil {
			return RoundStats{}, err
		}
		stats.Snapshot = true
	}

	evolveStart := time.Now()
	dev := Deviation(t.Config.BaseMutationRate, round)
	for _, pool := range t.Roster.Pools {
		stats.Replaced += EvolvePool(pool, t.Registry, dev, t.Rng).Total()
	}
	log.WithFields(logrus.Fields{
		"replaced":  stats.Replaced,
		"deviation": dev,
		"elapsed":   time.Since(evolveStart),
	}).Info("Evolved genomes")

	stats.Duration = time.Since(start)
	stats.Timestamp = time.Now()
	t.History = append(t.History, stats)
	t.Round++
	if t.OnRoundComplete != nil {
		t.OnRoundComplete(stats)
	}
	return stats, nil
}

// rank scores and sorts every pool.
func (t *Trainer) rank() ([]Summary, [][]Standing) {
	summaries := make([]Summary, len(t.Roster.Pools))
	standings := make([][]Standing, len(t.Roster.Pools))
	for i, pool := range t.Roster.Pools {
		fitness.Score(pool)
		pool.SortByObjective()
		summaries[i], standings[i] = Summarize(pool, t.Rng)
	}
	return summaries, standings
}

func (t *Trainer) record(ctx context.Context, res *simulation.Result, standings [][]Standing) error {
	var rows []store.GenomeRecord
	for _, pool := range standings {
		for _, s := range pool {
			if s.Personality.IsAbsent() {
				continue
			}
			rows = append(rows, s.Record(res.Round))
		}
	}
	round := store.RoundRecord{
		Round:      res.Round,
		Games:      res.Games,
		Turns:      res.Turns,
		Unfinished: res.Unfinished,
		InitMs:     res.InitDuration.Milliseconds(),
		PlayMs:     res.PlayDuration.Milliseconds(),
		TallyMs:    res.TallyDuration.Milliseconds(),
	}
	return errors.Wrap(t.Ledger.RecordRound(ctx, round, rows), "ledger")
}

// Run plays rounds until Config.Rounds have been played or ctx is done.
// Cancellation takes effect between rounds; the session is then snapshotted
// so it can be resumed at the next round.
func (t *Trainer) Run(ctx context.Context) error {
	played := 0
	for t.Config.Rounds == 0 || played < t.Config.Rounds {
		if ctx.Err() != nil {
			logrus.WithField("round", t.Round).Info("Stopping training")
			return t.Checkpointer.SaveFinal()
		}
		logrus.WithField("round", t.Round).Info("Starting round")
		if _, err := t.Step(ctx); err != nil {
			return err
		}
		played++
	}
	return t.Checkpointer.SaveFinal()
}

func every(interval, round int) bool {
	return interval > 0 && round%interval == 0
}
