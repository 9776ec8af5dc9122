package simulation

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/genome"
)

// Config controls one round of play.
type Config struct {
	AssemblyConfig
	MaxTurnsPerPlayer int
	// Workers bounds the goroutines preparing, evaluating and updating games.
	// Zero means one per CPU.
	Workers int
	// Correlate accumulates input/output correlations for neural genomes.
	Correlate bool
}

// DefaultConfig returns the round settings used for training.
func DefaultConfig() Config {
	return Config{
		AssemblyConfig: AssemblyConfig{
			GamesPerGenome: 1000,
			StandIns:       DefaultStandIns(),
		},
		MaxTurnsPerPlayer: 5,
	}
}

// Result summarizes a played round.
type Result struct {
	Round      int
	Games      int
	Turns      int
	Unfinished int
	ShownGame  int

	InitDuration  time.Duration
	PlayDuration  time.Duration
	TallyDuration time.Duration
}

// Play runs one round: it assembles games from the roster, deals, plays up to
// MaxTurnsPerPlayer turns per seat and tallies the results into the genomes'
// statistics. Statistics of every genome in the roster are cleared first. An
// *engine.InvariantError is returned if any game loses track of a card.
func Play(round int, roster *genome.Roster, cfg Config, rng *rand.Rand) (*Result, error) {
	log := logrus.WithField("round", round)
	start := time.Now()

	for _, g := range roster.Genomes() {
		g.ClearRound()
	}
	lineup := Assemble(roster, cfg.AssemblyConfig, rng)
	games := lineup.Games
	for _, g := range lineup.Genomes {
		for s := 0; s < engine.NumSeats; s++ {
			g.Reset(s)
		}
		g.Reseed(rng.Int63())
		if cfg.Correlate && g.Net != nil {
			g.EnableCorrelation()
		}
	}

	err := forEachGame(len(games), cfg.Workers, func(i int) error {
		game := games[i]
		game.State.Deal(rand.New(rand.NewSource(game.Seed)), game.Personalities())
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Round: round, Games: len(games), InitDuration: time.Since(start)}
	log.WithField("elapsed", res.InitDuration).Info("Initialized round")
	if len(games) == 0 {
		log.Warn("Roster produced no games")
		return res, nil
	}
	start = time.Now()

	res.ShownGame = rng.Intn(len(games))
	log.WithFields(logrus.Fields{"games": len(games), "shown": res.ShownGame}).Info("Playing games")

	allFinished := false
	for t := 0; t < cfg.MaxTurnsPerPlayer && !allFinished; t++ {
		for s := 0; s < engine.NumSeats && !allFinished; s++ {
			turnLog := log.WithFields(logrus.Fields{"turn": t*engine.NumSeats + s, "seat": s})

			if shown := games[res.ShownGame]; !shown.Finished() {
				turnLog.Debug("\n" + shown.Dump(false))
			}
			stride := 1 + rng.Intn(max(1, len(games)/100))
			for i := 0; i < len(games); i += stride {
				if err := games[i].Check(i); err != nil {
					return nil, err
				}
			}

			if err := prepareViews(games, s, cfg.Workers); err != nil {
				return nil, err
			}
			if err := evaluate(lineup.Genomes, s, cfg.Workers); err != nil {
				return nil, err
			}
			if err := update(games, s, t, cfg.Workers); err != nil {
				return nil, err
			}

			res.Turns++
			unfinished := 0
			for _, game := range games {
				if !game.Finished() {
					unfinished++
				}
			}
			res.Unfinished = unfinished
			allFinished = unfinished == 0
			turnLog.WithField("unfinished", unfinished).Debug("Turn complete")
		}
	}
	for _, game := range games {
		game.finish(cfg.MaxTurnsPerPlayer)
	}
	res.PlayDuration = time.Since(start)
	log.WithFields(logrus.Fields{
		"elapsed":  res.PlayDuration,
		"per_game": res.PlayDuration / time.Duration(len(games)),
	}).Info("Played round")
	start = time.Now()

	// Verify and tally all of the games.
	for i, game := range games {
		if i == res.ShownGame {
			log.Debug("\n" + game.Dump(false))
		}
		if err := game.Check(i); err != nil {
			return nil, err
		}
		game.tally()
	}
	res.TallyDuration = time.Since(start)
	log.WithField("elapsed", res.TallyDuration).Info("Tallied round")
	return res, nil
}

// prepareViews writes every game's perspective for seat into the owning
// genome's batch and publishes the batches.
func prepareViews(games []*Game, seat, workers int) error {
	err := forEachGame(len(games), workers, func(i int) error {
		game := games[i]
		p := &game.Players[seat]
		BuildView(p.Genome.View(seat, p.Slot), &game.State, game.Personalities(), game.Passed(), seat)
		return nil
	})
	if err != nil {
		return err
	}
	done := make(map[*genome.Genome]bool)
	for _, game := range games {
		g := game.Players[seat].Genome
		if !done[g] {
			done[g] = true
			g.Cycle(seat)
		}
	}
	return nil
}

// evaluate runs every genome's batch for seat with bounded concurrency.
func evaluate(genomes []*genome.Genome, seat, workers int) error {
	var eg errgroup.Group
	if workers > 0 {
		eg.SetLimit(workers)
	} else {
		eg.SetLimit(-1)
	}
	for _, g := range genomes {
		eg.Go(func() error {
			return errors.Wrapf(g.Evaluate(seat), "evaluating %s seat %d", g.Stem(), seat)
		})
	}
	return eg.Wait()
}

// update applies the decoded move of seat in every game where it is still
// playing.
func update(games []*Game, seat, turn, workers int) error {
	return forEachGame(len(games), workers, func(i int) error {
		game := games[i]
		if game.Players[seat].Passed {
			return nil
		}
		if err := game.apply(seat, turn, game.decide(seat)); err != nil {
			return &engine.InvariantError{Game: i, Reason: err.Error(), Dump: game.Dump(true)}
		}
		return nil
	})
}
