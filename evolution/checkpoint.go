package evolution

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/signalnine/thirtyone/genome"
	"github.com/signalnine/thirtyone/scan"
)

// ResumeMode decides how missing pieces of a snapshot are treated.
type ResumeMode int

const (
	// Strict fails on a missing manifest or model file.
	Strict ResumeMode = iota
	// Scan logs and skips genomes whose model cannot be loaded, and starts
	// fresh without a manifest.
	Scan
)

// SnapshotStats describes one written snapshot.
type SnapshotStats struct {
	Round   int
	Final   bool
	Genomes int
	Models  int
	Scans   int
}

// Snapshot writes the model of every neural genome that has none yet, the
// optional scans, and the manifest of round listing every genome in roster
// order.
func (t *Trainer) Snapshot(round int) (SnapshotStats, error) {
	return t.snapshot(round, false)
}

// SnapshotFinal is Snapshot for the roster evolved after round. Its manifest
// is written beside the one of round, which is kept.
func (t *Trainer) SnapshotFinal(round int) (SnapshotStats, error) {
	return t.snapshot(round, true)
}

func (t *Trainer) snapshot(round int, final bool) (SnapshotStats, error) {
	stats := SnapshotStats{Round: round, Final: final}
	if t.Session == nil {
		return stats, errors.New("no session to snapshot into")
	}
	start := time.Now()
	log := logrus.WithField("round", round)

	var stems []string
	for _, pool := range t.Roster.Pools {
		for _, g := range pool.Genomes {
			stem := g.Stem()
			stems = append(stems, stem)
			if g.Net == nil {
				if g.Personality.IsNeural() {
					log.WithField("stem", stem).Warn("Genome has no network to save")
				}
				continue
			}
			wrote, err := t.Session.SaveModel(stem, g.Net)
			if err != nil {
				return stats, err
			}
			if wrote {
				stats.Models++
			}
			if t.Config.Scans {
				n, err := t.writeScans(g)
				if err != nil {
					return stats, err
				}
				stats.Scans += n
			}
		}
	}
	write := t.Session.WriteManifest
	if final {
		write = t.Session.WriteFinalManifest
	}
	if err := write(round, stems); err != nil {
		return stats, err
	}
	stats.Genomes = len(stems)
	log.WithFields(logrus.Fields{
		"final":   final,
		"genomes": stats.Genomes,
		"models":  stats.Models,
		"scans":   stats.Scans,
		"elapsed": time.Since(start),
	}).Info("Saved snapshot")
	return stats, nil
}

func (t *Trainer) writeScans(g *genome.Genome) (int, error) {
	stem := g.Stem()
	n := 0
	wrote, err := scan.Evaluator(t.Session.ScanPath(stem), g.Net)
	if err != nil {
		return n, err
	}
	if wrote {
		n++
	}
	if corr := g.Correlation(); corr != nil {
		wrote, err = scan.Correlation(t.Session.ScanPath(stem+"_correlation"), corr, g.Stats.TurnsPlayed)
		if err != nil {
			return n, err
		}
		if wrote {
			n++
		}
	}
	return n, nil
}

// Resume restores the roster saved when training stopped after round, or else
// the snapshot of round, and continues at round+1. A negative round picks the
// latest round with a manifest. In Scan
// mode a session without that manifest starts fresh. Lines that do not name
// a configured personality, and genomes beyond PoolSize, are skipped.
// Serials of restored genomes are reserved in the registry. Pools left short
// are filled by Initialize.
func (t *Trainer) Resume(round int, mode ResumeMode) error {
	if t.Session == nil {
		return errors.New("no session to resume")
	}
	if round < 0 {
		latest, err := t.Session.LatestRound()
		if err != nil {
			return err
		}
		round = latest
	}
	log := logrus.WithField("round", round)

	var stems []string
	var final bool
	var err error
	if round < 0 {
		err = errors.Errorf("session %s has no snapshots", t.Session.Dir)
	} else {
		stems, final, err = t.Session.ResumeManifest(round)
	}
	if err != nil {
		if mode == Strict {
			return err
		}
		log.WithError(err).Warn("Nothing to resume; starting fresh")
		return nil
	}

	wanted := make(map[string]bool, len(t.Config.Personalities))
	for _, p := range t.Config.Personalities {
		wanted[p.String()] = true
	}
	restored := 0
	for _, stem := range stems {
		lin, err := genome.ParseStem(stem)
		if err != nil {
			log.WithError(err).Warn("Ignoring manifest line")
			continue
		}
		if !wanted[lin.Personality.String()] {
			log.WithField("stem", stem).Warn("Ignoring genome of unconfigured personality")
			continue
		}
		pool := t.Roster.Ensure(lin.Personality)
		if pool.Size() >= t.Config.PoolSize {
			log.WithField("stem", stem).Warn("Ignoring excess genome")
			continue
		}
		g := genome.Restore(lin.Personality, lin.Serial, lin.Mother, lin.Father, nil)
		if lin.Personality.IsNeural() {
			net, err := t.Session.LoadModel(stem)
			if err != nil {
				if mode == Strict {
					return errors.Wrapf(err, "resume round %d", round)
				}
				log.WithError(err).WithField("stem", stem).Warn("Skipping genome")
				continue
			}
			g.Net = net
		}
		t.Registry.Observe(lin.Serial)
		pool.Genomes = append(pool.Genomes, g)
		restored++
	}

	for _, p := range t.Config.Personalities {
		if have := t.Roster.Ensure(p).Size(); have < t.Config.PoolSize {
			log.WithFields(logrus.Fields{
				"personality": p,
				"restored":    have,
			}).Info("Adding genomes")
		}
	}

	t.Round = round + 1
	t.Checkpointer.LastSaved = round
	log.WithFields(logrus.Fields{
		"genomes": restored,
		"final":   final,
	}).Info("Resumed session")
	return nil
}

// AutoCheckpointer provides automatic snapshot saving.
type AutoCheckpointer struct {
	Trainer   *Trainer
	Interval  int // Save every N rounds
	LastSaved int // Last round saved
}

// NewAutoCheckpointer creates an auto-checkpointer.
func NewAutoCheckpointer(t *Trainer, interval int) *AutoCheckpointer {
	return &AutoCheckpointer{
		Trainer:   t,
		Interval:  interval,
		LastSaved: -1,
	}
}

// ShouldSave returns true if round is due for a snapshot.
func (ac *AutoCheckpointer) ShouldSave(round int) bool {
	if ac.Interval <= 0 || ac.Trainer.Session == nil {
		return false
	}
	// Round 0 is the untrained founders.
	if round == 0 {
		return false
	}
	return round > ac.LastSaved && round%ac.Interval == 0
}

// Save writes the snapshot of round.
func (ac *AutoCheckpointer) Save(round int) error {
	if _, err := ac.Trainer.Snapshot(round); err != nil {
		return err
	}
	ac.LastSaved = round
	return nil
}

// SaveFinal snapshots the roster evolved after the last played round, so a
// resume continues with it. A snapshot of that round is kept. It does nothing
// before the first round or without a session.
func (ac *AutoCheckpointer) SaveFinal() error {
	round := ac.Trainer.Round - 1
	if round < 0 || ac.Trainer.Session == nil {
		return nil
	}
	if _, err := ac.Trainer.SnapshotFinal(round); err != nil {
		return err
	}
	ac.LastSaved = max(ac.LastSaved, round)
	return nil
}
