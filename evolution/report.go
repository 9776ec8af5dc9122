package evolution

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/genome"
	"github.com/signalnine/thirtyone/store"
)

// Standing is one genome's ranked result in a round. Survival is the share
// of games not lost and Turns the average number of turns played per game.
type Standing struct {
	Rank        int
	Stem        string
	Personality engine.Personality
	Games       int
	Losses      int
	Objective   float64
	Survival    float64
	Turns       float64
	HandValue   float64
	WinValue    float64
	LossValue   float64
	Confidence  float64
}

// Measure derives the standing of g from its round statistics.
func Measure(rank int, g *genome.Genome) Standing {
	s := Standing{
		Rank:        rank,
		Stem:        g.Stem(),
		Personality: g.Personality,
		Games:       g.Games(),
		Objective:   g.Stats.Objective,
		Losses:      g.Stats.Losses,
	}
	if s.Games == 0 {
		return s
	}
	st := g.Stats
	surv := s.Games - st.Losses
	s.Survival = float64(surv) / float64(s.Games)
	s.Turns = float64(st.TurnsPlayed) / float64(s.Games)
	s.HandValue = st.HandValue / float64(s.Games)
	s.WinValue = st.SurvivingHandValue / float64(max(1, surv))
	s.LossValue = st.LosingHandValue / float64(max(1, st.Losses))
	s.Confidence = st.Confidence / float64(max(1, st.TurnsPlayed))
	return s
}

// Summary aggregates the standings of one pool. Diversity is the mean
// parameter distance between its genomes.
type Summary struct {
	Personality engine.Personality
	Genomes     int
	Games       int
	Objective   float64
	Survival    float64
	Turns       float64
	HandValue   float64
	WinValue    float64
	LossValue   float64
	Confidence  float64
	Diversity   float64
	Best        Standing
}

// Summarize ranks a pool sorted by descending objective and measures its
// diversity. rng samples genome pairs of large pools.
func Summarize(pool *genome.Pool, rng *rand.Rand) (Summary, []Standing) {
	sum := Summary{
		Personality: pool.Personality,
		Genomes:     pool.Size(),
		Objective:   pool.AverageObjective(),
		Diversity:   pool.Diversity(rng),
	}
	best := pool.Best()
	standings := make([]Standing, pool.Size())
	var losses, turns int
	var hand, win, loss, conf float64
	for i, g := range pool.Genomes {
		standings[i] = Measure(i, g)
		if g == best {
			sum.Best = standings[i]
		}
		st := g.Stats
		sum.Games += g.Games()
		losses += st.Losses
		turns += st.TurnsPlayed
		hand += st.HandValue
		win += st.SurvivingHandValue
		loss += st.LosingHandValue
		conf += st.Confidence
	}
	if sum.Games == 0 {
		return sum, standings
	}
	surv := sum.Games - losses
	sum.Survival = float64(surv) / float64(sum.Games)
	sum.Turns = float64(turns) / float64(sum.Games)
	sum.HandValue = hand / float64(sum.Games)
	sum.WinValue = win / float64(max(1, surv))
	sum.LossValue = loss / float64(max(1, losses))
	sum.Confidence = conf / float64(max(1, turns))
	return sum, standings
}

func trunc1(v float64) float64 {
	return math.Trunc(v*10) / 10
}

// String formats a standing as a ranking line.
func (s Standing) String() string {
	if s.Games == 0 {
		return fmt.Sprintf("%d:\t%s did not play any games", s.Rank+1, s.Stem)
	}
	return fmt.Sprintf("%d:\t%s scored %g, survived %g%%, played %g turns, hand value %g (win: %g, loss: %g), confidence %g%%",
		s.Rank+1, s.Stem, trunc1(s.Objective), trunc1(100*s.Survival), trunc1(s.Turns),
		trunc1(s.HandValue), trunc1(s.WinValue), trunc1(s.LossValue), trunc1(100*s.Confidence))
}

// String formats the pool summary line.
func (s Summary) String() string {
	return fmt.Sprintf("overall %s scored %g, survived %g%% of games, played %g turns and had average hand value %g (win: %g, loss: %g) with confidence %g%%",
		s.Personality, trunc1(s.Objective), trunc1(100*s.Survival), trunc1(s.Turns),
		trunc1(s.HandValue), trunc1(s.WinValue), trunc1(s.LossValue), trunc1(100*s.Confidence))
}

// Record converts a standing to a ledger row.
func (s Standing) Record(round int) store.GenomeRecord {
	return store.GenomeRecord{
		Round:       round,
		Rank:        s.Rank,
		Stem:        s.Stem,
		Personality: s.Personality.String(),
		Games:       s.Games,
		Losses:      s.Losses,
		Objective:   s.Objective,
		HandValue:   s.HandValue,
		Confidence:  s.Confidence,
	}
}

// logStandings writes the ranking of every pool except the absent one.
func logStandings(log logrus.FieldLogger, summaries []Summary, standings [][]Standing) {
	for i, sum := range summaries {
		if sum.Personality.IsAbsent() || sum.Games == 0 {
			continue
		}
		plog := log.WithField("personality", sum.Personality)
		for _, s := range standings[i] {
			plog.Info(s.String())
		}
		plog.WithFields(logrus.Fields{
			"games":     sum.Games,
			"objective": trunc1(sum.Objective),
			"diversity": sum.Diversity,
		}).Info(sum.String())
	}
}
