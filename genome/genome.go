// Package genome holds the agents that take part in training: one genome per
// trained or scripted agent, with its evaluator, lineage, per-round
// statistics and the per-seat batch buffers a round fills and evaluates.
package genome

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/network"
)

// Stats accumulates a genome's results over one round.
type Stats struct {
	Losses             int
	BossLosses         int
	PlayerLosses       int
	TurnsPlayed        int
	HandValue          float64
	LosingHandValue    float64
	SurvivingHandValue float64
	Confidence         float64

	// Objective is the fitness computed from the other fields after the round.
	Objective float64
}

// Genome is one agent. Lineage ids are fixed at creation; statistics and
// buffers are reset every round.
type Genome struct {
	Personality engine.Personality
	Serial      uint64
	Mother      uint64
	Father      uint64

	// Net is nil for scripted personalities.
	Net *network.Network

	// GamesPerSeat is how many games of the current round this genome plays
	// from each seat. It sizes the batch buffers.
	GamesPerSeat [engine.NumSeats]int
	Stats        Stats

	// views are written by games; batches are the published copy that
	// Evaluate reads.
	views   [engine.NumSeats][]float32
	batches [engine.NumSeats][]float32
	actions [engine.NumSeats][]float32

	rng *rand.Rand

	// correlation accumulates output x input products when enabled.
	correlation []float64
	correlating bool
}

// New creates a founder genome. Neural personalities get a fresh network of
// the given hidden width.
func New(reg *Registry, p engine.Personality, hiddenSize int, rng *rand.Rand) *Genome {
	g := &Genome{
		Personality: p,
		Serial:      reg.Next(),
	}
	if p.IsNeural() {
		g.Net = network.New(engine.ViewSize, hiddenSize, engine.ActionSize, rng)
	}
	return g
}

// Restore recreates a genome with known lineage, for example from a manifest.
func Restore(p engine.Personality, serial, mother, father uint64, net *network.Network) *Genome {
	return &Genome{
		Personality: p,
		Serial:      serial,
		Mother:      mother,
		Father:      father,
		Net:         net,
	}
}

// Games is the number of games this genome occupies across all seats.
func (g *Genome) Games() int {
	total := 0
	for _, n := range g.GamesPerSeat {
		total += n
	}
	return total
}

// ClearRound zeroes statistics, seat occupancy and the correlation matrix
// before assembly.
func (g *Genome) ClearRound() {
	g.Stats = Stats{}
	g.GamesPerSeat = [engine.NumSeats]int{}
	g.DisableCorrelation()
}

// Reseed sets the source used by the random scripted behavior.
func (g *Genome) Reseed(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
}

// Reset sizes the batch buffers of seat to its game count and zeroes them.
func (g *Genome) Reset(seat int) {
	rows := g.GamesPerSeat[seat]
	g.views[seat] = resize(g.views[seat], rows*engine.ViewSize)
	g.batches[seat] = resize(g.batches[seat], rows*engine.ViewSize)
	g.actions[seat] = resize(g.actions[seat], rows*engine.ActionSize)
}

func resize(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	buf = buf[:n]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// View returns the perspective row of one game slot at seat. Each slot is
// written by exactly one game.
func (g *Genome) View(seat, slot int) []float32 {
	return g.views[seat][slot*engine.ViewSize : (slot+1)*engine.ViewSize]
}

// Cycle publishes the views written for seat as the batch the next Evaluate
// reads. The previous batch becomes the buffer for the next views, so every
// row must be written again before the following Cycle.
func (g *Genome) Cycle(seat int) {
	g.views[seat], g.batches[seat] = g.batches[seat], g.views[seat]
}

// Batch returns the published perspective row of one game slot at seat.
func (g *Genome) Batch(seat, slot int) []float32 {
	return g.batches[seat][slot*engine.ViewSize : (slot+1)*engine.ViewSize]
}

// Action returns the decoded action scores of one game slot at seat.
func (g *Genome) Action(seat, slot int) []float32 {
	return g.actions[seat][slot*engine.ActionSize : (slot+1)*engine.ActionSize]
}

// Evaluate fills the action buffer of seat from its view buffer.
func (g *Genome) Evaluate(seat int) error {
	rows := g.GamesPerSeat[seat]
	if rows == 0 {
		return nil
	}
	out := g.actions[seat]
	switch g.Personality.Kind() {
	case engine.KindScriptedRandom:
		rng := g.rng
		if rng == nil {
			rng = rand.New(rand.NewSource(int64(g.Serial)))
			g.rng = rng
		}
		for i := range out {
			out[i] = rng.Float32()
		}
		return nil
	case engine.KindScriptedPassive, engine.KindScriptedGreedy:
		// Greedy decisions are made by the round from the true state.
		for i := range out {
			out[i] = 0
		}
		return nil
	}

	if g.Net == nil {
		logrus.WithFields(logrus.Fields{
			"personality": g.Personality,
			"serial":      g.Serial,
			"seat":        seat,
		}).Warn("genome has no network; passing")
		for i := range out {
			out[i] = 0
		}
		return nil
	}
	if err := g.Net.Forward(g.batches[seat], rows, out); err != nil {
		return err
	}
	if g.correlating {
		g.accumulateCorrelation(seat, rows)
	}
	return nil
}

// MakeMutation returns a child with a mutated copy of this genome's network.
func (g *Genome) MakeMutation(reg *Registry, deviation float64, rng *rand.Rand) *Genome {
	child := &Genome{
		Personality: g.Personality,
		Serial:      reg.Next(),
		Mother:      g.Serial,
	}
	if g.Net != nil {
		child.Net = g.Net.Clone()
		child.Net.Mutate(deviation, rng)
	}
	return child
}

// MakeOffspringWith returns a child whose network is this genome's network
// spliced with other's.
func (g *Genome) MakeOffspringWith(reg *Registry, other *Genome, rng *rand.Rand) *Genome {
	child := &Genome{
		Personality: g.Personality,
		Serial:      reg.Next(),
		Mother:      g.Serial,
		Father:      other.Serial,
	}
	if g.Net != nil {
		child.Net = g.Net.Clone()
		if other.Net != nil {
			child.Net.SpliceWith(other.Net, rng)
		}
	}
	return child
}
