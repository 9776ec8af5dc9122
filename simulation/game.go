// Package simulation plays rounds of batched self-play games. Every game keeps
// its own ground-truth state while the seated genomes evaluate all of their
// games for one seat in a single batched call.
package simulation

import (
	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/genome"
)

// Player is one seat of one game.
type Player struct {
	Genome *genome.Genome
	// Slot is the row of this game in the genome's batch for this seat.
	Slot       int
	Passed     bool
	HasSwapped bool
	// TurnOfPass is the turn at which the seat passed, or -1.
	TurnOfPass int
	// Confidence is summed over the game and credited to the genome at tally.
	Confidence float32
}

// Game is one game instance of a round.
type Game struct {
	Players [engine.NumSeats]Player
	State   engine.State
	Seed    int64
}

// NumPassed counts the seats that have passed.
func (g *Game) NumPassed() int {
	n := 0
	for i := range g.Players {
		if g.Players[i].Passed {
			n++
		}
	}
	return n
}

// Finished reports whether every seat has passed.
func (g *Game) Finished() bool {
	return g.NumPassed() == engine.NumSeats
}

// Personalities returns the personality of every seat.
func (g *Game) Personalities() [engine.NumSeats]engine.Personality {
	var out [engine.NumSeats]engine.Personality
	for i := range g.Players {
		out[i] = g.Players[i].Genome.Personality
	}
	return out
}

// Passed returns the pass flag of every seat.
func (g *Game) Passed() [engine.NumSeats]bool {
	var out [engine.NumSeats]bool
	for i := range g.Players {
		out[i] = g.Players[i].Passed
	}
	return out
}

// Statuses returns the per-seat bookkeeping used by state dumps.
func (g *Game) Statuses() [engine.NumSeats]engine.SeatStatus {
	var out [engine.NumSeats]engine.SeatStatus
	for i := range g.Players {
		out[i] = engine.SeatStatus{
			Personality: g.Players[i].Genome.Personality,
			Passed:      g.Players[i].Passed,
			HasSwapped:  g.Players[i].HasSwapped,
		}
	}
	return out
}

// HandValue scores the hand of seat under its personality's rules.
func (g *Game) HandValue(seat int) float32 {
	p := &g.Players[seat]
	return g.State.HandValue(seat, p.Genome.Personality, p.HasSwapped)
}

// Dump renders the game for debugging.
func (g *Game) Dump(full bool) string {
	return g.State.Dump(g.Statuses(), full)
}

// Check verifies card conservation and wraps a failure with a dump.
func (g *Game) Check(index int) error {
	if err := g.State.CheckConservation(); err != nil {
		return &engine.InvariantError{Game: index, Reason: err.Error(), Dump: g.Dump(true)}
	}
	return nil
}
