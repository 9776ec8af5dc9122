package simulation

import (
	"github.com/signalnine/thirtyone/engine"
)

// apply performs the move of the active seat and the termination rules that
// follow it, then records the turn at which any seat first passed.
func (g *Game) apply(active, turn int, mv engine.Move) error {
	p := &g.Players[active]
	p.Confidence += mv.Confidence
	if mv.Pass {
		if mv.SwapOnPass {
			g.State.SwapWithTable(active)
		}
		p.Passed = true
		p.HasSwapped = mv.SwapOnPass
	} else {
		if err := g.State.ApplyMove(active, mv.TableCard, mv.OwnCard); err != nil {
			return err
		}
		// The last seat still playing gets exactly one more move.
		if g.NumPassed() == engine.NumSeats-1 {
			p.Passed = true
		}
	}

	if g.HandValue(active) >= engine.MaxHandValue {
		for s := range g.Players {
			g.Players[s].Passed = true
		}
	}
	for s := range g.Players {
		if g.Players[s].Passed && g.Players[s].TurnOfPass < 0 {
			g.Players[s].TurnOfPass = turn
		}
	}
	return nil
}

// decide produces the active seat's move from its genome's action row, or
// from the greedy heuristic for greedy genomes.
func (g *Game) decide(active int) engine.Move {
	p := &g.Players[active]
	if p.Genome.Personality.Kind() == engine.KindScriptedGreedy {
		return GreedyMove(&g.State, active, p.Genome.Personality, p.HasSwapped)
	}
	return DecodeState(p.Genome.Action(active, p.Slot), &g.State, active)
}

// finish assigns the turn limit to seats that never passed.
func (g *Game) finish(maxTurns int) {
	for s := range g.Players {
		if g.Players[s].TurnOfPass < 0 {
			g.Players[s].TurnOfPass = maxTurns
		}
	}
}

// tally credits the result of a finished game to the seated genomes. Every
// present seat with the least hand value loses. A losing boss or stand-in is
// also counted on every seat's genome.
func (g *Game) tally() {
	var values [engine.NumSeats]float32
	least := float32(-1)
	for s := range g.Players {
		values[s] = g.HandValue(s)
		if g.Players[s].Genome.Personality.IsAbsent() {
			continue
		}
		if least < 0 || values[s] < least {
			least = values[s]
		}
	}

	for s := range g.Players {
		p := &g.Players[s]
		stats := &p.Genome.Stats
		v := float64(values[s])
		if !p.Genome.Personality.IsAbsent() && values[s] == least {
			stats.Losses++
			stats.LosingHandValue += v
			switch {
			case p.Genome.Personality == engine.Boss:
				for t := range g.Players {
					g.Players[t].Genome.Stats.BossLosses++
				}
			case p.Genome.Personality.IsHumanLike():
				for t := range g.Players {
					g.Players[t].Genome.Stats.PlayerLosses++
				}
			}
		} else {
			stats.SurvivingHandValue += v
		}
		stats.HandValue += v
		stats.TurnsPlayed += p.TurnOfPass + 1
		stats.Confidence += float64(p.Confidence)
	}
}
