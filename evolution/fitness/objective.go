// Package fitness turns a genome's round statistics into the objective its
// pool is ranked by.
package fitness

import (
	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/genome"
)

const (
	// BaselineHandValue is the average value of a dealt hand.
	BaselineHandValue = 15.0
	// GoodHandValue is a hand worth aiming for.
	GoodHandValue = 30.0
	// ExpectedLossRate is the share of games a seat loses by chance.
	ExpectedLossRate = 0.25

	// PrimaryWeight scales the main term of every formula.
	PrimaryWeight = 1000.0
	// BonusWeight scales the secondary term.
	BonusWeight = 100.0
)

// Formula computes an objective from statistics over a number of games.
type Formula func(s genome.Stats, games int) float64

// Default rewards a high average hand value and, secondarily, losing less
// often than chance.
func Default(s genome.Stats, games int) float64 {
	hand := s.HandValue / float64(games)
	expected := ExpectedLossRate * float64(games)
	return PrimaryWeight*(hand-BaselineHandValue)/(GoodHandValue-BaselineHandValue) +
		BonusWeight*(expected-float64(s.Losses))/expected
}

// Protector rewards keeping the boss from losing and, secondarily, making
// the player lose.
func Protector(s genome.Stats, games int) float64 {
	expected := ExpectedLossRate * float64(games)
	return PrimaryWeight*(expected-float64(s.BossLosses))/expected +
		BonusWeight*(float64(s.PlayerLosses)-expected)/expected
}

// For returns the formula a personality is ranked by.
func For(p engine.Personality) Formula {
	if p.IsProtector() {
		return Protector
	}
	return Default
}

// Objective scores g from its statistics of the last round. A genome that
// played no games scores zero.
func Objective(g *genome.Genome) float64 {
	games := g.Games()
	if games == 0 {
		return 0
	}
	return For(g.Personality)(g.Stats, games)
}

// Score sets the objective of every genome in pool.
func Score(pool *genome.Pool) {
	for _, g := range pool.Genomes {
		g.Stats.Objective = Objective(g)
	}
}
