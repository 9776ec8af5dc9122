package fitness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/genome"
)

func played(p engine.Personality, games int, s genome.Stats) *genome.Genome {
	g := genome.Restore(p, 1, 0, 0, nil)
	g.GamesPerSeat[0] = games
	g.Stats = s
	return g
}

func TestObjectiveNoGames(t *testing.T) {
	g := played(engine.Normal1, 0, genome.Stats{Losses: 3, HandValue: 90})
	assert.Zero(t, Objective(g))
}

func TestDefaultObjective(t *testing.T) {
	tests := []struct {
		name   string
		stats  genome.Stats
		expect float64
	}{
		// Baseline hands and the expected loss count score zero.
		{"baseline", genome.Stats{HandValue: 15 * 40, Losses: 10}, 0},
		{"good hands", genome.Stats{HandValue: 30 * 40, Losses: 10}, 1000},
		{"never loses", genome.Stats{HandValue: 15 * 40, Losses: 0}, 100},
		{"always loses", genome.Stats{HandValue: 15 * 40, Losses: 40}, -300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := played(engine.Normal2, 40, tt.stats)
			assert.InDelta(t, tt.expect, Objective(g), 1e-9)
		})
	}
}

func TestProtectorObjective(t *testing.T) {
	// The goon's own hand value and losses do not count.
	s := genome.Stats{HandValue: 0, Losses: 40, BossLosses: 0, PlayerLosses: 20}
	g := played(engine.Goon, 40, s)
	assert.InDelta(t, 1000+100, Objective(g), 1e-9)

	s = genome.Stats{BossLosses: 10, PlayerLosses: 10}
	g = played(engine.Goon, 40, s)
	assert.InDelta(t, 0, Objective(g), 1e-9)
}

func TestFormulaSelection(t *testing.T) {
	s := genome.Stats{HandValue: 300, Losses: 5, BossLosses: 2, PlayerLosses: 7}
	assert.InDelta(t, Protector(s, 20), For(engine.Goon)(s, 20), 1e-9)
	assert.InDelta(t, Default(s, 20), For(engine.Boss)(s, 20), 1e-9)
	assert.InDelta(t, Default(s, 20), For(engine.Spy)(s, 20), 1e-9)
}

func TestScoreSetsPoolObjectives(t *testing.T) {
	pool := &genome.Pool{Personality: engine.Normal1, Genomes: []*genome.Genome{
		played(engine.Normal1, 4, genome.Stats{HandValue: 120, Losses: 0}),
		played(engine.Normal1, 0, genome.Stats{}),
	}}
	Score(pool)
	assert.InDelta(t, 1100, pool.Genomes[0].Stats.Objective, 1e-9)
	assert.Zero(t, pool.Genomes[1].Stats.Objective)
}
