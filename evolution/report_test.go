package evolution

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/genome"
)

func TestSummarizeUsesPoolBestAndAverage(t *testing.T) {
	pool := rankedPool(t, genome.NewRegistry(), engine.Normal1, 5)
	for _, g := range pool.Genomes {
		g.GamesPerSeat[0] = 4
		g.Stats.Losses = 1
		g.Stats.HandValue = 80
		g.Stats.TurnsPlayed = 8
	}

	sum, standings := Summarize(pool, rand.New(rand.NewSource(1)))
	require.Len(t, standings, 5)
	assert.Equal(t, pool.Best().Stem(), sum.Best.Stem)
	assert.Equal(t, 0, sum.Best.Rank)
	assert.InDelta(t, pool.AverageObjective(), sum.Objective, 1e-9)
	assert.InDelta(t, 3.0, sum.Objective, 1e-9)
	assert.Equal(t, 20, sum.Games)
	assert.InDelta(t, 0.75, sum.Survival, 1e-9)
	assert.InDelta(t, 20.0, sum.HandValue, 1e-9)
	assert.InDelta(t, 2.0, sum.Turns, 1e-9)
	assert.Positive(t, sum.Diversity)
	for i, s := range standings {
		assert.Equal(t, i, s.Rank)
	}
}

func TestSummarizeScriptedPoolHasNoDiversity(t *testing.T) {
	pool := genome.NewPool(genome.NewRegistry(), engine.Greedy, 3, testHidden, rand.New(rand.NewSource(1)))
	sum, standings := Summarize(pool, rand.New(rand.NewSource(1)))
	assert.Zero(t, sum.Diversity)
	assert.Zero(t, sum.Games)
	assert.Zero(t, sum.Survival)
	assert.Len(t, standings, 3)
	assert.True(t, strings.HasSuffix(standings[0].String(), "did not play any games"))
}

func TestSummarizeEmptyPool(t *testing.T) {
	sum, standings := Summarize(&genome.Pool{Personality: engine.Spy}, rand.New(rand.NewSource(1)))
	assert.Empty(t, standings)
	assert.Zero(t, sum.Objective)
	assert.Empty(t, sum.Best.Stem)
}

func TestRoundRecordsDiversity(t *testing.T) {
	tr := NewTrainer(testConfig(), nil, nil)
	tr.Initialize()
	stats, err := tr.Step(t.Context())
	require.NoError(t, err)

	found := false
	for _, sum := range stats.Summaries {
		if sum.Personality == engine.Normal1 {
			found = true
			assert.Positive(t, sum.Diversity)
		}
		if !sum.Personality.IsNeural() {
			assert.Zero(t, sum.Diversity)
		}
	}
	assert.True(t, found)
}
