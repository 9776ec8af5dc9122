package genome

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/thirtyone/engine"
)

const testHidden = 8

func seated(g *Genome, seat, games int) {
	g.GamesPerSeat[seat] = games
	g.Reset(seat)
}

func TestRegistrySerialsAreUnique(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, uint64(1), reg.Next())
	assert.Equal(t, uint64(2), reg.Next())
	reg.Observe(40)
	assert.Equal(t, uint64(41), reg.Next())
	reg.Observe(3)
	assert.Equal(t, uint64(42), reg.Next())
}

func TestStemRoundTrip(t *testing.T) {
	g := Restore(engine.Illusionist, 17, 12, 9, nil)
	assert.Equal(t, "illusionist_17_12_9", g.Stem())

	lin, err := ParseStem(g.Stem())
	require.NoError(t, err)
	assert.Equal(t, Lineage{Personality: engine.Illusionist, Serial: 17, Mother: 12, Father: 9}, lin)

	for _, bad := range []string{"A_1_2", "wizard_1_2_3", "A_x_2_3", "A_1_2_3_4"} {
		_, err := ParseStem(bad)
		assert.Error(t, err, bad)
	}
}

func TestEvaluateNeuralFillsOutputs(t *testing.T) {
	reg := NewRegistry()
	g := New(reg, engine.Normal1, testHidden, rand.New(rand.NewSource(1)))
	require.NotNil(t, g.Net)
	seated(g, 2, 3)
	g.View(2, 1)[5] = 1
	g.Cycle(2)
	assert.Equal(t, float32(1), g.Batch(2, 1)[5])

	require.NoError(t, g.Evaluate(2))
	for slot := 0; slot < 3; slot++ {
		for _, v := range g.Action(2, slot) {
			assert.Greater(t, v, float32(0))
		}
	}
}

func TestEvaluateScripted(t *testing.T) {
	reg := NewRegistry()

	dummy := New(reg, engine.Dummy, testHidden, nil)
	assert.Nil(t, dummy.Net)
	seated(dummy, 0, 2)
	require.NoError(t, dummy.Evaluate(0))
	for _, v := range dummy.Action(0, 1) {
		assert.Zero(t, v)
	}

	drunk := New(reg, engine.Drunk, testHidden, nil)
	drunk.Reseed(5)
	seated(drunk, 1, 2)
	require.NoError(t, drunk.Evaluate(1))
	nonzero := 0
	for _, v := range drunk.Action(1, 0) {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
		if v > 0 {
			nonzero++
		}
	}
	assert.Greater(t, nonzero, 0)
}

func TestEvaluateMissingNetworkPasses(t *testing.T) {
	g := Restore(engine.Normal2, 3, 0, 0, nil)
	seated(g, 0, 1)
	require.NoError(t, g.Evaluate(0))
	for _, v := range g.Action(0, 0) {
		assert.Zero(t, v)
	}
}

func TestEvaluateEmptySeat(t *testing.T) {
	g := New(NewRegistry(), engine.Normal3, testHidden, rand.New(rand.NewSource(2)))
	g.Reset(3)
	assert.NoError(t, g.Evaluate(3))
}

func TestResetClearsBuffers(t *testing.T) {
	g := New(NewRegistry(), engine.Normal1, testHidden, rand.New(rand.NewSource(3)))
	seated(g, 0, 2)
	g.View(0, 1)[0] = 1
	g.Reset(0)
	assert.Zero(t, g.View(0, 1)[0])
	assert.Len(t, g.View(0, 1), engine.ViewSize)
	assert.Len(t, g.Action(0, 1), engine.ActionSize)
}

func TestMutationLineage(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(4))
	mother := New(reg, engine.Spy, testHidden, rng)
	father := New(reg, engine.Spy, testHidden, rng)

	m := mother.MakeMutation(reg, 0.05, rng)
	assert.Equal(t, mother.Serial, m.Mother)
	assert.Zero(t, m.Father)
	assert.Greater(t, m.Serial, father.Serial)
	assert.NotSame(t, mother.Net, m.Net)
	assert.Equal(t, engine.Spy, m.Personality)

	o := mother.MakeOffspringWith(reg, father, rng)
	assert.Equal(t, mother.Serial, o.Mother)
	assert.Equal(t, father.Serial, o.Father)
	assert.Greater(t, o.Serial, m.Serial)
	assert.NotSame(t, mother.Net, o.Net)
	assert.Zero(t, o.Stats)
}

func TestCorrelationAccumulates(t *testing.T) {
	g := New(NewRegistry(), engine.Normal1, testHidden, rand.New(rand.NewSource(6)))
	g.EnableCorrelation()
	seated(g, 0, 1)
	g.View(0, 0)[7] = 1
	g.Cycle(0)
	require.NoError(t, g.Evaluate(0))

	corr := g.Correlation()
	require.Len(t, corr, engine.ActionSize*engine.ViewSize)
	assert.InDelta(t, float64(g.Action(0, 0)[3]), corr[3*engine.ViewSize+7], 1e-6)
	assert.Zero(t, corr[3*engine.ViewSize+8])

	g.DisableCorrelation()
	assert.Nil(t, g.Correlation())
	require.NoError(t, g.Evaluate(0))
	assert.Nil(t, g.Correlation())
}

func TestClearRoundDropsCorrelation(t *testing.T) {
	g := New(NewRegistry(), engine.Normal1, testHidden, rand.New(rand.NewSource(6)))
	g.EnableCorrelation()
	seated(g, 0, 1)
	g.View(0, 0)[7] = 1
	g.Cycle(0)
	require.NoError(t, g.Evaluate(0))
	require.NotNil(t, g.Correlation())

	g.ClearRound()
	assert.Nil(t, g.Correlation())
	assert.Zero(t, g.Games())
}

func TestPoolSortAndDiversity(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(7))
	pool := NewPool(reg, engine.Normal1, 5, testHidden, rng)
	for i, g := range pool.Genomes {
		g.Stats.Objective = float64(i % 3)
	}
	pool.SortByObjective()
	assert.Equal(t, 2.0, pool.Genomes[0].Stats.Objective)
	assert.Equal(t, 0.0, pool.Genomes[4].Stats.Objective)
	assert.Same(t, pool.Best(), pool.Genomes[0])
	assert.InDelta(t, 0.8, pool.AverageObjective(), 1e-9)

	assert.Greater(t, pool.Diversity(rng), 0.0)
	assert.Zero(t, Distance(pool.Genomes[0], pool.Genomes[0]))
}

func personalitiesOf(r *Roster) []engine.Personality {
	var out []engine.Personality
	for _, pool := range r.Pools {
		out = append(out, pool.Personality)
	}
	return out
}

func TestRosterOrder(t *testing.T) {
	reg := NewRegistry()
	r := NewRoster(reg, []engine.Personality{engine.Goon, engine.Normal1, engine.Boss}, 2, testHidden, rand.New(rand.NewSource(8)))
	assert.Equal(t, []engine.Personality{engine.Normal1, engine.Goon, engine.Boss}, personalitiesOf(r))
	assert.True(t, r.Has(engine.Boss))
	assert.False(t, r.Has(engine.Spy))
	assert.Len(t, r.Genomes(), 6)
}

func TestRosterEnsureKeepsOrder(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(1))
	r := NewRoster(reg, []engine.Personality{engine.Boss, engine.Normal1}, 1, testHidden, rng)

	spy := r.Ensure(engine.Spy)
	assert.Empty(t, spy.Genomes)
	assert.Same(t, spy, r.Ensure(engine.Spy))
	assert.Same(t, r.Pool(engine.Boss), r.Ensure(engine.Boss))
	r.Ensure(engine.Empty)

	assert.Equal(t, []engine.Personality{engine.Normal1, engine.Spy, engine.Boss, engine.Empty}, personalitiesOf(r))
}
