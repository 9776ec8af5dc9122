package simulation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/thirtyone/engine"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.GamesPerGenome = 4
	cfg.Workers = 3
	return cfg
}

func TestPlayRound(t *testing.T) {
	roster := testRoster(t, 5,
		engine.Normal1, engine.Normal2, engine.Normal3, engine.Drunk, engine.Spy,
		engine.Player, engine.Greedy, engine.Dummy, engine.Boss, engine.Goon, engine.Duelist)
	cfg := smallConfig()
	cfg.Correlate = true

	res, err := Play(3, roster, cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Round)
	assert.Positive(t, res.Games)
	assert.LessOrEqual(t, res.Turns, cfg.MaxTurnsPerPlayer*engine.NumSeats)

	losses, seats := 0, 0
	for _, g := range roster.Genomes() {
		losses += g.Stats.Losses
		seats += g.Games()
		assert.GreaterOrEqual(t, g.Stats.TurnsPlayed, g.Games())
		assert.LessOrEqual(t, g.Stats.TurnsPlayed, g.Games()*(cfg.MaxTurnsPerPlayer+1))
		assert.InDelta(t, g.Stats.HandValue, g.Stats.LosingHandValue+g.Stats.SurvivingHandValue, 1e-6)
		if g.Net != nil && g.Games() > 0 {
			assert.NotNil(t, g.Correlation())
		}
	}
	// Every game has at least one loser among its present seats.
	assert.GreaterOrEqual(t, losses, res.Games)
	// Duel games leave two seats absent.
	assert.Equal(t, res.Games*engine.NumSeats-2*cfg.GamesPerGenome, seats)
}

func TestPlayWithoutCorrelateDropsEarlierMatrix(t *testing.T) {
	roster := testRoster(t, 5, engine.Normal1, engine.Normal2, engine.Normal3, engine.Greedy)
	cfg := smallConfig()
	cfg.Correlate = true
	_, err := Play(0, roster, cfg, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	correlated := 0
	for _, g := range roster.Genomes() {
		if g.Correlation() != nil {
			correlated++
		}
	}
	require.Positive(t, correlated)

	cfg.Correlate = false
	_, err = Play(1, roster, cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	for _, g := range roster.Genomes() {
		assert.Nil(t, g.Correlation(), g.Stem())
	}
}

func TestPlayIsDeterministic(t *testing.T) {
	run := func() []float64 {
		roster := testRoster(t, 5, engine.Normal1, engine.Normal2, engine.Drunk, engine.Greedy)
		_, err := Play(0, roster, smallConfig(), rand.New(rand.NewSource(9)))
		require.NoError(t, err)
		var out []float64
		for _, g := range roster.Genomes() {
			out = append(out, g.Stats.HandValue, float64(g.Stats.Losses))
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestPlayEmptyRoster(t *testing.T) {
	roster := testRoster(t, 0, engine.Normal1)
	res, err := Play(0, roster, smallConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Zero(t, res.Games)
}

func TestDecideSingle(t *testing.T) {
	roster := testRoster(t, 1, engine.Normal1)
	net := roster.Pools[0].Genomes[0].Net

	seats := [engine.NumSeats]engine.Personality{engine.Normal1, engine.Player, engine.Normal2, engine.Normal3}
	s := playedState(t, 13, seats)
	view := make([]float32, engine.ViewSize)
	BuildView(view, s, seats, [engine.NumSeats]bool{}, 0)

	d, err := DecideSingle(net, view)
	require.NoError(t, err)
	if !d.WantsToPass {
		assert.True(t, s.OnTable(d.TableCard))
		assert.True(t, s.Holds(0, d.OwnCard))
		assert.False(t, d.WantsToSwap)
	}

	output := make([]float32, engine.ActionSize)
	require.NoError(t, net.Forward(view, 1, output))
	mv := DecodeState(output, s, 0)
	assert.Equal(t, mv.Pass, d.WantsToPass)

	_, err = DecideSingle(net, view[:10])
	assert.Error(t, err)
}

func TestForEachGame(t *testing.T) {
	hits := make([]int, 97)
	require.NoError(t, forEachGame(len(hits), 4, func(i int) error {
		hits[i]++
		return nil
	}))
	for _, h := range hits {
		assert.Equal(t, 1, h)
	}

	err := forEachGame(10, 2, func(i int) error {
		if i == 6 {
			return engine.ErrIllegalMove
		}
		return nil
	})
	assert.ErrorIs(t, err, engine.ErrIllegalMove)
}
