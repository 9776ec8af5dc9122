package simulation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/genome"
)

const testHidden = 8

func testRoster(t *testing.T, size int, personalities ...engine.Personality) *genome.Roster {
	t.Helper()
	return genome.NewRoster(genome.NewRegistry(), personalities, size, testHidden, rand.New(rand.NewSource(1)))
}

func TestAssembleCounts(t *testing.T) {
	roster := testRoster(t, 5,
		engine.Normal1, engine.Normal2, engine.Normal3, engine.Fool,
		engine.Player, engine.Greedy, engine.Dummy,
		engine.Boss, engine.Goon, engine.Duelist)
	cfg := AssemblyConfig{GamesPerGenome: 6, StandIns: DefaultStandIns()}
	lineup := Assemble(roster, cfg, rand.New(rand.NewSource(2)))

	// 6 goon games, 6 duel games and 5*6*4/3 normal games.
	require.Len(t, lineup.Games, 6+6+40)

	var bosses, duelists, empties int
	for _, game := range lineup.Games {
		standIns := 0
		seen := make(map[engine.Personality]bool)
		for _, p := range game.Personalities() {
			switch {
			case p.IsHumanLike():
				standIns++
			case p == engine.Boss:
				bosses++
			case p == engine.Duelist:
				duelists++
			case p == engine.Empty:
				empties++
			case p.Role() == engine.RoleNormal:
				assert.False(t, seen[p], "normal personality %s seated twice", p)
				seen[p] = true
			}
		}
		assert.Equal(t, 1, standIns)
	}
	assert.Equal(t, 6, bosses)
	assert.Equal(t, 6, duelists)
	assert.Equal(t, 12, empties)
}

func TestAssembleSlotsAreUnique(t *testing.T) {
	roster := testRoster(t, 3, engine.Normal1, engine.Normal2, engine.Greedy)
	lineup := Assemble(roster, AssemblyConfig{GamesPerGenome: 9, StandIns: DefaultStandIns()}, rand.New(rand.NewSource(3)))

	type key struct {
		g    *genome.Genome
		seat int
		slot int
	}
	used := make(map[key]bool)
	for _, game := range lineup.Games {
		for s, p := range game.Players {
			k := key{p.Genome, s, p.Slot}
			assert.False(t, used[k])
			used[k] = true
			assert.Less(t, p.Slot, p.Genome.GamesPerSeat[s])
		}
	}
	total := 0
	for _, g := range lineup.Genomes {
		total += g.Games()
	}
	assert.Equal(t, len(lineup.Games)*engine.NumSeats, total)
}

func TestAssembleWithoutStandIns(t *testing.T) {
	roster := testRoster(t, 2, engine.Normal1, engine.Normal2, engine.Normal3)
	lineup := Assemble(roster, AssemblyConfig{GamesPerGenome: 3, StandIns: DefaultStandIns()}, rand.New(rand.NewSource(4)))
	require.Len(t, lineup.Games, 6)
	for _, game := range lineup.Games {
		absent := 0
		for _, p := range game.Personalities() {
			if p.IsAbsent() {
				absent++
			}
		}
		assert.Equal(t, 1, absent)
	}
}

func TestAssembleStandInWeights(t *testing.T) {
	roster := testRoster(t, 2, engine.Normal1, engine.Player, engine.Dummy)
	cfg := AssemblyConfig{
		GamesPerGenome: 30,
		StandIns:       []StandInWeight{{Personality: engine.Player, Weight: 0}, {Personality: engine.Dummy, Weight: 1}},
	}
	lineup := Assemble(roster, cfg, rand.New(rand.NewSource(5)))
	require.NotEmpty(t, lineup.Games)
	for _, game := range lineup.Games {
		for _, p := range game.Personalities() {
			assert.NotEqual(t, engine.Player, p)
		}
	}
}
