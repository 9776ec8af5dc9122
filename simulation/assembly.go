package simulation

import (
	"math/rand"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/genome"
)

// StandInWeight is the relative chance that a stand-in personality takes the
// stand-in seat of a game.
type StandInWeight struct {
	Personality engine.Personality
	Weight      float64
}

// DefaultStandIns gives the player, greedy and dummy stand-ins equal weight.
func DefaultStandIns() []StandInWeight {
	return []StandInWeight{
		{Personality: engine.Player, Weight: 1},
		{Personality: engine.Greedy, Weight: 1},
		{Personality: engine.Dummy, Weight: 1},
	}
}

// AssemblyConfig controls how many games a round builds.
type AssemblyConfig struct {
	// GamesPerGenome scales the number of games of every kind.
	GamesPerGenome int
	StandIns       []StandInWeight
}

// Lineup is the assembled round: all games plus every genome seated in at
// least one of them.
type Lineup struct {
	Games   []*Game
	Genomes []*genome.Genome
}

type assembler struct {
	roster   *genome.Roster
	rng      *rand.Rand
	absent   *genome.Genome
	standIns []StandInWeight
	total    float64
	normals  []engine.Personality
	seen     map[*genome.Genome]bool
	lineup   *Lineup
}

// Assemble builds the games of one round. Every game has a stand-in seat. Goon
// games seat a boss and two goons, duel games a duelist and two absent seats,
// and normal games three distinct normal personalities. Players are shuffled
// across seats and each receives its slot in its genome's batch for that
// seat. Occupancy counts must be cleared beforehand.
func Assemble(roster *genome.Roster, cfg AssemblyConfig, rng *rand.Rand) *Lineup {
	a := &assembler{
		roster: roster,
		rng:    rng,
		seen:   make(map[*genome.Genome]bool),
		lineup: &Lineup{},
	}
	if pool := roster.Pool(engine.Empty); pool != nil && pool.Size() > 0 {
		a.absent = pool.Genomes[0]
	} else {
		a.absent = genome.Restore(engine.Empty, 0, 0, 0, nil)
	}
	for _, w := range cfg.StandIns {
		if w.Weight > 0 && roster.Has(w.Personality) && roster.Pool(w.Personality).Size() > 0 {
			a.standIns = append(a.standIns, w)
			a.total += w.Weight
		}
	}
	numNormalSeats := 0
	for _, pool := range roster.Pools {
		if pool.Personality.Role() == engine.RoleNormal && pool.Size() > 0 {
			a.normals = append(a.normals, pool.Personality)
			numNormalSeats += pool.Size() * cfg.GamesPerGenome
		}
	}

	if a.has(engine.Boss) && a.has(engine.Goon) {
		for i := 0; i < cfg.GamesPerGenome; i++ {
			a.add([engine.NumSeats]*genome.Genome{
				a.standIn(), a.draw(engine.Boss), a.draw(engine.Goon), a.draw(engine.Goon),
			})
		}
	}
	if a.has(engine.Duelist) {
		for i := 0; i < cfg.GamesPerGenome; i++ {
			a.add([engine.NumSeats]*genome.Genome{
				a.standIn(), a.draw(engine.Duelist), a.absent, a.absent,
			})
		}
	}
	numNormalGames := numNormalSeats / (engine.NumSeats - 1)
	for i := 0; i < numNormalGames; i++ {
		players := [engine.NumSeats]*genome.Genome{a.standIn(), a.absent, a.absent, a.absent}
		a.rng.Shuffle(len(a.normals), func(i, j int) {
			a.normals[i], a.normals[j] = a.normals[j], a.normals[i]
		})
		for s := 1; s < engine.NumSeats && s-1 < len(a.normals); s++ {
			players[s] = a.draw(a.normals[s-1])
		}
		a.add(players)
	}
	return a.lineup
}

func (a *assembler) has(p engine.Personality) bool {
	pool := a.roster.Pool(p)
	return pool != nil && pool.Size() > 0
}

// draw picks a genome of personality p uniformly.
func (a *assembler) draw(p engine.Personality) *genome.Genome {
	pool := a.roster.Pool(p)
	return pool.Genomes[a.rng.Intn(pool.Size())]
}

func (a *assembler) standIn() *genome.Genome {
	if len(a.standIns) == 0 {
		return a.absent
	}
	x := a.rng.Float64() * a.total
	for _, w := range a.standIns {
		if x < w.Weight {
			return a.draw(w.Personality)
		}
		x -= w.Weight
	}
	return a.draw(a.standIns[len(a.standIns)-1].Personality)
}

func (a *assembler) add(players [engine.NumSeats]*genome.Genome) {
	a.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
	game := &Game{Seed: a.rng.Int63()}
	for s, g := range players {
		game.Players[s] = Player{
			Genome:     g,
			Slot:       g.GamesPerSeat[s],
			TurnOfPass: -1,
		}
		g.GamesPerSeat[s]++
		if !a.seen[g] {
			a.seen[g] = true
			a.lineup.Genomes = append(a.lineup.Genomes, g)
		}
	}
	a.lineup.Games = append(a.lineup.Games, game)
}
