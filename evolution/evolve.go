package evolution

import (
	"math"
	"math/rand"

	"github.com/signalnine/thirtyone/genome"
)

// Replacement counts the slots EvolvePool refilled, by origin.
type Replacement struct {
	Mutations int
	Offspring int
	Spliced   int
}

// Total returns how many genomes were replaced.
func (r Replacement) Total() int {
	return r.Mutations + r.Offspring + r.Spliced
}

// Deviation is the mutation magnitude of a round. It anneals from baseRate.
func Deviation(baseRate float64, round int) float64 {
	return baseRate / math.Sqrt(float64(round+1))
}

// EvolvePool replaces the weakest genomes of a pool sorted by descending
// objective. Slots are refilled from the bottom up with mutations of the top
// fifth, then offspring of the top and second fifths, then offspring of the
// slot's own genome with the top fifth. Refilling stops before it reaches
// the first slot of the third fifth, so the top two fifths and that slot
// survive unchanged. Replaced genomes are discarded, never modified.
func EvolvePool(pool *genome.Pool, reg *genome.Registry, deviation float64, rng *rand.Rand) Replacement {
	var r Replacement
	if !pool.Personality.IsTrainable() {
		return r
	}
	n := pool.Size()
	chunk := n / 5
	if chunk == 0 {
		return r
	}
	gs := pool.Genomes
	i := n - 1
	for k := 0; k < chunk && i > 2*chunk; k, i = k+1, i-1 {
		gs[i] = gs[k].MakeMutation(reg, deviation, rng)
		r.Mutations++
	}
	for k := 0; k < chunk && i > 2*chunk; k, i = k+1, i-1 {
		gs[i] = gs[k].MakeOffspringWith(reg, gs[chunk+k], rng)
		r.Offspring++
	}
	for k := 0; k < chunk && i > 2*chunk; k, i = k+1, i-1 {
		gs[i] = gs[i].MakeOffspringWith(reg, gs[k], rng)
		r.Spliced++
	}
	return r
}
