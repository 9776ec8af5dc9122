package genome

import (
	"math"
	"math/rand"
	"sort"

	"github.com/signalnine/thirtyone/engine"
)

// Pool is the population of one personality.
type Pool struct {
	Personality engine.Personality
	Genomes     []*Genome
}

// NewPool creates size founder genomes of personality p.
func NewPool(reg *Registry, p engine.Personality, size, hiddenSize int, rng *rand.Rand) *Pool {
	pool := &Pool{Personality: p, Genomes: make([]*Genome, size)}
	for i := range pool.Genomes {
		pool.Genomes[i] = New(reg, p, hiddenSize, rng)
	}
	return pool
}

// Size returns the number of genomes in the pool.
func (p *Pool) Size() int {
	return len(p.Genomes)
}

// Best returns the genome with the highest objective.
func (p *Pool) Best() *Genome {
	if len(p.Genomes) == 0 {
		return nil
	}
	best := p.Genomes[0]
	for _, g := range p.Genomes[1:] {
		if g.Stats.Objective > best.Stats.Objective {
			best = g
		}
	}
	return best
}

// AverageObjective returns the mean objective of the pool.
func (p *Pool) AverageObjective() float64 {
	if len(p.Genomes) == 0 {
		return 0
	}
	var sum float64
	for _, g := range p.Genomes {
		sum += g.Stats.Objective
	}
	return sum / float64(len(p.Genomes))
}

// SortByObjective orders the pool by descending objective, keeping the
// previous order among ties.
func (p *Pool) SortByObjective() {
	sort.SliceStable(p.Genomes, func(i, j int) bool {
		return p.Genomes[i].Stats.Objective > p.Genomes[j].Stats.Objective
	})
}

// Diversity is the mean parameter distance between genome pairs. Small pools
// check all pairs, larger ones a sample of 100.
func (p *Pool) Diversity(rng *rand.Rand) float64 {
	n := len(p.Genomes)
	if n < 2 {
		return 0
	}
	var total float64
	pairs := 0
	if n <= 50 {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				total += Distance(p.Genomes[i], p.Genomes[j])
				pairs++
			}
		}
	} else {
		for k := 0; k < 100; k++ {
			i := rng.Intn(n)
			j := rng.Intn(n)
			if i == j {
				j = (i + 1) % n
			}
			total += Distance(p.Genomes[i], p.Genomes[j])
			pairs++
		}
	}
	return total / float64(pairs)
}

// Distance is the root mean square difference between two genomes'
// parameters. Genomes without networks are at distance 0.
func Distance(a, b *Genome) float64 {
	if a.Net == nil || b.Net == nil {
		return 0
	}
	ga, gb := a.Net.Groups(), b.Net.Groups()
	if len(ga) != len(gb) {
		return math.Inf(1)
	}
	var sum float64
	count := 0
	for i := range ga {
		if len(ga[i]) != len(gb[i]) {
			return math.Inf(1)
		}
		for j := range ga[i] {
			d := float64(ga[i][j] - gb[i][j])
			sum += d * d
		}
		count += len(ga[i])
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(count))
}

// Roster is every pool of a session, at most one per personality, in
// personality order.
type Roster struct {
	Pools []*Pool
}

// Pool returns the pool of personality p, or nil.
func (r *Roster) Pool(p engine.Personality) *Pool {
	for _, pool := range r.Pools {
		if pool.Personality == p {
			return pool
		}
	}
	return nil
}

// Has reports whether the roster contains personality p.
func (r *Roster) Has(p engine.Personality) bool {
	return r.Pool(p) != nil
}

// Genomes lists every genome of every pool.
func (r *Roster) Genomes() []*Genome {
	var out []*Genome
	for _, pool := range r.Pools {
		out = append(out, pool.Genomes...)
	}
	return out
}

// NewRoster creates one pool of size genomes per personality.
func NewRoster(reg *Registry, personalities []engine.Personality, size, hiddenSize int, rng *rand.Rand) *Roster {
	r := &Roster{}
	for _, p := range personalities {
		r.Pools = append(r.Pools, NewPool(reg, p, size, hiddenSize, rng))
	}
	sort.SliceStable(r.Pools, func(i, j int) bool {
		return r.Pools[i].Personality < r.Pools[j].Personality
	})
	return r
}

// Ensure returns the pool of personality p, adding an empty one in
// personality order if the roster has none.
func (r *Roster) Ensure(p engine.Personality) *Pool {
	if pool := r.Pool(p); pool != nil {
		return pool
	}
	pool := &Pool{Personality: p}
	i := sort.Search(len(r.Pools), func(i int) bool { return r.Pools[i].Personality > p })
	r.Pools = append(r.Pools, nil)
	copy(r.Pools[i+1:], r.Pools[i:])
	r.Pools[i] = pool
	return pool
}
