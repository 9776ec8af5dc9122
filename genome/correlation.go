package genome

import (
	"github.com/signalnine/thirtyone/engine"
)

// EnableCorrelation starts accumulating output x input products on every
// evaluation until DisableCorrelation. The matrix is cleared.
func (g *Genome) EnableCorrelation() {
	if g.correlation == nil {
		g.correlation = make([]float64, engine.ActionSize*engine.ViewSize)
	} else {
		for i := range g.correlation {
			g.correlation[i] = 0
		}
	}
	g.correlating = true
}

// DisableCorrelation stops accumulation and drops the matrix.
func (g *Genome) DisableCorrelation() {
	g.correlating = false
	g.correlation = nil
}

// Correlation returns the matrix accumulated this round, ActionSize rows of
// ViewSize columns, or nil if the round did not correlate.
func (g *Genome) Correlation() []float64 {
	return g.correlation
}

func (g *Genome) accumulateCorrelation(seat, rows int) {
	for r := 0; r < rows; r++ {
		in, out := g.Batch(seat, r), g.Action(seat, r)
		for o, y := range out {
			row := g.correlation[o*engine.ViewSize : (o+1)*engine.ViewSize]
			for i, x := range in {
				if x != 0 {
					row[i] += float64(y * x)
				}
			}
		}
	}
}
