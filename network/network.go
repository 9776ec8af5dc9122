// Package network implements the dense evaluator that neural genomes use to
// score actions. Parameters are grouped per layer (weights, then bias) and the
// evolutionary operators work on whole groups.
package network

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// NumHiddenLayers is the number of rectified-linear layers before the output.
const NumHiddenLayers = 4

// Layer is one dense layer. Weights are stored input-major, shape (In, Out),
// so a batch of row vectors multiplies on the left.
type Layer struct {
	In      int
	Out     int
	Weights []float32
	Bias    []float32
}

// Network maps a batch of perspective rows to a batch of action scores in (0, 1).
type Network struct {
	layers []Layer
}

// New builds a network with NumHiddenLayers hidden layers of the given width.
// Parameters are drawn uniformly from ±1/sqrt(fan-in).
func New(inputSize, hiddenSize, outputSize int, rng *rand.Rand) *Network {
	sizes := []int{inputSize}
	for i := 0; i < NumHiddenLayers; i++ {
		sizes = append(sizes, hiddenSize)
	}
	sizes = append(sizes, outputSize)

	n := &Network{layers: make([]Layer, len(sizes)-1)}
	for i := range n.layers {
		in, out := sizes[i], sizes[i+1]
		bound := 1 / math.Sqrt(float64(in))
		l := Layer{
			In:      in,
			Out:     out,
			Weights: make([]float32, in*out),
			Bias:    make([]float32, out),
		}
		for j := range l.Weights {
			l.Weights[j] = float32((2*rng.Float64() - 1) * bound)
		}
		for j := range l.Bias {
			l.Bias[j] = float32((2*rng.Float64() - 1) * bound)
		}
		n.layers[i] = l
	}
	return n
}

// InputSize is the width of one perspective row.
func (n *Network) InputSize() int { return n.layers[0].In }

// OutputSize is the width of one action row.
func (n *Network) OutputSize() int { return n.layers[len(n.layers)-1].Out }

// Layers exposes the layers for persistence and diagnostics. Callers must not
// resize the returned slices.
func (n *Network) Layers() []Layer { return n.layers }

// Forward evaluates rows perspective vectors packed row-major in input and
// writes rows action vectors into output.
func (n *Network) Forward(input []float32, rows int, output []float32) error {
	if rows == 0 {
		return nil
	}
	if len(input) < rows*n.InputSize() || len(output) < rows*n.OutputSize() {
		return errors.Errorf("forward: buffers too small for %d rows", rows)
	}
	x := tensor.New(tensor.WithShape(rows, n.InputSize()), tensor.WithBacking(input[:rows*n.InputSize()]))
	last := len(n.layers) - 1
	for i, l := range n.layers {
		w := tensor.New(tensor.WithShape(l.In, l.Out), tensor.WithBacking(l.Weights))
		y, err := x.MatMul(w)
		if err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
		data := y.Data().([]float32)
		for r := 0; r < rows; r++ {
			row := data[r*l.Out : (r+1)*l.Out]
			for j := range row {
				v := row[j] + l.Bias[j]
				if i == last {
					row[j] = sigmoid(v)
				} else if v < 0 {
					row[j] = 0
				} else {
					row[j] = v
				}
			}
		}
		x = y
	}
	copy(output, x.Data().([]float32))
	return nil
}

func sigmoid(v float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(v))))
}

// Groups returns every parameter group in order: weights then bias per layer.
// The slices alias the network's storage.
func (n *Network) Groups() [][]float32 {
	groups := make([][]float32, 0, 2*len(n.layers))
	for i := range n.layers {
		groups = append(groups, n.layers[i].Weights, n.layers[i].Bias)
	}
	return groups
}

// Clone deep-copies all parameters.
func (n *Network) Clone() *Network {
	c := &Network{layers: make([]Layer, len(n.layers))}
	for i, l := range n.layers {
		c.layers[i] = Layer{
			In:      l.In,
			Out:     l.Out,
			Weights: append([]float32(nil), l.Weights...),
			Bias:    append([]float32(nil), l.Bias...),
		}
	}
	return c
}

// Mutate adds gaussian noise of standard deviation deviation to every value of
// a random half of the parameter groups.
func (n *Network) Mutate(deviation float64, rng *rand.Rand) {
	groups := n.Groups()
	for _, g := range pickHalf(len(groups), rng) {
		group := groups[g]
		for i := range group {
			group[i] += float32(rng.NormFloat64() * deviation)
		}
	}
}

// SpliceWith replaces a random half of the parameter groups with the donor's.
// It panics if the two networks do not share one architecture.
func (n *Network) SpliceWith(donor *Network, rng *rand.Rand) {
	if err := n.sameShape(donor); err != nil {
		panic(err)
	}
	groups, donorGroups := n.Groups(), donor.Groups()
	for _, g := range pickHalf(len(groups), rng) {
		copy(groups[g], donorGroups[g])
	}
}

func (n *Network) sameShape(other *Network) error {
	if len(n.layers) != len(other.layers) {
		return fmt.Errorf("splice: %d layers vs %d", len(n.layers), len(other.layers))
	}
	for i := range n.layers {
		a, b := n.layers[i], other.layers[i]
		if a.In != b.In || a.Out != b.Out {
			return fmt.Errorf("splice: layer %d is %dx%d vs %dx%d", i, a.In, a.Out, b.In, b.Out)
		}
	}
	return nil
}

// pickHalf returns a random half of the indices [0, count).
func pickHalf(count int, rng *rand.Rand) []int {
	return rng.Perm(count)[:count/2]
}
