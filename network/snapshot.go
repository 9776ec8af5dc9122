package network

import (
	"github.com/pkg/errors"
)

// Snapshot is the serializable form of a network.
type Snapshot struct {
	Layers []Layer
}

// Snapshot copies the parameters into a Snapshot.
func (n *Network) Snapshot() Snapshot {
	return Snapshot{Layers: n.Clone().layers}
}

// FromSnapshot rebuilds a network, checking that consecutive layers connect
// and that every parameter group has the size its shape implies.
func FromSnapshot(s Snapshot) (*Network, error) {
	if len(s.Layers) != NumHiddenLayers+1 {
		return nil, errors.Errorf("snapshot has %d layers, want %d", len(s.Layers), NumHiddenLayers+1)
	}
	for i, l := range s.Layers {
		if len(l.Weights) != l.In*l.Out || len(l.Bias) != l.Out {
			return nil, errors.Errorf("snapshot layer %d: parameter sizes do not match %dx%d", i, l.In, l.Out)
		}
		if i > 0 && s.Layers[i-1].Out != l.In {
			return nil, errors.Errorf("snapshot layer %d: input %d does not follow output %d", i, l.In, s.Layers[i-1].Out)
		}
	}
	n := &Network{layers: s.Layers}
	return n.Clone(), nil
}
