package genome

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/signalnine/thirtyone/engine"
)

// Registry hands out genome serial numbers. Serials are never reused.
type Registry struct {
	last atomic.Uint64
}

// NewRegistry returns a registry whose first serial is 1. Serial 0 marks an
// absent parent.
func NewRegistry() *Registry {
	return &Registry{}
}

// Next returns a fresh serial.
func (r *Registry) Next() uint64 {
	return r.last.Add(1)
}

// Observe makes sure future serials are greater than serial.
func (r *Registry) Observe(serial uint64) {
	for {
		cur := r.last.Load()
		if serial <= cur || r.last.CompareAndSwap(cur, serial) {
			return
		}
	}
}

// Stem names a genome in manifests and model files:
// {personality}_{serial}_{mother}_{father}.
func (g *Genome) Stem() string {
	return fmt.Sprintf("%s_%d_%d_%d", g.Personality, g.Serial, g.Mother, g.Father)
}

// Lineage is the identity recovered from a stem.
type Lineage struct {
	Personality engine.Personality
	Serial      uint64
	Mother      uint64
	Father      uint64
}

// ParseStem reverses Stem.
func ParseStem(stem string) (Lineage, error) {
	parts := strings.Split(stem, "_")
	if len(parts) != 4 {
		return Lineage{}, errors.Errorf("stem %q: want 4 fields, got %d", stem, len(parts))
	}
	p, err := engine.ParsePersonality(parts[0])
	if err != nil {
		return Lineage{}, errors.Wrapf(err, "stem %q", stem)
	}
	var ids [3]uint64
	for i := range ids {
		ids[i], err = strconv.ParseUint(parts[i+1], 10, 64)
		if err != nil {
			return Lineage{}, errors.Wrapf(err, "stem %q", stem)
		}
	}
	return Lineage{Personality: p, Serial: ids[0], Mother: ids[1], Father: ids[2]}, nil
}
