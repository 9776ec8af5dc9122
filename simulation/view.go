package simulation

import (
	"github.com/signalnine/thirtyone/engine"
)

// Offsets of the seat flag groups within the last view set.
const (
	flagAbsent    = engine.NumStateSets * engine.NumCards
	flagPassed    = flagAbsent + engine.NumSeats
	flagHumanLike = flagPassed + engine.NumSeats
	flagBoss      = flagHumanLike + engine.NumSeats
)

// BuildView writes the perspective of the active seat into buf, which must
// hold engine.ViewSize values. Seats appear relative to the active seat, so
// relative seat 0 is always the viewer. The viewer's own hand is shown raw;
// other hands only through what the owning seat has revealed, unless the
// viewer is granted sight of them.
func BuildView(buf []float32, state *engine.State, seats [engine.NumSeats]engine.Personality, passed [engine.NumSeats]bool, active int) {
	viewer := seats[active]
	table := state.Block(engine.TableSet())
	for c := 0; c < engine.NumCards; c++ {
		buf[c] = float32(table[c])
	}
	for t := 0; t < engine.NumSeats; t++ {
		other := seats[t]
		tt := (t + engine.NumSeats - active) % engine.NumSeats
		held := state.Block(engine.HandSet(t))
		vision := state.Block(engine.VisionSet(t))
		handOut := buf[engine.HandSet(tt)*engine.NumCards : (engine.HandSet(tt)+1)*engine.NumCards]
		visionOut := buf[engine.VisionSet(tt)*engine.NumCards : (engine.VisionSet(tt)+1)*engine.NumCards]
		raw := t == active || viewer.SeesHandOf(other)
		for c := 0; c < engine.NumCards; c++ {
			visionOut[c] = float32(vision[c])
			if raw {
				handOut[c] = float32(held[c])
			} else {
				handOut[c] = float32(held[c] * vision[c])
			}
		}
		buf[flagAbsent+tt] = flag(other.IsAbsent())
		buf[flagPassed+tt] = flag(passed[t])
		buf[flagHumanLike+tt] = flag(other.IsHumanLike())
		buf[flagBoss+tt] = flag(other == engine.Boss)
	}
	for i := flagBoss + engine.NumSeats; i < engine.ViewSize; i++ {
		buf[i] = 0
	}
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
