package simulation

import (
	"github.com/pkg/errors"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/network"
)

// Decision is the answer to a single live query.
type Decision struct {
	WantsToPass bool
	WantsToSwap bool
	TableCard   engine.Card
	OwnCard     engine.Card
}

// DecideSingle evaluates one perspective vector outside of a round, for a host
// that embeds a trained network in a live game. The cards the seat may
// exchange are read from the table and own-hand sets of the view.
func DecideSingle(net *network.Network, view []float32) (Decision, error) {
	if len(view) != engine.ViewSize {
		return Decision{}, errors.Errorf("view has %d values, want %d", len(view), engine.ViewSize)
	}
	output := make([]float32, engine.ActionSize)
	if err := net.Forward(view, 1, output); err != nil {
		return Decision{}, errors.Wrap(err, "live decision")
	}
	own := view[engine.HandSet(0)*engine.NumCards:]
	mv := Decode(output,
		func(c engine.Card) bool { return view[c] > 0 },
		func(c engine.Card) bool { return own[c] > 0 })
	if mv.Pass {
		return Decision{WantsToPass: true, WantsToSwap: mv.SwapOnPass}, nil
	}
	return Decision{TableCard: mv.TableCard, OwnCard: mv.OwnCard}, nil
}
