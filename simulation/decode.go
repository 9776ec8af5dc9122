package simulation

import (
	"github.com/signalnine/thirtyone/engine"
)

// Greedy heuristic tuning.
const (
	// GreedySwapAllMinimum is the least hand value worth swapping the whole
	// hand with the table for.
	GreedySwapAllMinimum float32 = 25
	// GreedyKeepPlayingBelow keeps the heuristic playing while its hand is
	// worth less than this.
	GreedyKeepPlayingBelow float32 = 14
	// GreedyTolerance is how much value the heuristic gives up to keep playing.
	GreedyTolerance float32 = 1
)

// Decode turns one action row into a move for seat. onTable and held report
// which cards the seat can exchange. A move needs both its table card and its
// own card to score strictly above the pass score, so ties pass.
func Decode(output []float32, onTable, held func(engine.Card) bool) engine.Move {
	passWeight := output[engine.ActionPass]
	swapOnPass := false
	if output[engine.ActionSwapPass] > passWeight {
		swapOnPass = true
		passWeight = output[engine.ActionSwapPass]
	}

	var tableCard, ownCard engine.Card
	tableWeight, ownWeight := passWeight-1, passWeight-1
	for c := 0; c < engine.NumCards; c++ {
		card := engine.Card(c)
		if onTable(card) && output[engine.ActionTableCard+c] > tableWeight {
			tableCard = card
			tableWeight = output[engine.ActionTableCard+c]
		}
		if held(card) && output[engine.ActionOwnCard+c] > ownWeight {
			ownCard = card
			ownWeight = output[engine.ActionOwnCard+c]
		}
	}

	if tableWeight > passWeight && ownWeight > passWeight {
		return engine.Move{
			TableCard:  tableCard,
			OwnCard:    ownCard,
			Confidence: clamp01(min(tableWeight, ownWeight)),
		}
	}
	return engine.Move{
		Pass:       true,
		SwapOnPass: swapOnPass,
		Confidence: clamp01(passWeight),
	}
}

// DecodeState decodes an action row against the true cards of seat.
func DecodeState(output []float32, state *engine.State, seat int) engine.Move {
	return Decode(output, state.OnTable, func(c engine.Card) bool { return state.Holds(seat, c) })
}

// GreedyMove picks the single swap that leaves seat with the best hand. It
// passes, possibly swapping its whole hand with the table, once no swap is
// worth more than the tolerance below its current hand.
func GreedyMove(state *engine.State, seat int, p engine.Personality, hasSwapped bool) engine.Move {
	passWeight := state.HandValue(seat, p, hasSwapped)
	table, _ := state.Table()
	hand, _ := state.HandOf(seat)

	found := false
	var best float32
	var tableCard, ownCard engine.Card
	for _, tc := range table {
		for _, oc := range hand {
			trial := *state
			if err := trial.ApplyMove(seat, tc, oc); err != nil {
				continue
			}
			if v := trial.HandValue(seat, p, hasSwapped); !found || v > best {
				found = true
				best = v
				tableCard, ownCard = tc, oc
			}
		}
	}
	if !found {
		return engine.Move{Pass: true, Confidence: clamp01(passWeight)}
	}

	swapOnPass := false
	trial := *state
	trial.SwapWithTable(seat)
	if v := trial.HandValue(seat, p, true); v >= GreedySwapAllMinimum && v > passWeight && v > best {
		swapOnPass = true
		passWeight = v
	}
	if passWeight < GreedyKeepPlayingBelow || best+GreedyTolerance > passWeight {
		passWeight = -1
	}

	if best > passWeight {
		return engine.Move{
			TableCard:  tableCard,
			OwnCard:    ownCard,
			Confidence: clamp01(best),
		}
	}
	return engine.Move{
		Pass:       true,
		SwapOnPass: swapOnPass,
		Confidence: clamp01(passWeight),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
