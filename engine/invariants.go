package engine

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// InvariantError reports a broken state invariant together with a dump of the
// offending game.
type InvariantError struct {
	Game   int
	Reason string
	Dump   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("game %d: %s\n%s", e.Game, e.Reason, e.Dump)
}

// CheckConservation verifies that every card lies in at most one hand, that
// exactly NumHeldCards cards are in play and that every hand holds
// NumCardsPerHand cards.
func (s *State) CheckConservation() error {
	held := 0
	for c := 0; c < NumCards; c++ {
		owners := 0
		for hand := 0; hand < NumHands; hand++ {
			if s[hand*NumCards+c] > 0 {
				owners++
			}
		}
		if owners > 1 {
			return errors.Errorf("card %s is in %d hands", Card(c), owners)
		}
		held += owners
	}
	if held != NumHeldCards {
		return errors.Errorf("%d cards in play, want %d", held, NumHeldCards)
	}
	for hand := 0; hand < NumHands; hand++ {
		if _, n := s.collect(hand); n != NumCardsPerHand {
			return errors.Errorf("hand %d holds %d cards", hand, n)
		}
	}
	return nil
}

// SeatStatus is the per-seat bookkeeping shown next to a hand in a dump.
type SeatStatus struct {
	Personality Personality
	Passed      bool
	HasSwapped  bool
}

// Dump renders the state for debugging. Cards a seat has seen are starred,
// and cards it has seen but no longer holds are listed as discarded. With
// full set the raw flag vector follows.
func (s *State) Dump(seats [NumSeats]SeatStatus, full bool) string {
	var b strings.Builder
	b.WriteString("----------------------\n")
	table, n := s.Table()
	if n > NumCardsPerHand {
		n = NumCardsPerHand
	}
	fmt.Fprintf(&b, "Table: %s\n", formatCards(table[:n]))
	for seat, st := range seats {
		if st.Personality.IsAbsent() {
			continue
		}
		fmt.Fprintf(&b, "Seat %d (%s): ", seat, st.Personality)
		var discarded []Card
		for c := 0; c < NumCards; c++ {
			card := Card(c)
			switch {
			case s.Holds(seat, card) && s.Seen(seat, card):
				fmt.Fprintf(&b, "%s* ", card)
			case s.Holds(seat, card):
				fmt.Fprintf(&b, "%s ", card)
			case s.Seen(seat, card):
				discarded = append(discarded, card)
			}
		}
		if st.Passed {
			b.WriteString(" <passed>")
		}
		fmt.Fprintf(&b, "   %g   discarded: %s\n",
			s.HandValue(seat, st.Personality, st.HasSwapped), formatCards(discarded))
	}
	if full {
		for i, flag := range s {
			switch {
			case i > 0 && i%NumCards == 0:
				b.WriteByte('\n')
			case i > 0 && (i%NumCards)%NumSuits == 0:
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%d ", flag)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
