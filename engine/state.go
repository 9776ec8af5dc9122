package engine

import (
	"math/rand"
)

// State is the ground truth of one game as a flat flag vector of
// NumStateSets blocks of NumCards bytes: the table, one held-card block per
// seat and one vision block per seat. Vision flags are never cleared.
type State [StateSize]uint8

func tableIndex(c Card) int {
	return int(c)
}

func handIndex(seat int, c Card) int {
	return (1+seat)*NumCards + int(c)
}

func visionIndex(seat int, c Card) int {
	return (1+NumSeats+seat)*NumCards + int(c)
}

// TableSet, HandSet and VisionSet return the block index of each region.
func TableSet() int          { return 0 }
func HandSet(seat int) int   { return 1 + seat }
func VisionSet(seat int) int { return 1 + NumSeats + seat }

// Block returns the NumCards flags of one set.
func (s *State) Block(set int) []uint8 {
	return s[set*NumCards : (set+1)*NumCards]
}

// OnTable reports whether c lies on the table.
func (s *State) OnTable(c Card) bool {
	return s[tableIndex(c)] > 0
}

// Holds reports whether seat holds c.
func (s *State) Holds(seat int, c Card) bool {
	return s[handIndex(seat, c)] > 0
}

// Seen reports whether c has ever been revealed as passing through seat's hand.
func (s *State) Seen(seat int, c Card) bool {
	return s[visionIndex(seat, c)] > 0
}

// HandOf returns the cards held by seat in index order and how many there are.
func (s *State) HandOf(seat int) (Hand, int) {
	return s.collect(HandSet(seat))
}

// Table returns the cards on the table in index order and how many there are.
func (s *State) Table() (Hand, int) {
	return s.collect(TableSet())
}

func (s *State) collect(set int) (Hand, int) {
	var h Hand
	n := 0
	block := s.Block(set)
	for c := range block {
		if block[c] == 0 {
			continue
		}
		if n < NumCardsPerHand {
			h[n] = Card(c)
		}
		n++
	}
	return h, n
}

// Deal shuffles a fresh deck and deals NumCardsPerHand cards to the table and
// to every seat. A seat whose personality forces a fake first card receives
// it in place of the first card drawn for it.
func (s *State) Deal(rng *rand.Rand, seats [NumSeats]Personality) {
	*s = State{}
	deck := NewDeck()
	deck.Shuffle(rng)
	next := 0
	for hand := 0; hand < NumHands; hand++ {
		for k := 0; k < NumCardsPerHand; k++ {
			card := deck[next]
			next++
			if k == 0 && hand > 0 {
				if forced, ok := seats[hand-1].ForcedFirstCard(rng); ok {
					card = forced
				}
			}
			s[hand*NumCards+int(card)] = 1
		}
	}
}

// Place puts c into the given hand (0 = table, 1+seat = seat) without any
// bookkeeping. It is meant for building fixed positions.
func (s *State) Place(hand int, c Card) {
	s[hand*NumCards+int(c)] = 1
}
