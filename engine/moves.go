package engine

import (
	"github.com/pkg/errors"
)

// ErrIllegalMove is returned when a move names cards the seat cannot exchange.
var ErrIllegalMove = errors.New("illegal move")

// Move is one decision of an active seat.
type Move struct {
	// Pass ends the seat's participation. A passing seat may swap its whole
	// hand with the table first.
	Pass       bool
	SwapOnPass bool
	TableCard  Card
	OwnCard    Card
	Confidence float32
}

// ApplyMove exchanges tableCard from the table with ownCard from seat's hand.
// Both cards become visible to seat.
func (s *State) ApplyMove(seat int, tableCard, ownCard Card) error {
	if !s.OnTable(tableCard) || !s.Holds(seat, ownCard) {
		return errors.Wrapf(ErrIllegalMove, "seat %d swapping %s for %s", seat, ownCard, tableCard)
	}
	s[tableIndex(tableCard)] = 0
	s[handIndex(seat, ownCard)] = 0
	s[tableIndex(ownCard)] = 1
	s[handIndex(seat, tableCard)] = 1
	s[visionIndex(seat, tableCard)] = 1
	s[visionIndex(seat, ownCard)] = 1
	return nil
}

// SwapWithTable exchanges seat's whole hand with the table. Every card that
// changes place becomes visible to seat.
func (s *State) SwapWithTable(seat int) {
	for c := 0; c < NumCards; c++ {
		card := Card(c)
		onTable, held := s.OnTable(card), s.Holds(seat, card)
		if onTable == held {
			continue
		}
		s[tableIndex(card)], s[handIndex(seat, card)] = s[handIndex(seat, card)], s[tableIndex(card)]
		s[visionIndex(seat, card)] = 1
	}
}

// HandValue scores the hand currently held by seat.
func (s *State) HandValue(seat int, p Personality, hasSwapped bool) float32 {
	hand, n := s.HandOf(seat)
	if n != NumCardsPerHand {
		return 0
	}
	return ScoreHand(hand, p, hasSwapped)
}
