// Package engine holds the ground-truth rules of the thirty-one trick-discard game:
// cards, the flag-vector game state, hand scoring and state transitions.
package engine

import (
	"fmt"
	"math/rand"
)

// Table and deck geometry.
const (
	NumSeats        = 4
	NumCardsPerHand = 3
	NumSuits        = 4
	NumFacesPerSuit = 8
	NumNormalCards  = NumSuits * NumFacesPerSuit // 32
	NumSpecialCards = 4
	NumCards        = NumNormalCards + NumSpecialCards // 36
	NumHands        = NumSeats + 1                     // the table counts as a hand
	NumStateSets    = 1 + 2*NumSeats
	NumHeldCards    = NumCardsPerHand * NumHands
	StateSize       = NumStateSets * NumCards
	NumViewSets     = NumStateSets + 1 // one extra set of seat flags
	ViewSize        = NumViewSets * NumCards
	ActionSize      = 2*NumCards + 2
)

// Offsets into an action vector.
const (
	ActionTableCard = 0
	ActionOwnCard   = NumCards
	ActionPass      = 2 * NumCards
	ActionSwapPass  = 2*NumCards + 1
)

// Card is an index into the 36-card space. Normal cards encode
// suit = c % NumSuits and face = c / NumSuits.
type Card uint8

// Special cards that only enter play through a deceptive deal.
const (
	FakeClubAce  Card = NumNormalCards + 0
	Joker        Card = NumNormalCards + 1
	HeartTwelve  Card = NumNormalCards + 2
	FakeSpadeAce Card = NumNormalCards + 3
)

// Suits.
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

const (
	faceAce    = NumFacesPerSuit - 1
	faceTwelve = NumFacesPerSuit
	faceNone   = 255
)

var faceValues = [NumFacesPerSuit]float32{7, 8, 9, 10, 10, 10, 10, 11}

var suitNames = [NumSuits]string{"C", "D", "H", "S"}
var faceNames = [NumFacesPerSuit]string{"7", "8", "9", "10", "J", "Q", "K", "A"}

// NewCard builds a normal card from suit and face.
func NewCard(suit, face uint8) Card {
	return Card(face*NumSuits + suit)
}

// Suit returns the suit the card scores in. The joker has a suit slot but no value.
func (c Card) Suit() uint8 {
	return uint8(c) % NumSuits
}

// Face returns the rank used for matched sets. Fake aces count as aces;
// the joker matches nothing.
func (c Card) Face() uint8 {
	switch c {
	case FakeClubAce, FakeSpadeAce:
		return faceAce
	case Joker:
		return faceNone
	case HeartTwelve:
		return faceTwelve
	}
	return uint8(c) / NumSuits
}

// Value returns the face value added to the card's suit total.
func (c Card) Value() float32 {
	switch c {
	case FakeClubAce, FakeSpadeAce:
		return 11
	case Joker:
		return 0
	case HeartTwelve:
		return 12
	}
	return faceValues[uint8(c)/NumSuits]
}

func (c Card) String() string {
	switch c {
	case FakeClubAce:
		return "CAf"
	case Joker:
		return "JKR"
	case HeartTwelve:
		return "H12"
	case FakeSpadeAce:
		return "SAf"
	}
	if c >= NumCards {
		return fmt.Sprintf("?%d", uint8(c))
	}
	return suitNames[c.Suit()] + faceNames[uint8(c)/NumSuits]
}

// Deck is the shuffleable normal deck.
type Deck [NumNormalCards]Card

// NewDeck returns the 32 normal cards in index order.
func NewDeck() Deck {
	var d Deck
	for i := range d {
		d[i] = Card(i)
	}
	return d
}

// Shuffle permutes the deck in place.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}
