package engine

// Hand values with fixed meaning.
const (
	// MaxHandValue ends the game for every seat the moment a hand reaches it.
	MaxHandValue float32 = 31
	// MatchedSetValue is scored by three cards of one rank.
	MatchedSetValue float32 = 30.5
)

// Illusionist merge thresholds: a weak suit folds into a strong one.
const (
	illusionWeakSuitMax   float32 = 10
	illusionStrongSuitMin float32 = 14
)

// Hand is the three cards a seat holds.
type Hand [NumCardsPerHand]Card

// ScoreHand computes the value of a hand held by personality p. hasSwapped is
// whether the seat has exchanged its hand with the table this game.
func ScoreHand(hand Hand, p Personality, hasSwapped bool) float32 {
	var suitValue [NumSuits]float32
	matched := true
	face := hand[0].Face()
	for i, c := range hand {
		suitValue[c.Suit()] += c.Value()
		if i > 0 && c.Face() != face {
			matched = false
		}
	}
	if face == faceNone {
		matched = false
	}

	if p == Illusionist && !hasSwapped {
		// Up to one weak club becomes a spade, or else a weak diamond a heart.
		if suitValue[Clubs] <= illusionWeakSuitMax && suitValue[Spades] >= illusionStrongSuitMin {
			suitValue[Spades] += suitValue[Clubs]
		} else if suitValue[Diamonds] <= illusionWeakSuitMax && suitValue[Hearts] >= illusionStrongSuitMin {
			suitValue[Hearts] += suitValue[Diamonds]
		}
	}

	var v float32
	for _, sv := range suitValue {
		if sv > v {
			v = sv
		}
	}

	switch {
	case matched && face == faceAce:
		return MaxHandValue
	case matched && v < MatchedSetValue:
		return MatchedSetValue
	case matched:
		return v
	case p == Fool:
		// The fool only collects sets.
		return 0
	}
	return v
}
