package engine

import (
	"fmt"
	"math/rand"
)

// Personality identifies an agent archetype. It selects both the agent's
// behavior (neural or scripted) and the rule variations applied to its seat.
type Personality uint8

const (
	Normal1 Personality = iota
	Normal2
	Normal3
	Player
	Fool
	Artist
	Trickster
	Forger
	Illusionist
	Spy
	Drunk
	Goon
	Boss
	Duelist
	Greedy
	Dummy
	Empty

	NumPersonalities = int(Empty) + 1
)

// Kind is the behavioral payload of a personality.
type Kind uint8

const (
	// KindNeural agents own an evaluator and are evolved every round.
	KindNeural Kind = iota
	// KindScriptedRandom agents score every action uniformly at random.
	KindScriptedRandom
	// KindScriptedGreedy agents pick the best immediate swap.
	KindScriptedGreedy
	// KindScriptedPassive agents output zeros and therefore always pass.
	KindScriptedPassive
)

// Role decides which slot of a game a personality is drawn into.
type Role uint8

const (
	RoleNormal Role = iota
	RoleStandIn
	RoleBoss
	RoleGoon
	RoleDuelist
	RoleAbsent
)

var personalityNames = [NumPersonalities]string{
	Normal1:     "A",
	Normal2:     "B",
	Normal3:     "C",
	Player:      "X",
	Fool:        "fool",
	Artist:      "artist",
	Trickster:   "trickster",
	Forger:      "forger",
	Illusionist: "illusionist",
	Spy:         "spy",
	Drunk:       "drunk",
	Goon:        "goon",
	Boss:        "boss",
	Duelist:     "duelist",
	Greedy:      "greedy",
	Dummy:       "dummy",
	Empty:       "empty",
}

// String returns the short name used in manifests and model file stems.
func (p Personality) String() string {
	if int(p) < NumPersonalities {
		return personalityNames[p]
	}
	return fmt.Sprintf("personality(%d)", uint8(p))
}

// ParsePersonality maps a manifest name back to its personality.
func ParsePersonality(name string) (Personality, error) {
	for i, n := range personalityNames {
		if n == name {
			return Personality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown personality %q", name)
}

// AllPersonalities lists every personality in declaration order.
func AllPersonalities() []Personality {
	out := make([]Personality, NumPersonalities)
	for i := range out {
		out[i] = Personality(i)
	}
	return out
}

// Kind returns the behavioral payload.
func (p Personality) Kind() Kind {
	switch p {
	case Drunk:
		return KindScriptedRandom
	case Greedy:
		return KindScriptedGreedy
	case Dummy, Empty:
		return KindScriptedPassive
	}
	return KindNeural
}

// IsNeural reports whether genomes of this personality own an evaluator.
func (p Personality) IsNeural() bool {
	return p.Kind() == KindNeural
}

// IsTrainable reports whether pools of this personality are evolved.
func (p Personality) IsTrainable() bool {
	return p.IsNeural()
}

// Role returns the game slot this personality fills during assembly.
func (p Personality) Role() Role {
	switch p {
	case Player, Greedy, Dummy:
		return RoleStandIn
	case Boss:
		return RoleBoss
	case Goon:
		return RoleGoon
	case Duelist:
		return RoleDuelist
	case Empty:
		return RoleAbsent
	}
	return RoleNormal
}

// IsHumanLike marks the stand-ins for a human player in the view.
func (p Personality) IsHumanLike() bool {
	return p.Role() == RoleStandIn
}

// IsAbsent reports whether a seat held by p is unoccupied.
func (p Personality) IsAbsent() bool {
	return p == Empty
}

// SeesHandOf reports whether a viewer with personality p sees the raw hand of
// a seat held by other, instead of only its revealed cards.
func (p Personality) SeesHandOf(other Personality) bool {
	switch p {
	case Spy:
		return true
	case Goon:
		return other == Boss
	}
	return false
}

// ForcedFirstCard returns the fake card dealt as the first card of a seat held
// by p, if p trains a deceptive behavior.
func (p Personality) ForcedFirstCard(rng *rand.Rand) (Card, bool) {
	switch p {
	case Forger:
		if rng.Intn(2) == 0 {
			return FakeClubAce, true
		}
		return FakeSpadeAce, true
	case Artist:
		return HeartTwelve, true
	case Trickster:
		return Joker, true
	}
	return 0, false
}

// IsProtector reports whether p is scored on the boss surviving and the
// player losing rather than on its own hand.
func (p Personality) IsProtector() bool {
	return p == Goon
}
