package domain

import "errors"

// ErrUnknownAction rejects a card kind outside the catalog's closed set.
// The turn is not consumed.
var ErrUnknownAction = errors.New("unknown action kind")

// Outcome is the result of resolving one action against a hit-point pair.
type Outcome struct {
	HP     [2]int
	Ended  bool
	Winner Seat
	// Visible reports whether the opponent observed a direct effect
	// (currently attacks only).
	Visible bool
}

// Resolve applies a single card action for the acting seat and evaluates the
// win condition. It is a pure function: no I/O, no shared state.
//
// Attack always targets the opponent, heal always targets the actor. Defend
// and special are valid turn-consuming actions with no numeric effect yet;
// defend is the extension point for damage mitigation.
func Resolve(rules Rules, hp [2]int, actor Seat, card Card) (Outcome, error) {
	out := Outcome{HP: hp, Winner: SeatNone}

	switch card.Kind {
	case KindAttack:
		out.HP[actor.Other()] -= card.Magnitude
		out.Visible = true
	case KindHeal:
		out.HP[actor] += card.Magnitude
		if rules.HealCap > 0 && out.HP[actor] > rules.HealCap {
			out.HP[actor] = rules.HealCap
		}
	case KindDefend, KindSpecial:
		// Recognized and turn-consuming, no hit-point effect.
	default:
		return Outcome{}, ErrUnknownAction
	}

	for _, s := range []Seat{SeatA, SeatB} {
		if out.HP[s] <= 0 {
			out.HP[s] = 0
			out.Ended = true
			out.Winner = s.Other()
			break
		}
	}

	return out, nil
}
