package domain

// Phase represents the lifecycle stage of a duel.
type Phase string

const (
	// PhaseWaiting is the pre-game state before a second player is seated.
	PhaseWaiting Phase = "waiting"
	// PhasePlaying is the active state where cards are played.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the terminal state after a win or forfeit.
	PhaseEnded Phase = "ended"
)

// Seat identifies one of the two sides of a duel, distinct from player identity.
type Seat int

const (
	// SeatNone marks the absence of a seat (no winner yet, actor not seated).
	SeatNone Seat = -1
	// SeatA is the match creator's side.
	SeatA Seat = 0
	// SeatB is the joiner's side.
	SeatB Seat = 1
)

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	if s == SeatA {
		return SeatB
	}
	return SeatA
}

// CardKind is the effect class of a card. The set is closed but open for extension.
type CardKind string

const (
	KindAttack  CardKind = "attack"
	KindDefend  CardKind = "defend"
	KindHeal    CardKind = "heal"
	KindSpecial CardKind = "special"
)

// Card is a single card: an effect kind plus its magnitude.
// A submitted action carries the same shape.
type Card struct {
	Kind      CardKind
	Magnitude int
}
