package app

import "carduel/internal/domain"

// EventKind identifies emitted duel events for transport dispatch.
type EventKind string

const (
	EventWaiting      EventKind = "waiting"
	EventMatchStarted EventKind = "match_started"
	EventStateUpdate  EventKind = "state_update"
	EventCardPlayed   EventKind = "card_played"
	EventGameOver     EventKind = "game_over"
)

// Event is a duel event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // connection IDs; empty means both seated players
}

// Game-over results as seen by each recipient individually.
const (
	ResultWon  = "won"
	ResultLost = "lost"
)

type WaitingPayload struct {
	Message string
}

// MatchStartedPayload is sent to each side with the other side's name.
type MatchStartedPayload struct {
	Opponent string
}

// StateUpdatePayload is the canonical snapshot broadcast after each accepted
// action that does not end the match.
type StateUpdatePayload struct {
	Player1HP   int
	Player2HP   int
	CurrentTurn string // connection ID of the side holding the turn
}

// CardPlayedPayload names the acting player and the card, delivered to the
// opponent when the action had a visible effect.
type CardPlayedPayload struct {
	Player string
	Card   domain.Card
}

type GameOverPayload struct {
	Result  string // ResultWon or ResultLost
	Message string
}
