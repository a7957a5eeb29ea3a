package nakama

import (
	"errors"

	"carduel/internal/app"
	"carduel/internal/domain"
)

// Wire payloads. The in-match contract keeps the original client's camelCase
// keys; RPC payloads use snake_case like the rest of the module surface.

type wireCard struct {
	Kind      string `json:"kind"`
	Magnitude int    `json:"magnitude"`
}

type waitingMessage struct {
	Message string `json:"message"`
}

type matchStartedMessage struct {
	Opponent string `json:"opponent"`
}

type stateUpdateMessage struct {
	Player1HP   int    `json:"player1HP"`
	Player2HP   int    `json:"player2HP"`
	CurrentTurn string `json:"currentTurn"`
}

type cardPlayedMessage struct {
	Player string   `json:"player"`
	Card   wireCard `json:"card"`
}

type gameOverMessage struct {
	Result  string `json:"result"` // "won" or "lost"
	Message string `json:"message"`
}

type errorMessage struct {
	Message string `json:"message"`
}

type matchLabel struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

func cardToWire(c domain.Card) wireCard {
	return wireCard{Kind: string(c.Kind), Magnitude: c.Magnitude}
}

func cardFromWire(c wireCard) domain.Card {
	return domain.Card{Kind: domain.CardKind(c.Kind), Magnitude: c.Magnitude}
}

// eventMessage maps an engine event to its opcode and wire payload.
func eventMessage(ev app.Event) (int64, any, bool) {
	switch ev.Kind {
	case app.EventWaiting:
		p := ev.Payload.(app.WaitingPayload)
		return OpWaiting, waitingMessage{Message: p.Message}, true
	case app.EventMatchStarted:
		p := ev.Payload.(app.MatchStartedPayload)
		return OpMatchStarted, matchStartedMessage{Opponent: p.Opponent}, true
	case app.EventStateUpdate:
		p := ev.Payload.(app.StateUpdatePayload)
		return OpStateUpdate, stateUpdateMessage{
			Player1HP:   p.Player1HP,
			Player2HP:   p.Player2HP,
			CurrentTurn: p.CurrentTurn,
		}, true
	case app.EventCardPlayed:
		p := ev.Payload.(app.CardPlayedPayload)
		return OpCardPlayed, cardPlayedMessage{Player: p.Player, Card: cardToWire(p.Card)}, true
	case app.EventGameOver:
		p := ev.Payload.(app.GameOverPayload)
		return OpGameOver, gameOverMessage{Result: p.Result, Message: p.Message}, true
	}
	return 0, nil, false
}

// errText maps engine errors to the user-visible message sent only to the
// offending connection.
func errText(err error) string {
	switch {
	case errors.Is(err, app.ErrOutOfTurn):
		return "It's not your turn!"
	case errors.Is(err, app.ErrInvalidMatch):
		return "You are not in an active game."
	case errors.Is(err, app.ErrNotAParticipant):
		return "You are not part of this game."
	case errors.Is(err, domain.ErrUnknownAction):
		return "Unknown card type."
	case errors.Is(err, app.ErrNotFound):
		return "Join a game first."
	case errors.Is(err, app.ErrDuplicateConnection):
		return "You already joined a game."
	}
	return err.Error()
}
