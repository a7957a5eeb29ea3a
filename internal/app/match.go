package app

import (
	"sync"

	"carduel/internal/domain"
)

// MsgWaiting is the user-visible text carried on the creator's waiting event.
const MsgWaiting = "Waiting for an opponent to join..."

// User-visible texts carried on game-over events.
const (
	msgWon          = "You won!"
	msgLost         = "You lost!"
	msgOpponentLeft = "Your opponent has disconnected!"
)

// MatchView is the read-only snapshot of a match, safe to retain and share.
type MatchView struct {
	Token  string
	Phase  domain.Phase
	Seats  [2]string // connection IDs; Seats[1] empty while waiting
	Names  [2]string
	HP     [2]int
	Turn   domain.Seat
	Winner domain.Seat // SeatNone until ended
}

// TurnConnID returns the connection id holding the turn.
func (v MatchView) TurnConnID() string {
	return v.Seats[v.Turn]
}

// Match owns the authoritative state of one duel. All mutation goes through
// SubmitAction and Disconnect under the per-match mutex; operations on
// different matches never block each other.
type Match struct {
	mu     sync.Mutex
	token  string
	phase  domain.Phase
	seats  [2]string
	names  [2]string
	hp     [2]int
	turn   domain.Seat
	winner domain.Seat
}

func newMatch(token, creatorID, creatorName string, startingHP int) *Match {
	return &Match{
		token:  token,
		phase:  domain.PhaseWaiting,
		seats:  [2]string{creatorID, ""},
		names:  [2]string{creatorName, ""},
		hp:     [2]int{startingHP, startingHP},
		turn:   domain.SeatA, // prepared for when a joiner arrives
		winner: domain.SeatNone,
	}
}

// Token returns the match identity. Immutable after creation.
func (m *Match) Token() string {
	return m.token
}

// tryJoin seats the requester as player B and starts the match. It refuses
// self-pairing and anything past the waiting phase. The waiting -> playing
// transition happens exactly once, atomically with seating B.
func (m *Match) tryJoin(connID, displayName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != domain.PhaseWaiting || m.seats[domain.SeatA] == connID {
		return false
	}

	m.seats[domain.SeatB] = connID
	m.names[domain.SeatB] = displayName
	m.phase = domain.PhasePlaying
	m.turn = domain.SeatA
	return true
}

// Snapshot returns the current read-only view.
func (m *Match) Snapshot() MatchView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

// SubmitAction validates, resolves and commits a single action as one atomic
// update. Preconditions are checked in order; the first failure wins and
// leaves the match untouched.
func (m *Match) SubmitAction(connID string, card domain.Card, rules domain.Rules) (MatchView, []Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != domain.PhasePlaying {
		return m.viewLocked(), nil, ErrInvalidMatch
	}
	seat := m.seatOfLocked(connID)
	if seat == domain.SeatNone {
		return m.viewLocked(), nil, ErrNotAParticipant
	}
	if seat != m.turn {
		return m.viewLocked(), nil, ErrOutOfTurn
	}

	out, err := domain.Resolve(rules, m.hp, seat, card)
	if err != nil {
		// Unknown kinds do not consume the turn.
		return m.viewLocked(), nil, err
	}

	m.hp = out.HP

	var events []Event
	if out.Visible {
		events = append(events, Event{
			Kind:       EventCardPlayed,
			Payload:    CardPlayedPayload{Player: m.names[seat], Card: card},
			Recipients: []string{m.seats[seat.Other()]},
		})
	}

	if out.Ended {
		m.phase = domain.PhaseEnded
		m.winner = out.Winner
		events = append(events,
			Event{
				Kind:       EventGameOver,
				Payload:    GameOverPayload{Result: ResultWon, Message: msgWon},
				Recipients: []string{m.seats[out.Winner]},
			},
			Event{
				Kind:       EventGameOver,
				Payload:    GameOverPayload{Result: ResultLost, Message: msgLost},
				Recipients: []string{m.seats[out.Winner.Other()]},
			},
		)
	} else {
		m.turn = m.turn.Other()
		events = append(events, Event{
			Kind:    EventStateUpdate,
			Payload: m.stateUpdateLocked(),
		})
	}

	return m.viewLocked(), events, nil
}

// Disconnect handles a participant dropping. A waiting match is deleted
// outright with no notifications; a playing match ends by forfeit with the
// other side as winner, notifying the opponent only. Ended matches and
// non-participants are no-ops, so racing or repeated disconnects are safe.
// The second return value reports whether the match should leave the active set.
func (m *Match) Disconnect(connID string) ([]Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.phase {
	case domain.PhaseWaiting:
		if m.seats[domain.SeatA] != connID {
			return nil, false
		}
		m.phase = domain.PhaseEnded
		return nil, true

	case domain.PhasePlaying:
		seat := m.seatOfLocked(connID)
		if seat == domain.SeatNone {
			return nil, false
		}
		m.phase = domain.PhaseEnded
		m.winner = seat.Other()
		return []Event{{
			Kind:       EventGameOver,
			Payload:    GameOverPayload{Result: ResultWon, Message: msgOpponentLeft},
			Recipients: []string{m.seats[seat.Other()]},
		}}, true

	default:
		return nil, false
	}
}

func (m *Match) seatOfLocked(connID string) domain.Seat {
	switch connID {
	case "":
		return domain.SeatNone
	case m.seats[domain.SeatA]:
		return domain.SeatA
	case m.seats[domain.SeatB]:
		return domain.SeatB
	}
	return domain.SeatNone
}

func (m *Match) viewLocked() MatchView {
	return MatchView{
		Token:  m.token,
		Phase:  m.phase,
		Seats:  m.seats,
		Names:  m.names,
		HP:     m.hp,
		Turn:   m.turn,
		Winner: m.winner,
	}
}

func (m *Match) stateUpdateLocked() StateUpdatePayload {
	return StateUpdatePayload{
		Player1HP:   m.hp[domain.SeatA],
		Player2HP:   m.hp[domain.SeatB],
		CurrentTurn: m.seats[m.turn],
	}
}
