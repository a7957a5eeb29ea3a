package app

import (
	"carduel/internal/domain"
)

// Service contains the duel use-cases: join/matchmaking, action submission
// and disconnect handling. It is the single source of truth for match
// pairing, turn order and combat resolution; every operation returns the
// event list the transport layer should deliver.
type Service struct {
	registry *Registry
	matches  *Matchmaker
	rules    domain.Rules
}

// Placement is the pairing outcome returned to the transport layer.
type Placement struct {
	MatchID string
	Role    Role
}

// NewService constructs the engine. Nil catalog and zero rules fall back to
// the defaults; a nil token source mints UUID match tokens.
func NewService(catalog *domain.Catalog, rules domain.Rules, tokens TokenSource) *Service {
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	if rules == (domain.Rules{}) {
		rules = domain.DefaultRules()
	}
	return &Service{
		registry: NewRegistry(catalog, rules),
		matches:  NewMatchmaker(tokens),
		rules:    rules,
	}
}

// Join registers the connection and pairs it with a waiting match or opens a
// new one. Creators receive a waiting notification; a successful pairing
// notifies both sides with the opponent's name followed by the initial state
// snapshot.
func (s *Service) Join(connID, displayName string) (Placement, []Event, error) {
	if _, err := s.registry.Register(connID, displayName); err != nil {
		return Placement{}, nil, err
	}

	m, role, err := s.matches.FindOrCreate(connID, displayName, s.rules.StartingHP, func(token string) {
		s.registry.Bind(connID, token)
	})
	if err != nil {
		s.registry.Unregister(connID)
		return Placement{}, nil, err
	}

	view := m.Snapshot()
	placement := Placement{MatchID: view.Token, Role: role}

	if role == RoleCreator {
		return placement, []Event{{
			Kind:       EventWaiting,
			Payload:    WaitingPayload{Message: MsgWaiting},
			Recipients: []string{connID},
		}}, nil
	}

	events := []Event{
		{
			Kind:       EventMatchStarted,
			Payload:    MatchStartedPayload{Opponent: view.Names[domain.SeatB]},
			Recipients: []string{view.Seats[domain.SeatA]},
		},
		{
			Kind:       EventMatchStarted,
			Payload:    MatchStartedPayload{Opponent: view.Names[domain.SeatA]},
			Recipients: []string{view.Seats[domain.SeatB]},
		},
		{
			Kind: EventStateUpdate,
			Payload: StateUpdatePayload{
				Player1HP:   view.HP[domain.SeatA],
				Player2HP:   view.HP[domain.SeatB],
				CurrentTurn: view.TurnConnID(),
			},
		},
	}
	return placement, events, nil
}

// PlayCard submits an action for the connection's active match. On a
// finishing action the match leaves the active set and both players are
// detached before the events are returned.
func (s *Service) PlayCard(connID string, card domain.Card) ([]Event, error) {
	p, err := s.registry.Lookup(connID)
	if err != nil {
		return nil, err
	}
	if p.MatchID == "" {
		return nil, ErrInvalidMatch
	}
	m, ok := s.matches.Get(p.MatchID)
	if !ok {
		return nil, ErrInvalidMatch
	}

	view, events, err := m.SubmitAction(connID, card, s.rules)
	if err != nil {
		return nil, err
	}

	if view.Phase == domain.PhaseEnded {
		s.matches.Remove(view.Token)
		s.registry.Detach(view.Seats[0], view.Seats[1])
	}
	return events, nil
}

// Disconnect tears down the connection's session. A waiting match is deleted
// silently; a playing match forfeits to the opponent, who is notified.
// Unknown connections and matches that already finished are no-ops, so the
// transport layer may report the same disconnect more than once.
func (s *Service) Disconnect(connID string) []Event {
	p, err := s.registry.Lookup(connID)
	if err != nil {
		return nil
	}

	var events []Event
	if p.MatchID != "" {
		if m, ok := s.matches.Get(p.MatchID); ok {
			evs, removed := m.Disconnect(connID)
			if removed {
				view := m.Snapshot()
				s.matches.Remove(view.Token)
				s.registry.Detach(view.Seats[0], view.Seats[1])
			}
			events = evs
		} else {
			s.registry.Detach(connID)
		}
	}

	s.registry.Unregister(connID)
	return events
}

// Snapshot returns the read-only view of an active match.
func (s *Service) Snapshot(matchID string) (MatchView, error) {
	m, ok := s.matches.Get(matchID)
	if !ok {
		return MatchView{}, ErrNotFound
	}
	return m.Snapshot(), nil
}

// Rules exposes the duel parameters in effect.
func (s *Service) Rules() domain.Rules {
	return s.rules
}
