package app

import (
	"errors"
	"testing"

	"carduel/internal/domain"
)

func newTestService() *Service {
	return NewService(nil, domain.Rules{}, nil)
}

// Full duel: A joins and waits, B joins and pairs, A attacks for 5, B attacks
// for 20 and wins, the match leaves the active set.
func TestDuelScenario(t *testing.T) {
	s := newTestService()

	placeA, events, err := s.Join("a", "Ana")
	if err != nil {
		t.Fatalf("join a: %v", err)
	}
	if placeA.Role != RoleCreator {
		t.Fatalf("role = %s, want creator", placeA.Role)
	}
	if len(events) != 1 || events[0].Kind != EventWaiting {
		t.Fatalf("creator events = %+v, want single waiting", events)
	}

	view, err := s.Snapshot(placeA.MatchID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if view.Phase != domain.PhaseWaiting {
		t.Fatalf("phase = %s, want waiting", view.Phase)
	}

	placeB, events, err := s.Join("b", "Bo")
	if err != nil {
		t.Fatalf("join b: %v", err)
	}
	if placeB.Role != RoleJoiner || placeB.MatchID != placeA.MatchID {
		t.Fatalf("placement = %+v, want joiner into %s", placeB, placeA.MatchID)
	}

	// matchStarted to each side with the opponent's name, then the snapshot.
	started := map[string]string{}
	var update *StateUpdatePayload
	for _, ev := range events {
		switch ev.Kind {
		case EventMatchStarted:
			started[ev.Recipients[0]] = ev.Payload.(MatchStartedPayload).Opponent
		case EventStateUpdate:
			p := ev.Payload.(StateUpdatePayload)
			update = &p
		}
	}
	if started["a"] != "Bo" || started["b"] != "Ana" {
		t.Fatalf("matchStarted names = %v", started)
	}
	if update == nil || update.Player1HP != 20 || update.Player2HP != 20 || update.CurrentTurn != "a" {
		t.Fatalf("initial state update = %+v", update)
	}

	// A attacks for 5: 20/15, turn flips to B.
	events, err = s.PlayCard("a", domain.Card{Kind: domain.KindAttack, Magnitude: 5})
	if err != nil {
		t.Fatalf("play a: %v", err)
	}
	update = nil
	for _, ev := range events {
		if ev.Kind == EventStateUpdate {
			p := ev.Payload.(StateUpdatePayload)
			update = &p
		}
	}
	if update == nil || update.Player1HP != 20 || update.Player2HP != 15 || update.CurrentTurn != "b" {
		t.Fatalf("state update = %+v, want {20 15 b}", update)
	}

	// B attacks for 20: A reaches 0, B wins, match is gone.
	events, err = s.PlayCard("b", domain.Card{Kind: domain.KindAttack, Magnitude: 20})
	if err != nil {
		t.Fatalf("play b: %v", err)
	}
	results := map[string]string{}
	for _, ev := range events {
		if ev.Kind == EventGameOver {
			results[ev.Recipients[0]] = ev.Payload.(GameOverPayload).Result
		}
	}
	if results["a"] != ResultLost || results["b"] != ResultWon {
		t.Fatalf("results = %v", results)
	}

	if _, err := s.Snapshot(placeA.MatchID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("finished match still in active set")
	}
	for _, conn := range []string{"a", "b"} {
		if _, err := s.PlayCard(conn, domain.Card{Kind: domain.KindAttack, Magnitude: 1}); !errors.Is(err, ErrInvalidMatch) {
			t.Fatalf("post-finish play by %s = %v, want ErrInvalidMatch", conn, err)
		}
	}
}

func TestJoinDuplicateConnection(t *testing.T) {
	s := newTestService()
	if _, _, err := s.Join("a", "Ana"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, _, err := s.Join("a", "Ana"); !errors.Is(err, ErrDuplicateConnection) {
		t.Fatalf("err = %v, want ErrDuplicateConnection", err)
	}
}

func TestPlayCardOutOfTurnLeavesStateUntouched(t *testing.T) {
	s := newTestService()
	place, _, _ := s.Join("a", "Ana")
	if _, _, err := s.Join("b", "Bo"); err != nil {
		t.Fatalf("join b: %v", err)
	}

	before, _ := s.Snapshot(place.MatchID)
	events, err := s.PlayCard("b", domain.Card{Kind: domain.KindAttack, Magnitude: 5})
	if !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("err = %v, want ErrOutOfTurn", err)
	}
	if len(events) != 0 {
		t.Fatalf("rejected action produced events: %+v", events)
	}
	if after, _ := s.Snapshot(place.MatchID); after != before {
		t.Fatalf("rejected action mutated the match")
	}
}

func TestPlayCardWithoutMatchOrRegistration(t *testing.T) {
	s := newTestService()

	if _, err := s.PlayCard("ghost", domain.Card{Kind: domain.KindAttack, Magnitude: 5}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLoneCreatorDisconnectIsSilent(t *testing.T) {
	s := newTestService()
	place, _, _ := s.Join("a", "Ana")

	events := s.Disconnect("a")
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none", events)
	}
	if _, err := s.Snapshot(place.MatchID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("waiting match should be deleted")
	}
	// The connection id is free again.
	if _, _, err := s.Join("a", "Ana"); err != nil {
		t.Fatalf("rejoin after disconnect: %v", err)
	}
}

func TestMidGameDisconnectForfeits(t *testing.T) {
	s := newTestService()
	place, _, _ := s.Join("a", "Ana")
	if _, _, err := s.Join("b", "Bo"); err != nil {
		t.Fatalf("join b: %v", err)
	}

	events := s.Disconnect("a")
	if len(events) != 1 || events[0].Kind != EventGameOver {
		t.Fatalf("events = %+v, want single game_over to opponent", events)
	}
	if events[0].Recipients[0] != "b" {
		t.Fatalf("recipient = %v, want b", events[0].Recipients)
	}

	// Repeated disconnects never duplicate the notification.
	if events := s.Disconnect("a"); len(events) != 0 {
		t.Fatalf("second disconnect emitted %+v", events)
	}
	if events := s.Disconnect("b"); len(events) != 0 {
		t.Fatalf("opponent disconnect after teardown emitted %+v", events)
	}

	if _, err := s.Snapshot(place.MatchID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("forfeited match should be deleted")
	}
}

func TestDisconnectAfterFinishIsNoOp(t *testing.T) {
	s := newTestService()
	s.Join("a", "Ana")
	s.Join("b", "Bo")
	if _, err := s.PlayCard("a", domain.Card{Kind: domain.KindAttack, Magnitude: 20}); err != nil {
		t.Fatalf("play: %v", err)
	}

	// The duel already finished; late disconnects only clean the registry.
	if events := s.Disconnect("b"); len(events) != 0 {
		t.Fatalf("late disconnect emitted %+v", events)
	}
	if events := s.Disconnect("b"); len(events) != 0 {
		t.Fatalf("repeated disconnect emitted %+v", events)
	}
}

func TestEveryPlayingMatchHasTwoDistinctSeats(t *testing.T) {
	s := newTestService()

	var tokens []string
	for i := 0; i < 10; i++ {
		conn := string(rune('a' + i))
		place, _, err := s.Join(conn, "P"+conn)
		if err != nil {
			t.Fatalf("join %s: %v", conn, err)
		}
		tokens = append(tokens, place.MatchID)
	}

	seen := map[string]bool{}
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		view, err := s.Snapshot(tok)
		if err != nil {
			t.Fatalf("snapshot %s: %v", tok, err)
		}
		if view.Phase == domain.PhasePlaying {
			if view.Seats[0] == "" || view.Seats[1] == "" || view.Seats[0] == view.Seats[1] {
				t.Errorf("playing match %s seats = %v", tok, view.Seats)
			}
		}
	}
}
