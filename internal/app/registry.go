package app

import (
	"sync"

	"carduel/internal/domain"
)

// Player is a live connection's session data. Owned by the Registry;
// referenced, never owned, by matches.
type Player struct {
	ConnID      string
	DisplayName string
	Deck        []domain.Card // reserved for future draw mechanics
	HP          int
	MatchID     string // empty while unmatched
}

// Registry maps connection identity to session data. Entries are created on
// join and destroyed on disconnect; nothing survives the process.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*Player

	catalog *domain.Catalog
	rules   domain.Rules
}

// NewRegistry constructs a registry issuing decks from the given catalog.
func NewRegistry(catalog *domain.Catalog, rules domain.Rules) *Registry {
	return &Registry{
		players: make(map[string]*Player),
		catalog: catalog,
		rules:   rules,
	}
}

// Register creates a session for a new connection with a freshly issued deck,
// starting hit points and no match. Reusing a live connection id fails with
// ErrDuplicateConnection.
func (r *Registry) Register(connID, displayName string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[connID]; exists {
		return Player{}, ErrDuplicateConnection
	}

	p := &Player{
		ConnID:      connID,
		DisplayName: displayName,
		Deck:        r.catalog.Deck(),
		HP:          r.rules.StartingHP,
	}
	r.players[connID] = p
	return copyPlayer(p), nil
}

// Lookup returns a copy of the session for the connection, or ErrNotFound.
func (r *Registry) Lookup(connID string) (Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[connID]
	if !ok {
		return Player{}, ErrNotFound
	}
	return copyPlayer(p), nil
}

// Unregister removes the session. Idempotent; the caller is responsible for
// detaching the player from any match first.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, connID)
}

// Bind records the player's active match reference.
func (r *Registry) Bind(connID, matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[connID]; ok {
		p.MatchID = matchID
	}
}

// Detach clears the match reference for each given connection. Unknown or
// empty ids are ignored, so teardown paths can pass seats verbatim.
func (r *Registry) Detach(connIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range connIDs {
		if id == "" {
			continue
		}
		if p, ok := r.players[id]; ok {
			p.MatchID = ""
		}
	}
}

func copyPlayer(p *Player) Player {
	out := *p
	out.Deck = make([]domain.Card, len(p.Deck))
	copy(out.Deck, p.Deck)
	return out
}
