package app

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Role is a player's part in the pairing outcome.
type Role string

const (
	RoleCreator Role = "creator"
	RoleJoiner  Role = "joiner"
)

// TokenSource mints identities for newly opened matches. The transport layer
// can supply one backed by its own match allocation; the default mints UUIDs.
type TokenSource func() (string, error)

// Matchmaker holds the active match set and pairs an incoming player with the
// first eligible waiting match, or opens a new one. FindOrCreate is atomic
// end to end: concurrent callers can never double-seat a waiting match or
// both open duplicates that could have paired with each other.
type Matchmaker struct {
	mu      sync.Mutex
	matches map[string]*Match
	order   []string // insertion order, for deterministic first-fit scans
	tokens  TokenSource
}

// NewMatchmaker constructs a matchmaker. A nil token source defaults to UUIDs.
func NewMatchmaker(tokens TokenSource) *Matchmaker {
	if tokens == nil {
		tokens = func() (string, error) { return uuid.NewString(), nil }
	}
	return &Matchmaker{
		matches: make(map[string]*Match),
		tokens:  tokens,
	}
}

// FindOrCreate pairs the requester as player B of the first waiting match
// whose creator is someone else, flipping it to playing with the turn on the
// creator. With no eligible match it mints a token and opens a waiting match
// with the requester as creator. bind, when non-nil, runs with the match
// token inside the critical section so the caller's registry reference can
// never go stale against a concurrent finish.
func (mm *Matchmaker) FindOrCreate(connID, displayName string, startingHP int, bind func(token string)) (*Match, Role, error) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	for _, token := range mm.order {
		m := mm.matches[token]
		if m == nil {
			continue
		}
		if m.tryJoin(connID, displayName) {
			if bind != nil {
				bind(token)
			}
			return m, RoleJoiner, nil
		}
	}

	token, err := mm.tokens()
	if err != nil {
		return nil, "", fmt.Errorf("mint match token: %w", err)
	}

	m := newMatch(token, connID, displayName, startingHP)
	mm.matches[token] = m
	mm.order = append(mm.order, token)
	if bind != nil {
		bind(token)
	}
	return m, RoleCreator, nil
}

// Get returns the active match for a token.
func (mm *Matchmaker) Get(token string) (*Match, bool) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	m, ok := mm.matches[token]
	return m, ok
}

// Remove deletes a match from the active set. Used on finish and on
// disconnect teardown; unknown tokens are ignored.
func (mm *Matchmaker) Remove(token string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if _, ok := mm.matches[token]; !ok {
		return
	}
	delete(mm.matches, token)
	for i, t := range mm.order {
		if t == token {
			mm.order = append(mm.order[:i], mm.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of active matches.
func (mm *Matchmaker) Len() int {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return len(mm.matches)
}
