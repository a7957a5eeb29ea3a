package domain

// Catalog is the immutable definition of the card kinds and magnitudes a
// player is issued. It hands out fresh deck copies; the catalog itself is
// never mutated after construction.
type Catalog struct {
	cards []Card
}

// NewCatalog builds a catalog from the given card set. The slice is copied.
func NewCatalog(cards []Card) *Catalog {
	c := &Catalog{cards: make([]Card, len(cards))}
	copy(c.cards, cards)
	return c
}

// DefaultCatalog returns the baseline four-card set.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Card{
		{Kind: KindAttack, Magnitude: 5},
		{Kind: KindDefend, Magnitude: 3},
		{Kind: KindHeal, Magnitude: 4},
		{Kind: KindSpecial, Magnitude: 2},
	})
}

// Deck issues a fresh deck instance. Callers own the returned slice.
func (c *Catalog) Deck() []Card {
	deck := make([]Card, len(c.cards))
	copy(deck, c.cards)
	return deck
}

// Size returns the number of cards in an issued deck.
func (c *Catalog) Size() int {
	return len(c.cards)
}

// Rules holds the numeric duel parameters.
type Rules struct {
	// StartingHP is each side's hit points at match start.
	StartingHP int
	// HealCap bounds hit points after a heal when > 0. Zero means uncapped.
	HealCap int
}

// DefaultRules returns the baseline rules: 20 starting hit points, uncapped healing.
func DefaultRules() Rules {
	return Rules{StartingHP: 20, HealCap: 0}
}
