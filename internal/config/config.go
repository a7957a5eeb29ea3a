package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// CardEntry is one catalog card in the config file.
type CardEntry struct {
	Kind      string `json:"kind"`
	Magnitude int    `json:"magnitude"`
}

// GameConfig carries the duel parameters loaded at module init. Card content
// and balance are configuration data, not logic.
type GameConfig struct {
	StartingHP int `json:"starting_hp"`
	// HealCap bounds hit points after healing when > 0; 0 leaves healing
	// uncapped, the baseline behavior.
	HealCap int         `json:"heal_cap"`
	Deck    []CardEntry `json:"deck"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the duel configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global duel configuration, nil when never loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetStartingHP returns the configured starting hit points, or the default.
func GetStartingHP() int {
	if cfg == nil || cfg.StartingHP <= 0 {
		return 20 // Safe default
	}
	return cfg.StartingHP
}

// GetHealCap returns the configured heal cap; 0 means uncapped.
func GetHealCap() int {
	if cfg == nil || cfg.HealCap < 0 {
		return 0
	}
	return cfg.HealCap
}

// GetDeck returns the configured deck entries, or the baseline four cards.
func GetDeck() []CardEntry {
	if cfg == nil || len(cfg.Deck) == 0 {
		return []CardEntry{
			{Kind: "attack", Magnitude: 5},
			{Kind: "defend", Magnitude: 3},
			{Kind: "heal", Magnitude: 4},
			{Kind: "special", Magnitude: 2},
		}
	}
	return cfg.Deck
}
