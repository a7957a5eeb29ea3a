package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"carduel/internal/app"
	"carduel/internal/config"
	"carduel/internal/domain"
)

const gameConfigPath = "data/game_config.json"

// InitModule wires RPCs, the duel match handler and session hooks for the
// Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("Game config not loaded, using defaults: %v", err)
	}

	rules := domain.Rules{
		StartingHP: config.GetStartingHP(),
		HealCap:    config.GetHealCap(),
	}
	engine := app.NewService(catalogFromConfig(config.GetDeck()), rules, func() (string, error) {
		return nk.MatchCreate(ctx, MatchNameDuel, nil)
	})

	if err := RegisterRPCs(initializer, engine); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameDuel, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(engine), nil
	}); err != nil {
		return err
	}

	if err := RegisterSessionEvents(initializer, engine, nk); err != nil {
		return err
	}

	logger.Info("Card duel module loaded.")
	return nil
}

func catalogFromConfig(entries []config.CardEntry) *domain.Catalog {
	if len(entries) == 0 {
		return domain.DefaultCatalog()
	}
	cards := make([]domain.Card, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, domain.Card{Kind: domain.CardKind(e.Kind), Magnitude: e.Magnitude})
	}
	return domain.NewCatalog(cards)
}
