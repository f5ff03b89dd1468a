package loot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/store"
)

// Config holds loot tuning values
type Config struct {
	LootRange float64
}

// DefaultConfig returns default loot configuration
func DefaultConfig() Config {
	return Config{LootRange: 100}
}

// Result is the payload granted by a successful loot.
type Result struct {
	Gold    int
	Items   []model.LootItem
	NewGold int
}

// Service validates shipwreck looting. A wreck is lootable exactly once;
// a second attempt rejects without touching gold on either side.
type Service struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config
}

// New creates a new loot service
func New(store store.Store, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	return &Service{store: store, clock: clock, logger: logger, cfg: cfg}
}

// Loot transfers a wreck's contents to the actor. The wreck is marked looted
// and the actor credited in one save per record.
func (s *Service) Loot(ctx context.Context, actorID model.PlayerID, wreckID model.ShipwreckID) (*Result, error) {
	actor, err := s.store.GetPlayer(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.IsSunk {
		return nil, model.ErrPlayerSunk
	}

	wreck, err := s.store.GetShipwreck(ctx, wreckID)
	if err != nil {
		return nil, err
	}
	if wreck.Looted {
		return nil, model.ErrAlreadyLooted
	}

	if model.Distance(actor.Position, wreck.Position) > s.cfg.LootRange {
		return nil, model.ErrLootOutOfRange
	}

	now := s.clock.Now()

	wreck.Looted = true
	wreck.LootedBy = actorID
	wreck.LootedAt = now
	if err := s.store.SaveShipwreck(ctx, wreck); err != nil {
		return nil, err
	}

	actor.Gold += wreck.Loot.Gold
	for i, item := range wreck.Loot.Items {
		actor.Inventory = append(actor.Inventory, model.LootItem{
			Key:  fmt.Sprintf("%d-%d", now.UnixMilli(), i),
			Name: item.Name,
		})
	}
	if err := s.store.SavePlayer(ctx, actor); err != nil {
		return nil, err
	}

	s.logger.Info("shipwreck looted",
		slog.String("player_id", string(actorID)),
		slog.String("wreck_id", string(wreckID)),
		slog.Int("gold", wreck.Loot.Gold),
		slog.Int("items", len(wreck.Loot.Items)),
	)

	return &Result{
		Gold:    wreck.Loot.Gold,
		Items:   wreck.Loot.Items,
		NewGold: actor.Gold,
	}, nil
}
