package economy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/store"
)

// UnlockResult is the outcome of a ship unlock attempt. AlreadyOwned and
// InsufficientFunds are non-fatal rejections; the caller decides how to
// present them.
type UnlockResult struct {
	Success           bool
	AlreadyOwned      bool
	InsufficientFunds bool

	CurrentGold  int
	RequiredGold int

	NewGold       int
	UnlockedShips []model.ShipID
}

// Service validates ship purchases against the class catalog.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a new economy service
func New(store store.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// UnlockShip debits the price of shipID from the player's gold and appends
// the class to their unlocked list. The debit and the append go out in a
// single save so a crash cannot separate them.
func (s *Service) UnlockShip(ctx context.Context, actorID model.PlayerID, shipID model.ShipID) (*UnlockResult, error) {
	class, ok := model.LookupShip(shipID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownShip, shipID)
	}

	player, err := s.store.GetPlayer(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if class.AlwaysOwned || player.HasShip(shipID) {
		return &UnlockResult{
			Success:       true,
			AlreadyOwned:  true,
			NewGold:       player.Gold,
			UnlockedShips: player.UnlockedShips,
		}, nil
	}

	if player.Gold < class.Price {
		return &UnlockResult{
			InsufficientFunds: true,
			CurrentGold:       player.Gold,
			RequiredGold:      class.Price,
			NewGold:           player.Gold,
			UnlockedShips:     player.UnlockedShips,
		}, nil
	}

	player.Gold -= class.Price
	player.UnlockedShips = append(player.UnlockedShips, shipID)
	if err := s.store.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("ship unlocked",
		slog.String("player_id", string(actorID)),
		slog.String("ship_id", string(shipID)),
		slog.Int("price", class.Price),
		slog.Int("new_gold", player.Gold),
	)

	return &UnlockResult{
		Success:       true,
		NewGold:       player.Gold,
		UnlockedShips: player.UnlockedShips,
	}, nil
}

// SetActiveShip switches the player's active ship to an unlocked class.
func (s *Service) SetActiveShip(ctx context.Context, actorID model.PlayerID, shipID model.ShipID) (*model.Player, error) {
	class, ok := model.LookupShip(shipID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownShip, shipID)
	}

	player, err := s.store.GetPlayer(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !class.AlwaysOwned && !player.HasShip(shipID) {
		return nil, fmt.Errorf("%w: %q", model.ErrShipLocked, shipID)
	}

	player.ActiveShip = shipID
	if err := s.store.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}
