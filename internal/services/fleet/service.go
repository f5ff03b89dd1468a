package fleet

import (
	"context"
	"log/slog"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/store"
)

// Service handles owning-client movement writes and world reads. It never
// touches combat or economy fields; those belong to the validators.
type Service struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new fleet service
func New(store store.Store, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{store: store, clock: clock, logger: logger}
}

// UpdateState applies a movement report from the owning client. Sunk ships
// cannot move until reset.
func (s *Service) UpdateState(ctx context.Context, actorID model.PlayerID, pos model.Vec3, rotation float64, dest *model.Vec3) (*model.Player, error) {
	player, err := s.store.GetPlayer(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if player.IsSunk {
		return nil, model.ErrPlayerSunk
	}

	player.Position = pos
	player.Rotation = model.NormalizeAngle(rotation)
	player.Destination = dest
	player.IsOnline = true
	player.LastUpdated = s.clock.Now()

	if err := s.store.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// Snapshot is a read-only view of the live world, broadcast over the feed
// and served to world queries.
type Snapshot struct {
	Players    []*model.Player
	EnemyShips []*model.EnemyShip
	Shipwrecks []*model.Shipwreck
}

// Snapshot lists the current world state. Offline players are filtered out;
// sunk but online players remain visible so observers render the sinking.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	online := players[:0]
	for _, p := range players {
		if p.IsOnline {
			online = append(online, p)
		}
	}

	enemies, err := s.store.ListEnemyShips(ctx)
	if err != nil {
		return nil, err
	}

	wrecks, err := s.store.ListShipwrecks(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Players: online, EnemyShips: enemies, Shipwrecks: wrecks}, nil
}

// SetOffline marks a player offline without deleting anything.
func (s *Service) SetOffline(ctx context.Context, actorID model.PlayerID) error {
	player, err := s.store.GetPlayer(ctx, actorID)
	if err != nil {
		return err
	}
	if !player.IsOnline {
		return nil
	}

	player.IsOnline = false
	player.LastUpdated = s.clock.Now()
	if err := s.store.SavePlayer(ctx, player); err != nil {
		return err
	}

	s.logger.Info("player marked offline", slog.String("player_id", string(actorID)))
	return nil
}

// GetPlayer returns a single player record.
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.store.GetPlayer(ctx, id)
}
