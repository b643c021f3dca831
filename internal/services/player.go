package services

import (
	"context"

	"github.com/worldcup-api/apiserver/types"
)

// PlayerRepository defines persistence operations for players.
type PlayerRepository interface {
	List(ctx context.Context) ([]types.Player, error)
	Get(ctx context.Context, id int) (types.Player, error)
	Create(ctx context.Context, player types.Player) (types.Player, error)
	Update(ctx context.Context, player types.Player) (types.Player, error)
	Delete(ctx context.Context, id int) error
}

// PlayerService encapsulates player use-cases.
type PlayerService struct {
	repo PlayerRepository
}

func NewPlayerService(repo PlayerRepository) *PlayerService {
	return &PlayerService{repo: repo}
}

func (s *PlayerService) List(ctx context.Context) ([]types.Player, error) {
	return s.repo.List(ctx)
}

func (s *PlayerService) Get(ctx context.Context, id int) (types.Player, error) {
	return s.repo.Get(ctx, id)
}

func (s *PlayerService) Create(ctx context.Context, player types.Player) (types.Player, error) {
	return s.repo.Create(ctx, player)
}

// Update applies the non-nil fields of update to an existing player. The
// position, when present, must already be validated by the caller.
func (s *PlayerService) Update(ctx context.Context, id int, update types.PlayerUpdate) (types.Player, error) {
	player, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Player{}, err
	}
	if update.Name != nil {
		player.Name = *update.Name
	}
	if update.Position != nil {
		player.Position = types.Position(*update.Position)
	}
	if update.ShirtNumber != nil {
		player.ShirtNumber = *update.ShirtNumber
	}
	if update.TeamID != nil && *update.TeamID != player.TeamID {
		player.TeamID = *update.TeamID
		player.Team = nil
	}
	return s.repo.Update(ctx, player)
}

// Delete removes a player and returns the record as it was before deletion.
func (s *PlayerService) Delete(ctx context.Context, id int) (types.Player, error) {
	player, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Player{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return types.Player{}, err
	}
	return player, nil
}
