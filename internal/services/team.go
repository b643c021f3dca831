package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/worldcup-api/apiserver/internal/storage"
	"github.com/worldcup-api/apiserver/types"
)

// ErrStorageDisabled is returned by flag operations when no object store is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// ErrNoFlag is returned when a team has no flag image.
var ErrNoFlag = errors.New("team has no flag")

// TeamRepository defines persistence operations for teams.
type TeamRepository interface {
	List(ctx context.Context) ([]types.Team, error)
	Get(ctx context.Context, id int) (types.Team, error)
	Create(ctx context.Context, team types.Team) (types.Team, error)
	Update(ctx context.Context, team types.Team) (types.Team, error)
	Delete(ctx context.Context, id int) error
}

// ObjectStore holds binary objects such as flag images.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// TeamService encapsulates team use-cases.
type TeamService struct {
	repo    TeamRepository
	objects ObjectStore
	logger  *slog.Logger
}

// NewTeamService builds the service. objects may be nil, which disables flag images.
func NewTeamService(repo TeamRepository, objects ObjectStore, logger *slog.Logger) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamService{repo: repo, objects: objects, logger: logger}
}

func (s *TeamService) List(ctx context.Context) ([]types.Team, error) {
	return s.repo.List(ctx)
}

func (s *TeamService) Get(ctx context.Context, id int) (types.Team, error) {
	return s.repo.Get(ctx, id)
}

func (s *TeamService) Create(ctx context.Context, team types.Team) (types.Team, error) {
	return s.repo.Create(ctx, team)
}

// Update applies the non-nil fields of update to an existing team.
func (s *TeamService) Update(ctx context.Context, id int, update types.TeamUpdate) (types.Team, error) {
	team, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Team{}, err
	}
	if update.Name != nil {
		team.Name = *update.Name
	}
	if update.Group != nil {
		team.Group = *update.Group
	}
	if update.Titles != nil {
		team.Titles = *update.Titles
	}
	return s.repo.Update(ctx, team)
}

func (s *TeamService) Delete(ctx context.Context, id int) error {
	team, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if team.FlagKey != "" {
		s.removeObject(ctx, team.FlagKey)
	}
	return nil
}

// SetFlag stores a flag image for the team and replaces any previous one.
func (s *TeamService) SetFlag(ctx context.Context, id int, data []byte, contentType, ext string) (types.Team, error) {
	if s.objects == nil {
		return types.Team{}, ErrStorageDisabled
	}

	team, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Team{}, err
	}

	key := fmt.Sprintf("flags/%d/%s%s", team.ID, uuid.NewString(), ext)
	if err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return types.Team{}, fmt.Errorf("upload flag: %w", err)
	}

	previous := team.FlagKey
	team.FlagKey = key
	updated, err := s.repo.Update(ctx, team)
	if err != nil {
		s.removeObject(ctx, key)
		return types.Team{}, err
	}
	if previous != "" {
		s.removeObject(ctx, previous)
	}
	return updated, nil
}

// OpenFlag returns a reader over the team's flag image. The caller closes it.
func (s *TeamService) OpenFlag(ctx context.Context, id int) (io.ReadCloser, storage.ObjectInfo, error) {
	if s.objects == nil {
		return nil, storage.ObjectInfo{}, ErrStorageDisabled
	}

	team, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	if team.FlagKey == "" {
		return nil, storage.ObjectInfo{}, ErrNoFlag
	}
	return s.objects.Get(ctx, team.FlagKey)
}

func (s *TeamService) removeObject(ctx context.Context, key string) {
	if s.objects == nil {
		return
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "delete flag object", "key", key, "error", err)
	}
}
