// Package memstore provides in-memory repositories with the same contract as
// the PostgreSQL ones in package store. They back handler and server tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/worldcup-api/apiserver/internal/store"
	"github.com/worldcup-api/apiserver/types"
)

// Users is an in-memory credential store.
type Users struct {
	mu     sync.Mutex
	users  map[int]types.User
	nextID int
}

func NewUsers() *Users {
	return &Users{users: map[int]types.User{}, nextID: 1}
}

func (u *Users) GetByID(ctx context.Context, id int) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (u *Users) GetByEmail(ctx context.Context, email string) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (u *Users) Create(ctx context.Context, user types.User) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = u.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	u.nextID++
	u.users[user.ID] = user
	return user, nil
}

func (u *Users) UpdateRefreshToken(ctx context.Context, id int, refreshToken string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.RefreshToken = refreshToken
	user.UpdatedAt = time.Now().UTC()
	u.users[id] = user
	return nil
}

// Teams is an in-memory team repository.
type Teams struct {
	mu     sync.Mutex
	teams  map[int]types.Team
	nextID int
	// players is notified on delete to cascade.
	players *Players
}

func NewTeams() *Teams {
	return &Teams{teams: map[int]types.Team{}, nextID: 1}
}

func (t *Teams) List(ctx context.Context) ([]types.Team, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.Team, 0, len(t.teams))
	for _, team := range t.teams {
		out = append(out, team)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *Teams) Get(ctx context.Context, id int) (types.Team, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	team, ok := t.teams[id]
	if !ok {
		return types.Team{}, store.ErrNotFound
	}
	return team, nil
}

func (t *Teams) Create(ctx context.Context, team types.Team) (types.Team, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	team.ID = t.nextID
	t.nextID++
	t.teams[team.ID] = team
	return team, nil
}

func (t *Teams) Update(ctx context.Context, team types.Team) (types.Team, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.teams[team.ID]; !ok {
		return types.Team{}, store.ErrNotFound
	}
	t.teams[team.ID] = team
	return team, nil
}

func (t *Teams) Delete(ctx context.Context, id int) error {
	t.mu.Lock()
	if _, ok := t.teams[id]; !ok {
		t.mu.Unlock()
		return store.ErrNotFound
	}
	delete(t.teams, id)
	players := t.players
	t.mu.Unlock()

	if players != nil {
		players.deleteByTeam(id)
	}
	return nil
}

// Players is an in-memory player repository. Reads join the owning team.
type Players struct {
	mu      sync.Mutex
	players map[int]types.Player
	nextID  int
	teams   *Teams
}

// NewPlayers links the player repository to teams for joins, reference
// checks and cascading deletes.
func NewPlayers(teams *Teams) *Players {
	p := &Players{players: map[int]types.Player{}, nextID: 1, teams: teams}
	teams.mu.Lock()
	teams.players = p
	teams.mu.Unlock()
	return p
}

func (p *Players) List(ctx context.Context) ([]types.Player, error) {
	p.mu.Lock()
	out := make([]types.Player, 0, len(p.players))
	for _, player := range p.players {
		out = append(out, player)
	}
	p.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	for i := range out {
		out[i] = p.join(ctx, out[i])
	}
	return out, nil
}

func (p *Players) Get(ctx context.Context, id int) (types.Player, error) {
	p.mu.Lock()
	player, ok := p.players[id]
	p.mu.Unlock()
	if !ok {
		return types.Player{}, store.ErrNotFound
	}
	return p.join(ctx, player), nil
}

func (p *Players) Create(ctx context.Context, player types.Player) (types.Player, error) {
	if _, err := p.teams.Get(ctx, player.TeamID); err != nil {
		return types.Player{}, store.ErrReferenceMissing
	}

	p.mu.Lock()
	player.ID = p.nextID
	player.Team = nil
	p.nextID++
	p.players[player.ID] = player
	p.mu.Unlock()

	return p.join(ctx, player), nil
}

func (p *Players) Update(ctx context.Context, player types.Player) (types.Player, error) {
	if _, err := p.teams.Get(ctx, player.TeamID); err != nil {
		return types.Player{}, store.ErrReferenceMissing
	}

	p.mu.Lock()
	if _, ok := p.players[player.ID]; !ok {
		p.mu.Unlock()
		return types.Player{}, store.ErrNotFound
	}
	player.Team = nil
	p.players[player.ID] = player
	p.mu.Unlock()

	return p.join(ctx, player), nil
}

func (p *Players) Delete(ctx context.Context, id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.players[id]; !ok {
		return store.ErrNotFound
	}
	delete(p.players, id)
	return nil
}

func (p *Players) deleteByTeam(teamID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, player := range p.players {
		if player.TeamID == teamID {
			delete(p.players, id)
		}
	}
}

func (p *Players) join(ctx context.Context, player types.Player) types.Player {
	if team, err := p.teams.Get(ctx, player.TeamID); err == nil {
		player.Team = &team
	}
	return player
}
