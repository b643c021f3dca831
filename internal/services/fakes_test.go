package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/worldcup-api/apiserver/internal/storage"
	"github.com/worldcup-api/apiserver/internal/store"
	"github.com/worldcup-api/apiserver/types"
)

type memUsers struct {
	mu        sync.Mutex
	byID      map[int]types.User
	nextID    int
	getErr    error
	createErr error
	updateErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int]types.User{}, nextID: 1}
}

func (m *memUsers) GetByID(ctx context.Context, id int) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return types.User{}, m.getErr
	}
	user, ok := m.byID[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return types.User{}, m.getErr
	}
	for _, user := range m.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUsers) Create(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return types.User{}, m.createErr
	}
	user.ID = m.nextID
	m.nextID++
	m.byID[user.ID] = user
	return user, nil
}

func (m *memUsers) UpdateRefreshToken(ctx context.Context, id int, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	user, ok := m.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	user.RefreshToken = refreshToken
	m.byID[id] = user
	return nil
}

func (m *memUsers) remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

type memTeams struct {
	teams     map[int]types.Team
	nextID    int
	updateErr error
}

func newMemTeams(teams ...types.Team) *memTeams {
	m := &memTeams{teams: map[int]types.Team{}, nextID: 1}
	for _, team := range teams {
		m.teams[team.ID] = team
		if team.ID >= m.nextID {
			m.nextID = team.ID + 1
		}
	}
	return m
}

func (m *memTeams) List(ctx context.Context) ([]types.Team, error) {
	out := make([]types.Team, 0, len(m.teams))
	for id := 1; id < m.nextID; id++ {
		if team, ok := m.teams[id]; ok {
			out = append(out, team)
		}
	}
	return out, nil
}

func (m *memTeams) Get(ctx context.Context, id int) (types.Team, error) {
	team, ok := m.teams[id]
	if !ok {
		return types.Team{}, store.ErrNotFound
	}
	return team, nil
}

func (m *memTeams) Create(ctx context.Context, team types.Team) (types.Team, error) {
	team.ID = m.nextID
	m.nextID++
	m.teams[team.ID] = team
	return team, nil
}

func (m *memTeams) Update(ctx context.Context, team types.Team) (types.Team, error) {
	if m.updateErr != nil {
		return types.Team{}, m.updateErr
	}
	if _, ok := m.teams[team.ID]; !ok {
		return types.Team{}, store.ErrNotFound
	}
	m.teams[team.ID] = team
	return team, nil
}

func (m *memTeams) Delete(ctx context.Context, id int) error {
	if _, ok := m.teams[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.teams, id)
	return nil
}

type memObjects struct {
	objects   map[string][]byte
	types     map[string]string
	putErr    error
	deleteErr error
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memObjects) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memObjects) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	info := storage.ObjectInfo{ContentType: m.types[key], Size: int64(len(data))}
	return io.NopCloser(bytes.NewReader(data)), info, nil
}

func (m *memObjects) Delete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, key)
	return nil
}

type memPlayers struct {
	players map[int]types.Player
	nextID  int
}

func newMemPlayers(players ...types.Player) *memPlayers {
	m := &memPlayers{players: map[int]types.Player{}, nextID: 1}
	for _, player := range players {
		m.players[player.ID] = player
		if player.ID >= m.nextID {
			m.nextID = player.ID + 1
		}
	}
	return m
}

func (m *memPlayers) List(ctx context.Context) ([]types.Player, error) {
	out := make([]types.Player, 0, len(m.players))
	for id := 1; id < m.nextID; id++ {
		if player, ok := m.players[id]; ok {
			out = append(out, player)
		}
	}
	return out, nil
}

func (m *memPlayers) Get(ctx context.Context, id int) (types.Player, error) {
	player, ok := m.players[id]
	if !ok {
		return types.Player{}, store.ErrNotFound
	}
	return player, nil
}

func (m *memPlayers) Create(ctx context.Context, player types.Player) (types.Player, error) {
	if player.TeamID == 99 {
		return types.Player{}, store.ErrReferenceMissing
	}
	player.ID = m.nextID
	m.nextID++
	m.players[player.ID] = player
	return player, nil
}

func (m *memPlayers) Update(ctx context.Context, player types.Player) (types.Player, error) {
	if _, ok := m.players[player.ID]; !ok {
		return types.Player{}, store.ErrNotFound
	}
	m.players[player.ID] = player
	return player, nil
}

func (m *memPlayers) Delete(ctx context.Context, id int) error {
	if _, ok := m.players[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.players, id)
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
	attrs    []map[string]string
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, data)
	p.attrs = append(p.attrs, attrs)
	return "id", nil
}

var errBoom = errors.New("boom")
