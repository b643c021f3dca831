package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/worldcup-api/apiserver/internal/auth"
	"github.com/worldcup-api/apiserver/internal/services"
	"github.com/worldcup-api/apiserver/internal/storage"
	"github.com/worldcup-api/apiserver/internal/store/memstore"
)

type testEnv struct {
	router  http.Handler
	codec   *auth.TokenCodec
	users   *memstore.Users
	teams   *memstore.Teams
	players *memstore.Players
	objects *memObjects
}

type envOption func(*envConfig)

type envConfig struct {
	storageDisabled bool
}

func withoutStorage() envOption {
	return func(c *envConfig) { c.storageDisabled = true }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	var cfg envConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	codec, err := auth.NewTokenCodec("access-secret", "refresh-secret")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := memstore.NewUsers()
	teams := memstore.NewTeams()
	players := memstore.NewPlayers(teams)

	env := &testEnv{codec: codec, users: users, teams: teams, players: players}

	var objects services.ObjectStore
	if !cfg.storageDisabled {
		env.objects = &memObjects{data: map[string][]byte{}, types: map[string]string{}}
		objects = env.objects
	}

	authService := services.NewAuthService(users, auth.NewBcryptHasher(4), codec, services.WithAuthLogger(logger))
	teamService := services.NewTeamService(teams, objects, logger)
	playerService := services.NewPlayerService(players)
	gate := RequireAuth(codec)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		AuthRouter(r, authService, gate, logger)
	})
	r.Route("/v3", func(r chi.Router) {
		r.Use(gate)
		r.Route("/selecoes", func(r chi.Router) {
			TeamRouter(r, teamService, logger)
		})
		r.Route("/jogadores", func(r chi.Router) {
			PlayerRouter(r, playerService, logger)
		})
	})
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) accessToken(t *testing.T) string {
	t.Helper()
	token, err := e.codec.SignAccess(auth.TokenPayload{UserID: 1, Email: "a@b.com"})
	require.NoError(t, err)
	return token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type memObjects struct {
	data  map[string][]byte
	types map[string]string
}

func (m *memObjects) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.data[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memObjects) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{ContentType: m.types[key], Size: int64(len(data))}, nil
}

func (m *memObjects) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}
