package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldcup-api/apiserver/internal/store"
	"github.com/worldcup-api/apiserver/types"
)

func TestUsers_DuplicateEmail(t *testing.T) {
	users := NewUsers()
	ctx := context.Background()

	created, err := users.Create(ctx, types.User{Email: "a@x.io", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	_, err = users.Create(ctx, types.User{Email: "a@x.io", Name: "B"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	require.NoError(t, users.UpdateRefreshToken(ctx, 1, "r1"))
	got, err := users.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.RefreshToken)

	assert.ErrorIs(t, users.UpdateRefreshToken(ctx, 2, "r"), store.ErrNotFound)
}

func TestPlayers_JoinAndCascade(t *testing.T) {
	teams := NewTeams()
	players := NewPlayers(teams)
	ctx := context.Background()

	team, err := teams.Create(ctx, types.Team{Name: "Brasil", Group: "G", Titles: 5})
	require.NoError(t, err)

	_, err = players.Create(ctx, types.Player{Name: "X", Position: types.PositionForward, TeamID: 42})
	assert.ErrorIs(t, err, store.ErrReferenceMissing)

	player, err := players.Create(ctx, types.Player{Name: "Neymar", Position: types.PositionForward, ShirtNumber: 10, TeamID: team.ID})
	require.NoError(t, err)
	require.NotNil(t, player.Team)
	assert.Equal(t, "Brasil", player.Team.Name)

	require.NoError(t, teams.Delete(ctx, team.ID))
	_, err = players.Get(ctx, player.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
