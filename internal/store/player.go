package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/worldcup-api/apiserver/types"
)

// PlayerRepository handles persistence for players. Reads join the owning team.
type PlayerRepository struct {
	db *sql.DB
}

func NewPlayerRepository(db *sql.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerSelect = `
		SELECT j.id, j.nome, j.posicao, j.numero_camisa, j.selecao_id,
		       s.id, s.nome, s.grupo, s.titulos, s.flag_key
		FROM jogadores j
		LEFT JOIN selecoes s ON s.id = j.selecao_id`

func (r *PlayerRepository) List(ctx context.Context) ([]types.Player, error) {
	rows, err := r.db.QueryContext(ctx, playerSelect+`
		ORDER BY j.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]types.Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *PlayerRepository) Get(ctx context.Context, id int) (types.Player, error) {
	player, err := scanPlayer(r.db.QueryRowContext(ctx, playerSelect+`
		WHERE j.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Player{}, ErrNotFound
		}
		return types.Player{}, err
	}
	return player, nil
}

func (r *PlayerRepository) Create(ctx context.Context, player types.Player) (types.Player, error) {
	const query = `
		INSERT INTO jogadores (nome, posicao, numero_camisa, selecao_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		player.Name,
		string(player.Position),
		player.ShirtNumber,
		player.TeamID,
	).Scan(&player.ID); err != nil {
		return types.Player{}, translateError(err)
	}
	return player, nil
}

func (r *PlayerRepository) Update(ctx context.Context, player types.Player) (types.Player, error) {
	const query = `
		UPDATE jogadores
		SET nome = $1,
			posicao = $2,
			numero_camisa = $3,
			selecao_id = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(
		ctx,
		query,
		player.Name,
		string(player.Position),
		player.ShirtNumber,
		player.TeamID,
		player.ID,
	)
	if err != nil {
		return types.Player{}, translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Player{}, err
	}
	if affected == 0 {
		return types.Player{}, ErrNotFound
	}
	return player, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM jogadores WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPlayer(row rowScanner) (types.Player, error) {
	var player types.Player
	var position string
	var teamID sql.NullInt64
	var teamName, teamGroup, flagKey sql.NullString
	var teamTitles sql.NullInt64
	if err := row.Scan(
		&player.ID,
		&player.Name,
		&position,
		&player.ShirtNumber,
		&player.TeamID,
		&teamID,
		&teamName,
		&teamGroup,
		&teamTitles,
		&flagKey,
	); err != nil {
		return types.Player{}, err
	}
	player.Position = types.Position(position)
	if teamID.Valid {
		player.Team = &types.Team{
			ID:      int(teamID.Int64),
			Name:    teamName.String,
			Group:   teamGroup.String,
			Titles:  int(teamTitles.Int64),
			FlagKey: flagKey.String,
		}
	}
	return player, nil
}
