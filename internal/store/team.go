package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/worldcup-api/apiserver/types"
)

// TeamRepository handles persistence for national teams.
type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]types.Team, error) {
	const query = `
		SELECT id, nome, grupo, titulos, flag_key
		FROM selecoes
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]types.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepository) Get(ctx context.Context, id int) (types.Team, error) {
	const query = `
		SELECT id, nome, grupo, titulos, flag_key
		FROM selecoes
		WHERE id = $1`
	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Team{}, ErrNotFound
		}
		return types.Team{}, err
	}
	return team, nil
}

func (r *TeamRepository) Create(ctx context.Context, team types.Team) (types.Team, error) {
	const query = `
		INSERT INTO selecoes (nome, grupo, titulos)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, team.Name, team.Group, team.Titles).Scan(&team.ID); err != nil {
		return types.Team{}, translateError(err)
	}
	return team, nil
}

func (r *TeamRepository) Update(ctx context.Context, team types.Team) (types.Team, error) {
	const query = `
		UPDATE selecoes
		SET nome = $1,
			grupo = $2,
			titulos = $3,
			flag_key = $4
		WHERE id = $5`
	flagKey := sql.NullString{String: team.FlagKey, Valid: team.FlagKey != ""}
	result, err := r.db.ExecContext(ctx, query, team.Name, team.Group, team.Titles, flagKey, team.ID)
	if err != nil {
		return types.Team{}, translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Team{}, err
	}
	if affected == 0 {
		return types.Team{}, ErrNotFound
	}
	return team, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM selecoes WHERE id = $1`
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (types.Team, error) {
	var team types.Team
	var flagKey sql.NullString
	if err := row.Scan(&team.ID, &team.Name, &team.Group, &team.Titles, &flagKey); err != nil {
		return types.Team{}, err
	}
	team.FlagKey = flagKey.String
	return team, nil
}
