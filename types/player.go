package types

import "strings"

// Position is the field position of a player.
type Position string

const (
	PositionGoalkeeper Position = "GOLEIRO"
	PositionDefender   Position = "ZAGUEIRO"
	PositionFullback   Position = "LATERAL"
	PositionHolding    Position = "VOLANTE"
	PositionMidfielder Position = "MEIA"
	PositionForward    Position = "ATACANTE"
)

// ParsePosition normalises a raw position and reports whether it is known.
func ParsePosition(raw string) (Position, bool) {
	p := Position(strings.ToUpper(strings.TrimSpace(raw)))
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionFullback,
		PositionHolding, PositionMidfielder, PositionForward:
		return p, true
	}
	return "", false
}

// Player represents a squad member ("jogador") of a national team.
type Player struct {
	// ID is the unique identifier of the player.
	ID int `json:"id" db:"id"`

	// Name is the player's name.
	Name string `json:"nome" db:"nome"`

	// Position is the player's field position.
	Position Position `json:"posicao" db:"posicao"`

	// ShirtNumber is the squad number worn by the player.
	ShirtNumber int `json:"numeroCamisa" db:"numero_camisa"`

	// TeamID identifies the team the player belongs to.
	TeamID int `json:"selecaoId" db:"selecao_id"`

	// Team is the owning team, populated on reads.
	Team *Team `json:"selecao,omitempty" db:"-"`
}

// PlayerUpdate carries a partial player update. Nil fields are left untouched.
type PlayerUpdate struct {
	Name        *string `json:"nome"`
	Position    *string `json:"posicao"`
	ShirtNumber *int    `json:"numeroCamisa"`
	TeamID      *int    `json:"selecaoId"`
}
