package types

// Team represents a national team ("seleção") taking part in the World Cup.
type Team struct {
	// ID is the unique identifier of the team.
	ID int `json:"id" db:"id"`

	// Name is the country name of the team.
	Name string `json:"nome" db:"nome"`

	// Group is the group-stage letter the team was drawn into.
	Group string `json:"grupo" db:"grupo"`

	// Titles is the number of World Cup titles won by the team.
	Titles int `json:"titulos" db:"titulos"`

	// FlagKey is the object-storage key of the team's flag image, if any.
	FlagKey string `json:"flagKey,omitempty" db:"flag_key"`
}

// TeamUpdate carries a partial team update. Nil fields are left untouched.
type TeamUpdate struct {
	Name   *string `json:"nome"`
	Group  *string `json:"grupo"`
	Titles *int    `json:"titulos"`
}
