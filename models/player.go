package models

import "time"

type Player struct {
	ID          int       `json:"id" db:"id"`
	TeamID      int       `json:"team_id" db:"team_id"`
	Name        string    `json:"name" db:"name"`
	Surname     string    `json:"surname" db:"surname"`
	Nickname    string    `json:"nickname,omitempty" db:"nickname"`
	BirthDate   time.Time `json:"birth_date" db:"birth_date"`
	Nationality string    `json:"nationality" db:"nationality"`
	Number      int       `json:"number" db:"number"`
	Position    string    `json:"position" db:"position"`
	Laterality  string    `json:"laterality,omitempty" db:"laterality"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Age is derived from BirthDate on every read and never stored.
	Age int `json:"age" db:"-"`
}
