package models

import "time"

// Discipline: вариант футбола, определяющий словарь позиций.
type Discipline string

const (
	DisciplineFootball11 Discipline = "Fútbol 11"
	DisciplineFootball7  Discipline = "Fútbol 7"
	DisciplineFutsal     Discipline = "Fútbol Sala"
)

var Disciplines = []Discipline{DisciplineFootball11, DisciplineFootball7, DisciplineFutsal}

func (d Discipline) Valid() bool {
	for _, known := range Disciplines {
		if d == known {
			return true
		}
	}
	return false
}

type Team struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Country     string     `json:"country" db:"country"`
	Discipline  Discipline `json:"discipline" db:"discipline"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
