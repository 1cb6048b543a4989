package models

import "time"

// Identity: то, что выдаёт шлюз аутентификации.
type Identity struct {
	UID   int    `json:"uid"`
	Email string `json:"email"`
}

// Profile: прикладная запись пользователя (роль, имя, команда).
type Profile struct {
	UID       int       `json:"uid"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Role      UserRole  `json:"role"`
	TeamID    *int      `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Credentials struct {
	UID          int
	Email        string
	PasswordHash string
}
