package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-admin/models"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerTeamInvalid = errors.New("player team does not exist")
)

type PlayerRepository interface {
	ListByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, team_id, name, surname, nickname, birth_date, nationality, number, position, laterality, created_at`

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for team %d: %w", teamID, err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, *player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %d: %w", id, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (team_id, name, surname, nickname, birth_date, nationality, number, position, laterality)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.TeamID,
		player.Name,
		player.Surname,
		nullString(player.Nickname),
		player.BirthDate,
		player.Nationality,
		player.Number,
		player.Position,
		nullString(player.Laterality),
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		if code, constraint, ok := constraintViolation(err); ok &&
			code == pqForeignKeyViolation && constraint == "players_team_id_fkey" {
			return ErrPlayerTeamInvalid
		}
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

// Update перезаписывает все поля игрока, кроме команды.
func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			name = $1,
			surname = $2,
			nickname = $3,
			birth_date = $4,
			nationality = $5,
			number = $6,
			position = $7,
			laterality = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		player.Name,
		player.Surname,
		nullString(player.Nickname),
		player.BirthDate,
		player.Nationality,
		player.Number,
		player.Position,
		nullString(player.Laterality),
		player.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", player.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	var nickname, laterality sql.NullString
	err := row.Scan(
		&p.ID,
		&p.TeamID,
		&p.Name,
		&p.Surname,
		&nickname,
		&p.BirthDate,
		&p.Nationality,
		&p.Number,
		&p.Position,
		&laterality,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Nickname = nickname.String
	p.Laterality = laterality.String
	return &p, nil
}
