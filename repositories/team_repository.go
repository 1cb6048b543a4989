package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-admin/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, country, discipline, description, logo_key, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, country, discipline, description, logo_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	var description, logoKey sql.NullString
	if team.Description != nil {
		description = nullString(*team.Description)
	}
	if team.LogoKey != nil {
		logoKey = nullString(*team.LogoKey)
	}

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.Country,
		team.Discipline,
		description,
		logoKey,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE teams SET logo_key = $1 WHERE id = $2`

	var key sql.NullString
	if logoKey != nil {
		key = nullString(*logoKey)
	}

	result, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return fmt.Errorf("failed to update team logo: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	var description, logoKey sql.NullString
	err := row.Scan(&t.ID, &t.Name, &t.Country, &t.Discipline, &description, &logoKey, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Description = stringPtr(description)
	t.LogoKey = stringPtr(logoKey)
	return &t, nil
}
