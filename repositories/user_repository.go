package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-admin/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
	ErrUserTeamInvalid   = errors.New("user team conflict or invalid")
)

type UserRepository interface {
	Create(ctx context.Context, profile *models.Profile, passwordHash string) error
	GetByID(ctx context.Context, id int) (*models.Profile, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*models.Credentials, error)
	List(ctx context.Context) ([]models.Profile, error)
	UpdateAssignment(ctx context.Context, id int, role models.UserRole, teamID *int) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, email, first_name, last_name, phone, role, team_id, created_at`

func (r *postgresUserRepository) Create(ctx context.Context, profile *models.Profile, passwordHash string) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, phone, role, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		profile.Email,
		passwordHash,
		profile.FirstName,
		profile.LastName,
		profile.Phone,
		profile.Role,
		nullInt(profile.TeamID),
	).Scan(&profile.UID, &profile.CreatedAt)

	if err != nil {
		return mapUserWriteError(err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user %d: %w", id, err)
	}
	return profile, nil
}

func (r *postgresUserRepository) GetCredentialsByEmail(ctx context.Context, email string) (*models.Credentials, error) {
	query := `SELECT id, email, password_hash FROM users WHERE email = $1`

	var creds models.Credentials
	err := r.db.QueryRowContext(ctx, query, email).Scan(&creds.UID, &creds.Email, &creds.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan credentials: %w", err)
	}
	return &creds, nil
}

func (r *postgresUserRepository) List(ctx context.Context) ([]models.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY last_name, first_name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return profiles, nil
}

func (r *postgresUserRepository) UpdateAssignment(ctx context.Context, id int, role models.UserRole, teamID *int) error {
	query := `UPDATE users SET role = $1, team_id = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, role, nullInt(teamID), id)
	if err != nil {
		return mapUserWriteError(err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var teamID sql.NullInt64
	err := row.Scan(&p.UID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &p.Role, &teamID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.TeamID = intPtr(teamID)
	return &p, nil
}

func mapUserWriteError(err error) error {
	code, constraint, ok := constraintViolation(err)
	if ok {
		switch code {
		case pqUniqueViolation:
			if constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		case pqForeignKeyViolation:
			if constraint == "users_team_id_fkey" {
				return ErrUserTeamInvalid
			}
		}
	}
	return err
}
