package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/club-admin/models"
)

var teamRowColumns = []string{"id", "name", "country", "discipline", "description", "logo_key", "created_at"}

func TestTeamRepositoryCreate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresTeamRepository(db)
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO teams").
		WithArgs("Atlético Sur", "España", "Fútbol 7", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, created))

	team := &models.Team{Name: "Atlético Sur", Country: "España", Discipline: models.DisciplineFootball7}
	require.NoError(t, repo.Create(context.Background(), team))
	assert.Equal(t, 11, team.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryGetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresTeamRepository(db)
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM teams WHERE id = \\$1").
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows(teamRowColumns).
			AddRow(11, "Atlético Sur", "España", "Fútbol 7", "Club de barrio", "teams/11/logo.png", created))

	team, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, models.DisciplineFootball7, team.Discipline)
	require.NotNil(t, team.Description)
	assert.Equal(t, "Club de barrio", *team.Description)
	require.NotNil(t, team.LogoKey)
	assert.Equal(t, "teams/11/logo.png", *team.LogoKey)

	mock.ExpectQuery("SELECT (.+) FROM teams").WithArgs(12).WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), 12)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamRepositoryList(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresTeamRepository(db)
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM teams ORDER BY").
		WillReturnRows(sqlmock.NewRows(teamRowColumns).
			AddRow(1, "A", "Chile", "Fútbol 11", nil, nil, created).
			AddRow(2, "B", "Perú", "Fútbol Sala", nil, nil, created))

	teams, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Nil(t, teams[0].LogoKey)
	assert.Equal(t, models.DisciplineFutsal, teams[1].Discipline)
}

func TestTeamRepositoryUpdateLogoKey(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresTeamRepository(db)
	key := "teams/3/logo.png"

	mock.ExpectExec("UPDATE teams SET logo_key").
		WithArgs(key, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateLogoKey(context.Background(), 3, &key))

	mock.ExpectExec("UPDATE teams SET logo_key").
		WithArgs(nil, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateLogoKey(context.Background(), 4, nil), ErrTeamNotFound)
}
