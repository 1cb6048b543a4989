package db

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddedMigrations(t *testing.T) fs.FS {
	t.Helper()
	files, err := fs.Sub(migrationsFS, "migrations")
	require.NoError(t, err)
	return files
}

func TestEmbeddedMigrationsAreVersioned(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	provider, err := newProvider(conn, embeddedMigrations(t))
	require.NoError(t, err)

	sources := provider.ListSources()
	require.Len(t, sources, 1)
	assert.Equal(t, int64(1), sources[0].Version)
	assert.Equal(t, goose.TypeSQL, sources[0].Type)
}

func TestMigrateWithoutMigrations(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err = migrate(context.Background(), conn, fstest.MapFS{}, logger)
	assert.ErrorIs(t, err, goose.ErrNoMigrations)
}

func TestMigrateReportsDatabaseFailure(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err = migrate(ctx, conn, embeddedMigrations(t), logger)
	assert.ErrorContains(t, err, "failed to apply migrations")
}

func TestEmbeddedMigrationsAnnotated(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "-- +goose Down")
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS players")
}
