package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate применяет встроенные SQL-миграции через goose. Версии хранятся в
// goose_db_version, а advisory-lock Postgres не даёт двум экземплярам
// сервера накатывать схему одновременно.
func Migrate(ctx context.Context, conn *sql.DB, logger *slog.Logger) error {
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("failed to create migration lock: %w", err)
	}
	files, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return migrate(ctx, conn, files, logger, goose.WithSessionLocker(locker))
}

func newProvider(conn *sql.DB, files fs.FS, opts ...goose.ProviderOption) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, conn, files, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return provider, nil
}

// Provider.Close не вызывается: он закрыл бы общий пул соединений.
func migrate(ctx context.Context, conn *sql.DB, files fs.FS, logger *slog.Logger, opts ...goose.ProviderOption) error {
	provider, err := newProvider(conn, files, opts...)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, res := range results {
		logger.Info("migration applied",
			slog.Int64("version", res.Source.Version),
			slog.String("file", res.Source.Path),
			slog.Duration("took", res.Duration),
		)
	}
	if len(results) == 0 {
		logger.Debug("schema is up to date")
	}
	return nil
}
