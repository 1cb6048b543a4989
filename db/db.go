package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Pool: параметры пула соединений; нулевые значения заменяются значениями по умолчанию.
type Pool struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

func (p Pool) withDefaults() Pool {
	if p.MaxOpenConns <= 0 {
		p.MaxOpenConns = 25
	}
	if p.ConnMaxLifetime <= 0 {
		p.ConnMaxLifetime = 5 * time.Minute
	}
	if p.PingTimeout <= 0 {
		p.PingTimeout = 5 * time.Second
	}
	return p
}

// Connect открывает пул Postgres и проверяет его пингом.
func Connect(ctx context.Context, dsn string, pool Pool) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	pool = pool.withDefaults()
	conn.SetMaxOpenConns(pool.MaxOpenConns)
	conn.SetMaxIdleConns(pool.MaxOpenConns)
	conn.SetConnMaxLifetime(pool.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pool.PingTimeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to ping database within %v: %w", pool.PingTimeout, err),
			conn.Close(),
		)
	}
	return conn, nil
}
