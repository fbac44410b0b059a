// Package postgres provides save-slot persistence on PostgreSQL using pgx v5,
// with the schema managed by golang-migrate.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/game7/internal/config"
)

// HealthTimeout bounds a single Health call.
const HealthTimeout = 2 * time.Second

// ErrSchemaMissing is returned by Health when the database answers but the
// saves table has not been migrated.
var ErrSchemaMissing = errors.New("saves table missing; run cmd/migrate")

// Pool owns the connection pool behind the save-slot store.
type Pool struct {
	db *pgxpool.Pool
}

// NewPool connects to the save database described by cfg.
//
// Precondition: cfg must pass config validation with Enabled set.
// Postcondition: Returns a Pool that has answered one ping, or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "game7"

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{db: db}, nil
}

// Health reports whether save slots are usable: the database must answer
// within HealthTimeout and the saves table must exist.
//
// Precondition: The pool must not be closed.
func (p *Pool) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()

	var present bool
	err := p.db.QueryRow(ctx, `SELECT to_regclass('public.saves') IS NOT NULL`).Scan(&present)
	if err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if !present {
		return ErrSchemaMissing
	}
	return nil
}

// Saves returns a SaveRepository sharing this pool.
func (p *Pool) Saves() *SaveRepository {
	return NewSaveRepository(p.db)
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.db.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.db
}
