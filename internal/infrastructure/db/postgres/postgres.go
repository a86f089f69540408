package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultTimeout = 10 * time.Second

	uniqueViolation = "23505"
)

// Config captures the settings for establishing a PostgreSQL pool.
type Config struct {
	DSN      string
	MaxConns int32
	Timeout  time.Duration
}

// Connect opens a pgx connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres: empty DSN")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Store bundles the library repositories backed by one PostgreSQL pool.
type Store struct {
	pool *pgxpool.Pool

	Credentials *CredentialRepository
	Students    *StudentRepository
	Audit       *AuditRepository
}

// Open applies pending migrations and then connects the pool.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := ApplyMigrations(cfg.DSN); err != nil {
		return nil, err
	}
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{
		pool:        pool,
		Credentials: NewCredentialRepository(pool),
		Students:    NewStudentRepository(pool),
		Audit:       NewAuditRepository(pool),
	}, nil
}

// Ping is used as the readiness probe for the relational store.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
