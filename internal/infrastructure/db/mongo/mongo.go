package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store bundles the library repositories backed by one MongoDB database.
type Store struct {
	client *mongo.Client

	Credentials *CredentialRepository
	Students    *StudentRepository
	Audit       *AuditRepository
}

// Open connects to MongoDB, pings the primary and ensures the indexes the
// repositories rely on for uniqueness.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:      client,
		Credentials: NewCredentialRepository(db),
		Students:    NewStudentRepository(db),
		Audit:       NewAuditRepository(db),
	}

	if err := s.Credentials.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("credential indexes: %w", err)
	}
	if err := s.Students.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("student indexes: %w", err)
	}
	return s, nil
}

// Ping is used as the readiness probe for the document store.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
