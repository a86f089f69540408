package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

const collectionLoginEvents = "login_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionLoginEvents)}
}

// InsertLoginEvent persists one login attempt to the login_events collection.
func (r *AuditRepository) InsertLoginEvent(ctx context.Context, e *domain.LoginEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, loginEventDoc(e, time.Now()))
	return err
}

func loginEventDoc(e *domain.LoginEvent, recordedAt time.Time) bson.M {
	return bson.M{
		"email":       e.Email,
		"role":        string(e.Role),
		"outcome":     string(e.Outcome),
		"remote_ip":   e.RemoteIP,
		"occurred_at": e.OccurredAt.UTC(),
		"recorded_at": recordedAt.UTC(),
	}
}
