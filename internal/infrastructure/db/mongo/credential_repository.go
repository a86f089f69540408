package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

const credentialCollection = "credentials"

// CredentialRepository implements ports.CredentialRepository using MongoDB.
type CredentialRepository struct {
	coll *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(credentialCollection)}
}

type mongoCredential struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (mc mongoCredential) toDomain() *domain.Credential {
	return &domain.Credential{
		ID:           mc.ID.Hex(),
		Email:        mc.Email,
		PasswordHash: mc.PasswordHash,
		Role:         domain.Role(mc.Role),
		CreatedAt:    unixToTime(mc.CreatedAt),
		UpdatedAt:    unixToTime(mc.UpdatedAt),
	}
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCredential{
		ID:           primitive.NewObjectID(),
		Email:        domain.NormalizeEmail(cred.Email),
		PasswordHash: cred.PasswordHash,
		Role:         cred.Role.String(),
		CreatedAt:    cred.CreatedAt.Unix(),
		UpdatedAt:    cred.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCredentialExists
		}
		return nil, fmt.Errorf("insert credential: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCredential
	err := r.coll.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCredentialNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index the login flow relies on.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
