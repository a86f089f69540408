package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
)

const collectionStudents = "students"

type StudentRepository struct {
	col *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{col: db.Collection(collectionStudents)}
}

type mongoStudent struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	IdentityID    string             `bson:"identity_id"`
	Username      string             `bson:"username"`
	FirstName     string             `bson:"first_name"`
	LastName      string             `bson:"last_name"`
	Email         string             `bson:"email"`
	StudentNumber string             `bson:"student_number"`
	Department    string             `bson:"department"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (ms mongoStudent) toDomain() *domain.Student {
	return &domain.Student{
		ID:            ms.ID.Hex(),
		IdentityID:    ms.IdentityID,
		Username:      ms.Username,
		FirstName:     ms.FirstName,
		LastName:      ms.LastName,
		Email:         ms.Email,
		StudentNumber: ms.StudentNumber,
		Department:    ms.Department,
		CreatedAt:     ms.CreatedAt.UTC(),
		UpdatedAt:     ms.UpdatedAt.UTC(),
	}
}

// Create inserts a new student document and sets s.ID.
func (r *StudentRepository) Create(ctx context.Context, s *domain.Student) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoStudent{
		ID:            primitive.NewObjectID(),
		IdentityID:    s.IdentityID,
		Username:      s.Username,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Email:         s.Email,
		StudentNumber: s.StudentNumber,
		Department:    s.Department,
		CreatedAt:     s.CreatedAt.UTC(),
		UpdatedAt:     s.UpdatedAt.UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrStudentExists
		}
		return fmt.Errorf("insert student: %w", err)
	}
	s.ID = doc.ID.Hex()
	return nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStudentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoStudent
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return ms.toDomain(), nil
}

// List returns one page of students, newest first, plus the total match count.
func (r *StudentRepository) List(ctx context.Context, f ports.ListStudentsFilter) ([]*domain.Student, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := studentFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find students: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoStudent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode students: %w", err)
	}

	out := make([]*domain.Student, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

// studentFilter builds the query document for f. Search is matched as a
// case-insensitive literal substring.
func studentFilter(f ports.ListStudentsFilter) bson.M {
	filter := bson.M{}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"first_name": re},
			bson.M{"last_name": re},
			bson.M{"username": re},
			bson.M{"email": re},
		}
	}
	return filter
}

func (r *StudentRepository) Update(ctx context.Context, s *domain.Student) error {
	oid, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return domain.ErrStudentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"username":       s.Username,
		"first_name":     s.FirstName,
		"last_name":      s.LastName,
		"student_number": s.StudentNumber,
		"department":     s.Department,
		"updated_at":     s.UpdatedAt.UTC(),
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrStudentExists
		}
		return fmt.Errorf("update student: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrStudentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the students collection.
func (r *StudentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "student_number", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"student_number": bson.M{"$gt": ""}}),
		},
		{Keys: bson.D{{Key: "identity_id", Value: 1}}},
		{Keys: bson.D{{Key: "department", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
