package adapters

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"gadget_backend/internal/feature/auth/domain/entity"
	"gadget_backend/internal/feature/auth/usecase"
)

// UsersCollection is the Mongo collection holding user documents.
const UsersCollection = "users"

// userMongo is a MongoDB implementation of usecase.UserRepository.
type userMongo struct {
	coll *mongo.Collection
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo creates a repository backed by the users collection of db.
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{coll: db.Collection(UsersCollection)}
}

// EnsureIndexes creates the unique index on email that enforces one account per address.
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users.email index: %w", err)
	}
	return nil
}

// Create inserts u and writes the generated ObjectID back to u.ID.
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	doc := userDocument{Name: u.Name, Email: u.Email, Password: u.Password}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return nil
}

// FindByEmail returns the user with the given email, or usecase.ErrUserNotFound.
func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}
