package adapters

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"gadget_backend/internal/feature/catalog/domain/entity"
	"gadget_backend/internal/feature/catalog/usecase"
)

// catalogMongo is a MongoDB implementation of usecase.CatalogRepository.
// Each catalog collection maps to the Mongo collection of the same name.
type catalogMongo struct {
	db *mongo.Database
}

var _ usecase.CatalogRepository = (*catalogMongo)(nil)

// NewCatalogMongo creates a repository over db.
func NewCatalogMongo(db *mongo.Database) *catalogMongo {
	return &catalogMongo{db: db}
}

// EnsureIndexes creates the lookup index on products.productId.
// It is not unique: clients may submit the same productId twice.
func (r *catalogMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(entity.CollectionProducts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: entity.FieldProductID, Value: 1}},
		Options: options.Index().SetName("productId_lookup"),
	})
	if err != nil {
		return fmt.Errorf("failed to create products.productId index: %w", err)
	}
	return nil
}

// Insert stores doc; the driver assigns an ObjectID when doc has no "_id".
func (r *catalogMongo) Insert(ctx context.Context, collection string, doc entity.Document) error {
	if doc == nil {
		doc = entity.Document{}
	}
	if _, err := r.db.Collection(collection).InsertOne(ctx, bson.M(doc)); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return nil
}

// Find returns the documents matching filter in natural order.
func (r *catalogMongo) Find(ctx context.Context, collection string, filter entity.Filter) ([]entity.Document, error) {
	cur, err := r.db.Collection(collection).Find(ctx, toBSON(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	docs := []entity.Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		docs = append(docs, normalizeDocument(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor error on %s: %w", collection, err)
	}
	return docs, nil
}

// FindOne returns one document matching filter, or usecase.ErrNotFound.
func (r *catalogMongo) FindOne(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error) {
	var raw bson.M
	if err := r.db.Collection(collection).FindOne(ctx, toBSON(filter)).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	return normalizeDocument(raw), nil
}

// toBSON turns filter into an equality query. A string "_id" that parses as an ObjectID
// is matched as one so ids handed out by this store can be looked up again.
func toBSON(filter entity.Filter) bson.M {
	q := bson.M{}
	for field, want := range filter {
		if field == entity.FieldID {
			if oid, err := bson.ObjectIDFromHex(want); err == nil {
				q[field] = oid
				continue
			}
		}
		q[field] = want
	}
	return q
}

// normalizeDocument converts driver types into plain JSON-friendly values.
func normalizeDocument(raw bson.M) entity.Document {
	doc := make(entity.Document, len(raw))
	for k, v := range raw {
		doc[k] = normalizeValue(v)
	}
	return doc
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return map[string]any(normalizeDocument(t))
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case map[string]any:
		return map[string]any(normalizeDocument(bson.M(t)))
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case []any:
		return normalizeValue(bson.A(t))
	case bson.ObjectID:
		return t.Hex()
	case bson.DateTime:
		return t.Time().UTC()
	case bson.Decimal128:
		return t.String()
	default:
		return v
	}
}
