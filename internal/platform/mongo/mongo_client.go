// Package mongo connects to the MongoDB document store.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 10 * time.Second

// NewMongoClient connects to uri and verifies the connection against the primary.
// The returned client is safe for concurrent use and must be disconnected by the caller.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		slog.Error("MongoDB connection failed", "error", err)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("Connected to MongoDB")
	return client, nil
}
