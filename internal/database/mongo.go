package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/shop-backend/internal/repository"
)

// ConnectMongo connects to MongoDB, verifies the connection and returns the
// client together with the named database.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetMaxPoolSize(25))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(dbName), nil
}

// EnsureMongoIndexes creates the unique email index the user store relies
// on for duplicate detection, and the index backing the per-user order
// listing. CreateOne is a no-op for indexes that already exist.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repository.UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uq_users_email"),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	_, err = db.Collection(repository.OrdersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index().SetName("idx_orders_user_date"),
	})
	if err != nil {
		return fmt.Errorf("orders index: %w", err)
	}
	return nil
}
