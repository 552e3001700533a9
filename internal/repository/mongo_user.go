package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/shop-backend/internal/model"
)

// Collection names shared with database.EnsureMongoIndexes.
const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	OrdersCollection   = "orders"
)

// userDoc mirrors a document in the users collection.
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDoc) model() model.User {
	return model.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

type MongoUserStore struct{ coll *mongo.Collection }

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(UsersCollection)}
}

// Create inserts the user. Uniqueness relies on the unique index on email.
func (s *MongoUserStore) Create(ctx context.Context, u model.User) (string, error) {
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrEmailExists
		}
		return "", err
	}
	return doc.ID.Hex(), nil
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoUserStore) ValidID(id string) bool { return primitive.IsValidObjectID(id) }

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	return doc.model(), nil
}

// NewMongoStores wires all stores to db.
func NewMongoStores(db *mongo.Database) Stores {
	return Stores{
		Users:    NewMongoUserStore(db),
		Products: NewMongoProductStore(db),
		Orders:   NewMongoOrderStore(db),
	}
}
