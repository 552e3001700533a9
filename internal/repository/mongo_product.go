package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/shop-backend/internal/model"
)

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

type MongoProductStore struct{ coll *mongo.Collection }

func NewMongoProductStore(db *mongo.Database) *MongoProductStore {
	return &MongoProductStore{coll: db.Collection(ProductsCollection)}
}

func (s *MongoProductStore) Create(ctx context.Context, p model.Product) (model.Product, error) {
	doc := productDoc{
		ID:          primitive.NewObjectID(),
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return model.Product{}, err
	}
	p.ID = doc.ID.Hex()
	return p, nil
}

// List returns every product in insertion order.
func (s *MongoProductStore) List(ctx context.Context) ([]model.Product, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.Product{
			ID:          d.ID.Hex(),
			Title:       d.Title,
			Price:       d.Price,
			Description: d.Description,
			Image:       d.Image,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out, nil
}
